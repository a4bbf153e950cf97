package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

func (r *diseaseRepository) Create(ctx context.Context, disease *model.Disease) error {
	query := `
		INSERT INTO diseases (id, name, doctor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	disease.ID = uuid.New()
	disease.CreatedAt = time.Now()
	disease.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		disease.ID,
		disease.Name,
		disease.DoctorID,
		disease.CreatedAt,
		disease.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return repository.ErrDuplicateDisease
		}
		return fmt.Errorf("failed to create disease: %w", err)
	}
	return nil
}

func (r *diseaseRepository) List(ctx context.Context) ([]*model.Disease, error) {
	query := `
		SELECT d.id, d.name, d.doctor_id, d.created_at, d.updated_at,
			   COALESCE(doc.name, '') AS doctor_name
		FROM diseases d
		LEFT JOIN doctors doc ON d.doctor_id = doc.id
		ORDER BY d.name ASC
	`
	var diseases []*model.Disease
	err := r.db.SelectContext(ctx, &diseases, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list diseases: %w", err)
	}
	return diseases, nil
}

func (r *diseaseRepository) Update(ctx context.Context, disease *model.Disease) error {
	query := `
		UPDATE diseases
		SET name = $1, doctor_id = $2, updated_at = $3
		WHERE id = $4
	`
	disease.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		disease.Name,
		disease.DoctorID,
		disease.UpdatedAt,
		disease.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return repository.ErrDuplicateDisease
		}
		return fmt.Errorf("failed to update disease: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *diseaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM diseases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete disease: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (id, name, specialization, contact_info, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.ContactInfo,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, contact_info, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, contact_info, created_at, updated_at
		FROM doctors
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, specialization = $2, contact_info = $3, updated_at = $4
		WHERE id = $5
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Specialization,
		doctor.ContactInfo,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
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

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
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

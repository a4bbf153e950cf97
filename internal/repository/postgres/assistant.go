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

func (r *assistantRepository) Create(ctx context.Context, assistant *model.Assistant) error {
	query := `
		INSERT INTO assistants (id, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	assistant.ID = uuid.New()
	assistant.CreatedAt = time.Now()
	assistant.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		assistant.ID,
		assistant.Name,
		assistant.PasswordHash,
		assistant.CreatedAt,
		assistant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assistant: %w", err)
	}
	return nil
}

func (r *assistantRepository) Get(ctx context.Context, id uuid.UUID) (*model.Assistant, error) {
	query := `
		SELECT id, name, password_hash, created_at, updated_at
		FROM assistants
		WHERE id = $1
	`
	var assistant model.Assistant
	err := r.db.GetContext(ctx, &assistant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assistant: %w", err)
	}
	return &assistant, nil
}

func (r *assistantRepository) List(ctx context.Context) ([]*model.Assistant, error) {
	query := `
		SELECT id, name, password_hash, created_at, updated_at
		FROM assistants
		ORDER BY name ASC
	`
	var assistants []*model.Assistant
	err := r.db.SelectContext(ctx, &assistants, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistants: %w", err)
	}
	return assistants, nil
}

func (r *assistantRepository) Update(ctx context.Context, assistant *model.Assistant) error {
	query := `
		UPDATE assistants
		SET name = $1, password_hash = $2, updated_at = $3
		WHERE id = $4
	`
	assistant.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		assistant.Name,
		assistant.PasswordHash,
		assistant.UpdatedAt,
		assistant.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assistant: %w", err)
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

func (r *assistantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assistants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assistant: %w", err)
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

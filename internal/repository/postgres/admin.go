package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	query := `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admins
		WHERE username = $1
	`
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

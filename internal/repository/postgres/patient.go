package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

const pqUniqueViolation = "23505"

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, full_name, cni, email, phone_number, health_problem,
			doctor_name, city, age, gender, password_hash,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.FullName,
		patient.CNI,
		patient.Email,
		patient.PhoneNumber,
		patient.HealthProblem,
		patient.DoctorName,
		patient.City,
		patient.Age,
		patient.Gender,
		patient.PasswordHash,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, full_name, cni, email, phone_number, health_problem,
			   doctor_name, city, age, gender, password_hash,
			   created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	query := `
		SELECT id, full_name, cni, email, phone_number, health_problem,
			   doctor_name, city, age, gender, password_hash,
			   created_at, updated_at
		FROM patients
		WHERE email = $1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `
		SELECT id, full_name, cni, email, phone_number, health_problem,
			   doctor_name, city, age, gender, password_hash,
			   created_at, updated_at
		FROM patients
		ORDER BY full_name ASC
	`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET full_name = $1, cni = $2, email = $3, phone_number = $4,
			health_problem = $5, doctor_name = $6, city = $7, age = $8,
			gender = $9, updated_at = $10
		WHERE id = $11
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.FullName,
		patient.CNI,
		patient.Email,
		patient.PhoneNumber,
		patient.HealthProblem,
		patient.DoctorName,
		patient.City,
		patient.Age,
		patient.Gender,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update patient: %w", err)
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

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
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

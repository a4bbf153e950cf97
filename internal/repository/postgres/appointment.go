package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

// bookingLockKey derives the advisory lock key for a (scope, id, date)
// tuple. Booking serializes on these keys so concurrent requests for the
// same patient-date or doctor-date cannot both pass the count checks.
func bookingLockKey(scope string, id uuid.UUID, date time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(scope))
	h.Write(id[:])
	h.Write([]byte(date.Format("2006-01-02")))
	return int64(h.Sum64())
}

func (r *appointmentRepository) Book(ctx context.Context, appointment *model.Appointment) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// Fixed lock order: patient key first, then doctor key. Every
		// booking acquires in the same order, so the two locks cannot
		// deadlock against each other.
		patientKey := bookingLockKey("patient", appointment.PatientID, appointment.AppointmentDate)
		doctorKey := bookingLockKey("doctor", appointment.DoctorID, appointment.AppointmentDate)

		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, patientKey); err != nil {
			return fmt.Errorf("failed to lock patient booking key: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, doctorKey); err != nil {
			return fmt.Errorf("failed to lock doctor booking key: %w", err)
		}

		var patientCount int
		err := tx.GetContext(ctx, &patientCount, `
			SELECT COUNT(*) FROM appointments
			WHERE patient_id = $1 AND appointment_date = $2
		`, appointment.PatientID, appointment.AppointmentDate)
		if err != nil {
			return fmt.Errorf("failed to count patient appointments: %w", err)
		}
		if patientCount > 0 {
			return repository.ErrDuplicateBooking
		}

		var doctorCount int
		err = tx.GetContext(ctx, &doctorCount, `
			SELECT COUNT(*) FROM appointments
			WHERE doctor_id = $1 AND appointment_date = $2
		`, appointment.DoctorID, appointment.AppointmentDate)
		if err != nil {
			return fmt.Errorf("failed to count doctor appointments: %w", err)
		}
		if doctorCount >= model.DoctorDailyCapacity {
			return repository.ErrSlotsExhausted
		}

		appointment.ID = uuid.New()
		appointment.CreatedAt = time.Now()
		appointment.UpdatedAt = time.Now()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO appointments (
				id, patient_id, doctor_id, appointment_date, status,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			appointment.ID,
			appointment.PatientID,
			appointment.DoctorID,
			appointment.AppointmentDate,
			appointment.Status,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_date, status,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_date, status,
			   created_at, updated_at
		FROM appointments
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	query += " ORDER BY appointment_date ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
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

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
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

func (r *appointmentRepository) CountByDate(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]model.DateCount, error) {
	query := `
		SELECT appointment_date AS date, COUNT(*) AS count
		FROM appointments
		WHERE doctor_id = $1
		AND appointment_date >= $2
		AND appointment_date <= $3
		GROUP BY appointment_date
		ORDER BY appointment_date ASC
	`
	var counts []model.DateCount
	err := r.db.SelectContext(ctx, &counts, query, doctorID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	return counts, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
)

// Sentinel errors surfaced by repositories; services translate them into
// client-facing error kinds.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateDisease = errors.New("disease name already registered")
	ErrDuplicateBooking = errors.New("patient already has an appointment on this date")
	ErrSlotsExhausted   = errors.New("doctor has no remaining slots on this date")
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	List(ctx context.Context) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	List(ctx context.Context) ([]*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DiseaseRepository interface {
	Create(ctx context.Context, disease *model.Disease) error
	List(ctx context.Context) ([]*model.Disease, error)
	Update(ctx context.Context, disease *model.Disease) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AssistantRepository interface {
	Create(ctx context.Context, assistant *model.Assistant) error
	Get(ctx context.Context, id uuid.UUID) (*model.Assistant, error)
	List(ctx context.Context) ([]*model.Assistant, error)
	Update(ctx context.Context, assistant *model.Assistant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AppointmentRepository interface {
	// Book atomically enforces the per-patient and per-doctor daily limits
	// before inserting; returns ErrDuplicateBooking or ErrSlotsExhausted.
	Book(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByDate(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]model.DateCount, error)
}

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingBatch(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/service/event"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo   repository.AppointmentRepository
	events event.Recorder
}

func NewService(repo repository.AppointmentRepository, events event.Recorder) *Service {
	return &Service{repo: repo, events: events}
}

// Book validates the request and inserts a Pending appointment. The
// repository enforces the one-per-patient-per-date and ten-per-doctor-
// per-date limits atomically.
func (s *Service) Book(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if strings.TrimSpace(req.PatientID) == "" || strings.TrimSpace(req.DoctorID) == "" || strings.TrimSpace(req.AppointmentDate) == "" {
		return nil, apperrors.InvalidInput("missing_fields", "patient_id, doctor_id and appointment_date are required")
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid_patient_id", "invalid patient ID")
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid_doctor_id", "invalid doctor ID")
	}

	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid_date", "invalid appointment date format")
	}

	appointment := &model.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		Status:          model.AppointmentStatusPending,
	}

	if err := s.repo.Book(ctx, appointment); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateBooking):
			return nil, apperrors.Conflict("duplicate_booking", "you already have an appointment on this date")
		case errors.Is(err, repository.ErrSlotsExhausted):
			return nil, apperrors.Conflict("slots_exhausted", "this doctor already has no free slots on this date")
		default:
			return nil, apperrors.Internal(err)
		}
	}

	s.recordEvent(ctx, "appointment.created", appointment)
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, apperrors.Internal(err)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error) {
	newStatus := model.AppointmentStatus(status)
	switch newStatus {
	case model.AppointmentStatusPending,
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusCompleted:
	default:
		return nil, apperrors.InvalidInput("invalid_status", "invalid appointment status")
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, apperrors.Internal(err)
	}

	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.recordEvent(ctx, "appointment.updated", appointment)
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment")
		}
		return apperrors.Internal(err)
	}

	s.recordEvent(ctx, "appointment.deleted", map[string]string{"id": id.String()})
	return nil
}

// CountsByDate returns the per-date booking counts for a doctor within
// an inclusive range. Dates with zero appointments are omitted; callers
// treat missing keys as zero.
func (s *Service) CountsByDate(ctx context.Context, doctorID, startDate, endDate string) (map[string]int, error) {
	if doctorID == "" || startDate == "" || endDate == "" {
		return nil, apperrors.InvalidInput("missing_params", "doctor_id, start_date and end_date are required")
	}

	id, err := uuid.Parse(doctorID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid_doctor_id", "invalid doctor ID")
	}

	start, err := parseDate(startDate)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid_date", "invalid start date format")
	}

	end, err := parseDate(endDate)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid_date", "invalid end date format")
	}

	rows, err := s.repo.CountByDate(ctx, id, start, end)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Date.Format(dateLayout)] = row.Count
	}
	return counts, nil
}

func (s *Service) recordEvent(ctx context.Context, eventType string, payload interface{}) {
	if err := s.events.Record(ctx, eventType, payload); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to record event")
	}
}

// parseDate accepts plain dates and RFC3339 timestamps, truncating the
// latter to their calendar date in UTC.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

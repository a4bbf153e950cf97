package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-api/internal/email"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/service/event"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.PatientRepository
	hasher security.PasswordHasher
	mailer email.Mailer
	events event.Recorder
}

func NewService(repo repository.PatientRepository, hasher security.PasswordHasher, mailer email.Mailer, events event.Recorder) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		mailer: mailer,
		events: events,
	}
}

// Create registers a patient. The welcome email is dispatched in the
// background; its failure never fails the registration.
func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	patient := &model.Patient{
		FullName:      req.FullName,
		CNI:           req.CNI,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		HealthProblem: req.HealthProblem,
		DoctorName:    req.DoctorName,
		City:          req.City,
		Age:           req.Age,
		Gender:        req.Gender,
		PasswordHash:  hash,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("email_taken", "email already registered")
		}
		return nil, apperrors.Internal(err)
	}

	go func(to, name string) {
		if err := s.mailer.SendWelcome(to, name); err != nil {
			log.Error().Err(err).Str("email", to).Msg("failed to send welcome email")
		}
	}(patient.Email, patient.FullName)

	if err := s.events.Record(ctx, "patient.created", patient); err != nil {
		log.Error().Err(err).Msg("failed to record event")
	}

	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if err := validateUpdateRequest(req); err != nil {
		return nil, err
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, apperrors.Internal(err)
	}

	patient.FullName = req.FullName
	patient.CNI = req.CNI
	patient.Email = req.Email
	patient.PhoneNumber = req.PhoneNumber
	patient.HealthProblem = req.HealthProblem
	patient.DoctorName = req.DoctorName
	patient.City = req.City
	patient.Age = req.Age
	patient.Gender = req.Gender

	if err := s.repo.Update(ctx, patient); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("patient")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.Conflict("email_taken", "email already registered")
		default:
			return nil, apperrors.Internal(err)
		}
	}
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("patient")
		}
		return apperrors.Internal(err)
	}
	return nil
}

type requiredField struct {
	name  string
	value string
}

func validateCreateRequest(req *model.CreatePatientRequest) error {
	fields := []requiredField{
		{"full_name", req.FullName},
		{"cni", req.CNI},
		{"email", req.Email},
		{"phone_number", req.PhoneNumber},
		{"health_problem", req.HealthProblem},
		{"doctor_name", req.DoctorName},
		{"city", req.City},
		{"gender", req.Gender},
		{"password", req.Password},
	}
	return checkRequired(fields, req.Age)
}

func validateUpdateRequest(req *model.UpdatePatientRequest) error {
	fields := []requiredField{
		{"full_name", req.FullName},
		{"cni", req.CNI},
		{"email", req.Email},
		{"phone_number", req.PhoneNumber},
		{"health_problem", req.HealthProblem},
		{"doctor_name", req.DoctorName},
		{"city", req.City},
		{"gender", req.Gender},
	}
	return checkRequired(fields, req.Age)
}

func checkRequired(fields []requiredField, age int) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if age <= 0 {
		missing = append(missing, "age")
	}

	if len(missing) > 0 {
		return apperrors.InvalidInput("missing_fields",
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}

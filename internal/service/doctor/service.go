package doctor

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
)

type Service struct {
	repo repository.DoctorRepository
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if err := validateDoctorFields(req.Name, req.Specialization, req.ContactInfo); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		Name:           req.Name,
		Specialization: req.Specialization,
		ContactInfo:    req.ContactInfo,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctors, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	if err := validateDoctorFields(req.Name, req.Specialization, req.ContactInfo); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		Name:           req.Name,
		Specialization: req.Specialization,
		ContactInfo:    req.ContactInfo,
	}
	doctor.ID = id

	if err := s.repo.Update(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("doctor")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func validateDoctorFields(name, specialization, contactInfo string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(specialization) == "" || strings.TrimSpace(contactInfo) == "" {
		return apperrors.InvalidInput("missing_fields", "name, specialization and contact_info are required")
	}
	return nil
}

package disease

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
	repo repository.DiseaseRepository
}

func NewService(repo repository.DiseaseRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDiseaseRequest) (*model.Disease, error) {
	doctorID, err := parseDiseaseFields(req.Name, req.DoctorID)
	if err != nil {
		return nil, err
	}

	disease := &model.Disease{
		Name:     req.Name,
		DoctorID: doctorID,
	}

	if err := s.repo.Create(ctx, disease); err != nil {
		if errors.Is(err, repository.ErrDuplicateDisease) {
			return nil, apperrors.Conflict("name_taken", "disease name already exists")
		}
		return nil, apperrors.Internal(err)
	}
	return disease, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Disease, error) {
	diseases, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return diseases, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDiseaseRequest) (*model.Disease, error) {
	doctorID, err := parseDiseaseFields(req.Name, req.DoctorID)
	if err != nil {
		return nil, err
	}

	disease := &model.Disease{
		Name:     req.Name,
		DoctorID: doctorID,
	}
	disease.ID = id

	if err := s.repo.Update(ctx, disease); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("disease")
		case errors.Is(err, repository.ErrDuplicateDisease):
			return nil, apperrors.Conflict("name_taken", "disease name already exists")
		default:
			return nil, apperrors.Internal(err)
		}
	}
	return disease, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("disease")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func parseDiseaseFields(name, doctorID string) (uuid.UUID, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(doctorID) == "" {
		return uuid.Nil, apperrors.InvalidInput("missing_fields", "name and doctor_id are required")
	}

	id, err := uuid.Parse(doctorID)
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput("invalid_doctor_id", "invalid doctor ID")
	}
	return id, nil
}

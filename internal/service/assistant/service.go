package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.AssistantRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.AssistantRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) Create(ctx context.Context, req *model.CreateAssistantRequest) (*model.Assistant, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.InvalidInput("missing_fields", "name and password are required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	assistant := &model.Assistant{
		Name:         req.Name,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, assistant); err != nil {
		return nil, apperrors.Internal(err)
	}
	return assistant, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Assistant, error) {
	assistant, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("assistant")
		}
		return nil, apperrors.Internal(err)
	}
	return assistant, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Assistant, error) {
	assistants, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return assistants, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAssistantRequest) (*model.Assistant, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.InvalidInput("missing_fields", "name and password are required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	assistant := &model.Assistant{
		Name:         req.Name,
		PasswordHash: hash,
	}
	assistant.ID = id

	if err := s.repo.Update(ctx, assistant); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("assistant")
		}
		return nil, apperrors.Internal(err)
	}
	return assistant, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("assistant")
		}
		return apperrors.Internal(err)
	}
	return nil
}

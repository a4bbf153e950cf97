package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/config"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

type Service struct {
	patients repository.PatientRepository
	admins   repository.AdminRepository
	hasher   security.PasswordHasher
	jwtCfg   config.JWTConfig
}

func NewService(patients repository.PatientRepository, admins repository.AdminRepository, hasher security.PasswordHasher, jwtCfg config.JWTConfig) *Service {
	return &Service{
		patients: patients,
		admins:   admins,
		hasher:   hasher,
		jwtCfg:   jwtCfg,
	}
}

// LoginPatient verifies credentials against the stored bcrypt hash and
// issues a session token.
func (s *Service) LoginPatient(ctx context.Context, req *model.PatientLoginRequest) (*model.LoginResponse, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.InvalidInput("missing_fields", "email and password are required")
	}

	patient, err := s.patients.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(patient.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.generateToken(patient.ID, "patient")
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{UserID: patient.ID.String(), Token: token}, nil
}

// LoginAdmin requires a bcrypt match against the stored hash; an unknown
// username and a wrong password are indistinguishable to the client.
func (s *Service) LoginAdmin(ctx context.Context, req *model.AdminLoginRequest) (*model.LoginResponse, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.InvalidInput("missing_fields", "username and password are required")
	}

	admin, err := s.admins.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(admin.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.generateToken(admin.ID, "admin")
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{UserID: admin.ID.String(), Token: token}, nil
}

func (s *Service) generateToken(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Duration(s.jwtCfg.ExpiryHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

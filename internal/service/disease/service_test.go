package disease

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
)

type fakeDiseaseRepo struct {
	diseases map[uuid.UUID]*model.Disease
}

func newFakeDiseaseRepo() *fakeDiseaseRepo {
	return &fakeDiseaseRepo{diseases: make(map[uuid.UUID]*model.Disease)}
}

func (f *fakeDiseaseRepo) Create(_ context.Context, disease *model.Disease) error {
	for _, existing := range f.diseases {
		if existing.Name == disease.Name {
			return repository.ErrDuplicateDisease
		}
	}
	disease.ID = uuid.New()
	disease.CreatedAt = time.Now()
	disease.UpdatedAt = time.Now()
	stored := *disease
	f.diseases[disease.ID] = &stored
	return nil
}

func (f *fakeDiseaseRepo) List(_ context.Context) ([]*model.Disease, error) {
	var result []*model.Disease
	for _, disease := range f.diseases {
		copied := *disease
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeDiseaseRepo) Update(_ context.Context, disease *model.Disease) error {
	if _, ok := f.diseases[disease.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range f.diseases {
		if existing.ID != disease.ID && existing.Name == disease.Name {
			return repository.ErrDuplicateDisease
		}
	}
	stored := *disease
	f.diseases[disease.ID] = &stored
	return nil
}

func (f *fakeDiseaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.diseases[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.diseases, id)
	return nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeDiseaseRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		req  *model.CreateDiseaseRequest
		code string
	}{
		{"missing name", &model.CreateDiseaseRequest{DoctorID: uuid.NewString()}, "missing_fields"},
		{"missing doctor", &model.CreateDiseaseRequest{Name: "Flu"}, "missing_fields"},
		{"bad doctor id", &model.CreateDiseaseRequest{Name: "Flu", DoctorID: "nope"}, "invalid_doctor_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestCreateAndList(t *testing.T) {
	svc := NewService(newFakeDiseaseRepo())
	ctx := context.Background()
	doctorID := uuid.New()

	created, err := svc.Create(ctx, &model.CreateDiseaseRequest{Name: "Flu", DoctorID: doctorID.String()})
	require.NoError(t, err)
	assert.Equal(t, doctorID, created.DoctorID)

	diseases, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, diseases, 1)
	assert.Equal(t, "Flu", diseases[0].Name)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := NewService(newFakeDiseaseRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateDiseaseRequest{Name: "Flu", DoctorID: uuid.NewString()})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreateDiseaseRequest{Name: "Flu", DoctorID: uuid.NewString()})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindConflict, appErr.Kind)
	assert.Equal(t, "name_taken", appErr.Code)
}

func TestUpdateRejectsDuplicateName(t *testing.T) {
	svc := NewService(newFakeDiseaseRepo())
	ctx := context.Background()
	doctorID := uuid.NewString()

	_, err := svc.Create(ctx, &model.CreateDiseaseRequest{Name: "Flu", DoctorID: doctorID})
	require.NoError(t, err)
	created, err := svc.Create(ctx, &model.CreateDiseaseRequest{Name: "Cold", DoctorID: doctorID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, &model.UpdateDiseaseRequest{Name: "Flu", DoctorID: doctorID})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindConflict, appErr.Kind)
	assert.Equal(t, "name_taken", appErr.Code)
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewService(newFakeDiseaseRepo())

	_, err := svc.Update(context.Background(), uuid.New(), &model.UpdateDiseaseRequest{
		Name:     "Flu",
		DoctorID: uuid.NewString(),
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
}

func TestDelete(t *testing.T) {
	repo := newFakeDiseaseRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateDiseaseRequest{Name: "Flu", DoctorID: uuid.NewString()})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, repo.diseases)

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
}

package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
)

// fakeAppointmentRepo serializes bookings behind a mutex, mirroring the
// per-key locking the postgres implementation takes inside its
// transaction.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Book(_ context.Context, appointment *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doctorCount := 0
	for _, existing := range f.appointments {
		sameDay := existing.AppointmentDate.Equal(appointment.AppointmentDate)
		if sameDay && existing.PatientID == appointment.PatientID {
			return repository.ErrDuplicateBooking
		}
		if sameDay && existing.DoctorID == appointment.DoctorID {
			doctorCount++
		}
	}
	if doctorCount >= model.DoctorDailyCapacity {
		return repository.ErrSlotsExhausted
	}

	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()
	stored := *appointment
	f.appointments[appointment.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appointment, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	result := *appointment
	return &result, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Appointment
	for _, appointment := range f.appointments {
		if filters.DoctorID != uuid.Nil && appointment.DoctorID != filters.DoctorID {
			continue
		}
		if filters.PatientID != uuid.Nil && appointment.PatientID != filters.PatientID {
			continue
		}
		if filters.Status != "" && appointment.Status != filters.Status {
			continue
		}
		copied := *appointment
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	appointment, ok := f.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	appointment.Status = status
	appointment.UpdatedAt = time.Now()
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointmentRepo) CountByDate(_ context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]model.DateCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byDate := make(map[time.Time]int)
	for _, appointment := range f.appointments {
		if appointment.DoctorID != doctorID {
			continue
		}
		if appointment.AppointmentDate.Before(startDate) || appointment.AppointmentDate.After(endDate) {
			continue
		}
		byDate[appointment.AppointmentDate]++
	}

	var counts []model.DateCount
	for date, count := range byDate {
		counts = append(counts, model.DateCount{Date: date, Count: count})
	}
	return counts, nil
}

func (f *fakeAppointmentRepo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appointments)
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeRecorder) Record(_ context.Context, eventType string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
	return nil
}

func newTestService() (*Service, *fakeAppointmentRepo) {
	repo := newFakeAppointmentRepo()
	return NewService(repo, &fakeRecorder{}), repo
}

func bookingRequest(patientID, doctorID uuid.UUID, date string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID:       patientID.String(),
		DoctorID:        doctorID.String(),
		AppointmentDate: date,
	}
}

func TestBookValidation(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *model.CreateAppointmentRequest
		code string
	}{
		{
			name: "missing patient",
			req:  &model.CreateAppointmentRequest{DoctorID: uuid.NewString(), AppointmentDate: "2024-06-01"},
			code: "missing_fields",
		},
		{
			name: "missing date",
			req:  &model.CreateAppointmentRequest{PatientID: uuid.NewString(), DoctorID: uuid.NewString()},
			code: "missing_fields",
		},
		{
			name: "bad patient id",
			req:  &model.CreateAppointmentRequest{PatientID: "not-a-uuid", DoctorID: uuid.NewString(), AppointmentDate: "2024-06-01"},
			code: "invalid_patient_id",
		},
		{
			name: "bad date",
			req:  bookingRequest(uuid.New(), uuid.New(), "june first"),
			code: "invalid_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Book(ctx, tt.req)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}

	assert.Equal(t, 0, repo.len(), "failed bookings must not mutate state")
}

func TestBookSuccess(t *testing.T) {
	svc, _ := newTestService()

	appointment, err := svc.Book(context.Background(), bookingRequest(uuid.New(), uuid.New(), "2024-06-01"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, appointment.ID)
	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, "2024-06-01", appointment.AppointmentDate.Format("2006-01-02"))
}

func TestBookAcceptsRFC3339Dates(t *testing.T) {
	svc, _ := newTestService()

	appointment, err := svc.Book(context.Background(),
		bookingRequest(uuid.New(), uuid.New(), "2024-06-01T14:30:00Z"))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", appointment.AppointmentDate.Format("2006-01-02"))
}

func TestBookRejectsDuplicatePatientDate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	patientID := uuid.New()
	doctor1 := uuid.New()
	doctor2 := uuid.New()

	_, err := svc.Book(ctx, bookingRequest(patientID, doctor1, "2024-06-01"))
	require.NoError(t, err)

	// Same date with a different doctor is still a duplicate for the patient.
	_, err = svc.Book(ctx, bookingRequest(patientID, doctor2, "2024-06-01"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindConflict, appErr.Kind)
	assert.Equal(t, "duplicate_booking", appErr.Code)
	assert.Equal(t, 1, repo.len())

	// A different date is fine.
	_, err = svc.Book(ctx, bookingRequest(patientID, doctor2, "2024-06-02"))
	require.NoError(t, err)
}

func TestBookRejectsWhenSlotsExhausted(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	doctorID := uuid.New()

	for i := 0; i < 9; i++ {
		_, err := svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-01"))
		require.NoError(t, err)
	}

	// Tenth booking fills the last slot.
	_, err := svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-01"))
	require.NoError(t, err)

	// Eleventh is rejected without mutation.
	_, err = svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-01"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindConflict, appErr.Kind)
	assert.Equal(t, "slots_exhausted", appErr.Code)
	assert.Equal(t, model.DoctorDailyCapacity, repo.len())

	// The same doctor is free on another date.
	_, err = svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-02"))
	require.NoError(t, err)
}

func TestConcurrentBookingsNeverExceedCapacity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	doctorID := uuid.New()

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-01"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "slots_exhausted", appErr.Code)
	}
	assert.Equal(t, model.DoctorDailyCapacity, succeeded)

	counts, err := svc.CountsByDate(ctx, doctorID.String(), "2024-06-01", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, model.DoctorDailyCapacity, counts["2024-06-01"])
}

func TestCountsByDate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	doctorID := uuid.New()
	otherDoctor := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-01"))
		require.NoError(t, err)
	}
	_, err := svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-03"))
	require.NoError(t, err)

	// Outside the range and for another doctor; both must be excluded.
	_, err = svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-10"))
	require.NoError(t, err)
	_, err = svc.Book(ctx, bookingRequest(uuid.New(), otherDoctor, "2024-06-01"))
	require.NoError(t, err)

	counts, err := svc.CountsByDate(ctx, doctorID.String(), "2024-06-01", "2024-06-05")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"2024-06-01": 3,
		"2024-06-03": 1,
	}, counts)

	// Zero-count dates are absent, not zero.
	_, ok := counts["2024-06-02"]
	assert.False(t, ok)
}

func TestCountsByDateMissingParams(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CountsByDate(context.Background(), "", "2024-06-01", "2024-06-05")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
	assert.Equal(t, "missing_params", appErr.Code)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	appointment, err := svc.Book(ctx, bookingRequest(uuid.New(), uuid.New(), "2024-06-01"))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, appointment.ID, "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)

	_, err = svc.UpdateStatus(ctx, appointment.ID, "NoSuchStatus")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "invalid_status", appErr.Code)

	_, err = svc.UpdateStatus(ctx, uuid.New(), "Confirmed")
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	appointment, err := svc.Book(ctx, bookingRequest(uuid.New(), uuid.New(), "2024-06-01"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, appointment.ID))
	assert.Equal(t, 0, repo.len())

	err = svc.Delete(ctx, appointment.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
}

func TestBookRecordsEvent(t *testing.T) {
	repo := newFakeAppointmentRepo()
	recorder := &fakeRecorder{}
	svc := NewService(repo, recorder)

	_, err := svc.Book(context.Background(), bookingRequest(uuid.New(), uuid.New(), "2024-06-01"))
	require.NoError(t, err)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Len(t, recorder.events, 1)
	assert.Equal(t, "appointment.created", recorder.events[0])
}

func TestExampleScenarioNineToTen(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	doctorID := uuid.New()

	for i := 0; i < 9; i++ {
		_, err := svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-01"))
		require.NoError(t, err, fmt.Sprintf("booking %d should succeed", i+1))
	}

	// P1 takes the tenth and final slot.
	_, err := svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-01"))
	require.NoError(t, err)

	counts, err := svc.CountsByDate(ctx, doctorID.String(), "2024-06-01", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 10, counts["2024-06-01"])

	// P2 is turned away.
	_, err = svc.Book(ctx, bookingRequest(uuid.New(), doctorID, "2024-06-01"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "slots_exhausted", appErr.Code)
}

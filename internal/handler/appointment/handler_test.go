package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	appointmentService "github.com/clinicdesk/clinic-api/internal/service/appointment"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type fakeRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeRepo) Book(_ context.Context, appointment *model.Appointment) error {
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

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appointment, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	result := *appointment
	return &result, nil
}

func (f *fakeRepo) List(_ context.Context, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []*model.Appointment{}
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

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	appointment, ok := f.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	appointment.Status = status
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeRepo) CountByDate(_ context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]model.DateCount, error) {
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

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string, interface{}) error { return nil }

func newTestRouter() (*gin.Engine, *fakeRepo) {
	gin.SetMode(gin.TestMode)

	repo := newFakeRepo()
	handler := NewHandler(appointmentService.NewService(repo, noopRecorder{}))

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, repo
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBookEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":       uuid.NewString(),
		"doctor_id":        uuid.NewString(),
		"appointment_date": "2024-06-01",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Pending", data["status"])
}

func TestBookEndpointValidation(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
		"doctor_id": uuid.NewString(),
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "missing_fields", resp.Error.Code)
	assert.Nil(t, resp.Data)
}

func TestBookEndpointConflicts(t *testing.T) {
	router, _ := newTestRouter()
	patientID := uuid.NewString()
	doctorID := uuid.NewString()

	w := doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":       patientID,
		"doctor_id":        doctorID,
		"appointment_date": "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Same patient, same date.
	w = doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":       patientID,
		"doctor_id":        doctorID,
		"appointment_date": "2024-06-01",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "duplicate_booking", resp.Error.Code)

	// Fill the doctor's remaining slots, then expect slots_exhausted.
	for i := 0; i < model.DoctorDailyCapacity-1; i++ {
		w = doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
			"patient_id":       uuid.NewString(),
			"doctor_id":        doctorID,
			"appointment_date": "2024-06-01",
		})
		require.Equal(t, http.StatusCreated, w.Code, fmt.Sprintf("booking %d", i+2))
	}

	w = doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":       uuid.NewString(),
		"doctor_id":        doctorID,
		"appointment_date": "2024-06-01",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	resp = decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "slots_exhausted", resp.Error.Code)
}

func TestGetEndpointNotFound(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/appointments/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestGetEndpointInvalidID(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/appointments/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_id", resp.Error.Code)
}

func TestCountsEndpoint(t *testing.T) {
	router, _ := newTestRouter()
	doctorID := uuid.NewString()

	for _, date := range []string{"2024-06-01", "2024-06-01", "2024-06-03"} {
		w := doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
			"patient_id":       uuid.NewString(),
			"doctor_id":        doctorID,
			"appointment_date": date,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(router, http.MethodGet,
		"/api/v1/appointments/counts?doctor_id="+doctorID+"&start_date=2024-06-01&end_date=2024-06-05", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	require.Nil(t, resp.Error)

	counts, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), counts["2024-06-01"])
	assert.Equal(t, float64(1), counts["2024-06-03"])
	_, present := counts["2024-06-02"]
	assert.False(t, present, "empty dates must be omitted")
}

func TestCountsEndpointMissingParams(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/appointments/counts?doctor_id="+uuid.NewString(), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "missing_params", resp.Error.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":       uuid.NewString(),
		"doctor_id":        uuid.NewString(),
		"appointment_date": "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeResponse(t, w).Data.(map[string]interface{})
	id := created["id"].(string)

	w = doJSON(router, http.MethodPut, "/api/v1/appointments/"+id, gin.H{"status": "Confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	updated := resp.Data.(map[string]interface{})
	assert.Equal(t, "Confirmed", updated["status"])

	w = doJSON(router, http.MethodPut, "/api/v1/appointments/"+id, gin.H{"status": "Nonsense"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteEndpoint(t *testing.T) {
	router, repo := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":       uuid.NewString(),
		"doctor_id":        uuid.NewString(),
		"appointment_date": "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeResponse(t, w).Data.(map[string]interface{})["id"].(string)

	w = doJSON(router, http.MethodDelete, "/api/v1/appointments/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.appointments)

	w = doJSON(router, http.MethodDelete, "/api/v1/appointments/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

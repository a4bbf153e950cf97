package appointment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	appointmentService "github.com/clinicdesk/clinic-api/internal/service/appointment"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *appointmentService.Service
}

func NewHandler(service *appointmentService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Book(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondCreated(c, appointment)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid appointment ID"))
		return
	}

	appointment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, appointment)
}

func (h *Handler) List(c *gin.Context) {
	var filters model.AppointmentFilters

	if v := c.Query("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondError(c, apperrors.InvalidInput("invalid_doctor_id", "invalid doctor ID"))
			return
		}
		filters.DoctorID = id
	}

	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondError(c, apperrors.InvalidInput("invalid_patient_id", "invalid patient ID"))
			return
		}
		filters.PatientID = id
	}

	if v := c.Query("status"); v != "" {
		filters.Status = model.AppointmentStatus(v)
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, appointments)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	appointment, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, appointment)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid appointment ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, gin.H{"id": id.String()})
}

func (h *Handler) Counts(c *gin.Context) {
	counts, err := h.service.CountsByDate(
		c.Request.Context(),
		c.Query("doctor_id"),
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, counts)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Book)
		appointments.GET("", h.List)
		appointments.GET("/counts", h.Counts)
		appointments.GET("/:id", h.Get)
		appointments.PUT("/:id", h.UpdateStatus)
		appointments.DELETE("/:id", h.Delete)
	}
}

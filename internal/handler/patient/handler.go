package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	patientService "github.com/clinicdesk/clinic-api/internal/service/patient"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *patientService.Service
}

func NewHandler(service *patientService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	patient, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondCreated(c, gin.H{"id": patient.ID.String()})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid patient ID"))
		return
	}

	patient, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, patient)
}

func (h *Handler) List(c *gin.Context) {
	patients, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, patients)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid patient ID"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	patient, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, patient)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid patient ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, gin.H{"id": id.String()})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.Create)
		patients.GET("", h.List)
		patients.GET("/:id", h.Get)
		patients.PUT("/:id", h.Update)
		patients.DELETE("/:id", h.Delete)
	}
}

// RegisterLegacyRoutes keeps the registration path the original front
// end submits to.
func (h *Handler) RegisterLegacyRoutes(e *gin.Engine) {
	e.POST("/submit", h.Create)
}

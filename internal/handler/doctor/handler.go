package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	doctorService "github.com/clinicdesk/clinic-api/internal/service/doctor"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *doctorService.Service
}

func NewHandler(service *doctorService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	doctor, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondCreated(c, doctor)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid doctor ID"))
		return
	}

	doctor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, doctor)
}

func (h *Handler) List(c *gin.Context) {
	doctors, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, doctors)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid doctor ID"))
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	doctor, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, doctor)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid doctor ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, gin.H{"id": id.String()})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.Create)
		doctors.GET("", h.List)
		doctors.GET("/:id", h.Get)
		doctors.PUT("/:id", h.Update)
		doctors.DELETE("/:id", h.Delete)
	}
}

package disease

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	diseaseService "github.com/clinicdesk/clinic-api/internal/service/disease"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *diseaseService.Service
}

func NewHandler(service *diseaseService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDiseaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	disease, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondCreated(c, disease)
}

func (h *Handler) List(c *gin.Context) {
	diseases, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, diseases)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid disease ID"))
		return
	}

	var req model.UpdateDiseaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	disease, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, disease)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid disease ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, gin.H{"id": id.String()})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	diseases := r.Group("/diseases")
	{
		diseases.POST("", h.Create)
		diseases.GET("", h.List)
		diseases.PUT("/:id", h.Update)
		diseases.DELETE("/:id", h.Delete)
	}
}

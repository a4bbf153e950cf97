package assistant

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	assistantService "github.com/clinicdesk/clinic-api/internal/service/assistant"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *assistantService.Service
}

func NewHandler(service *assistantService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	assistant, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondCreated(c, assistant)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid assistant ID"))
		return
	}

	assistant, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, assistant)
}

func (h *Handler) List(c *gin.Context) {
	assistants, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, assistants)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid assistant ID"))
		return
	}

	var req model.UpdateAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	assistant, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, assistant)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_id", "invalid assistant ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, gin.H{"id": id.String()})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	assistants := r.Group("/assistants")
	{
		assistants.POST("", h.Create)
		assistants.GET("", h.List)
		assistants.GET("/:id", h.Get)
		assistants.PUT("/:id", h.Update)
		assistants.DELETE("/:id", h.Delete)
	}
}

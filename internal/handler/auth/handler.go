package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/internal/model"
	authService "github.com/clinicdesk/clinic-api/internal/service/auth"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *authService.Service
}

func NewHandler(service *authService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) LoginPatient(c *gin.Context) {
	var req model.PatientLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	resp, err := h.service.LoginPatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, resp)
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	var req model.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperrors.InvalidInput("invalid_body", "invalid request body"))
		return
	}

	resp, err := h.service.LoginAdmin(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.RespondOK(c, resp)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.LoginPatient)
		auth.POST("/admin", h.LoginAdmin)
	}
}

package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-api/pkg/errors"
)

// Response wraps all API responses.
type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

// Error is the client-visible error body.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 with the data envelope.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Data: data})
}

// RespondCreated sends a 201 with the data envelope.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Data: data})
}

// RespondError maps err to its HTTP status and sends the error envelope.
// Internal errors are logged with request context and masked to the client.
func RespondError(c *gin.Context, err error) {
	appErr := errors.From(err)

	if appErr.Kind == errors.KindInternal {
		log.Error().
			Err(appErr.Err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("request failed")
	}

	c.JSON(appErr.HTTPStatus(), Response{
		Error: &Error{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	})
}

// Package response writes the JSON error bodies shared by every feature handler.
package response

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/shared/apperror"
)

// ErrorBody is the error envelope: {"errors": ["..."]}.
// Detail carries the cause of a 500 outside release mode.
type ErrorBody struct {
	Errors []string `json:"errors"`
	Detail string   `json:"detail,omitempty"`
}

// MessageBody is the {"message": "..."} envelope.
type MessageBody struct {
	Message string `json:"message"`
}

// Error writes err as an ErrorBody. Errors that are not *apperror.AppError become 500s with fallback.
func Error(c *gin.Context, err error, fallback string) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.NewInternalError(fallback, err)
	}

	status := appErr.StatusCode()
	body := ErrorBody{Errors: []string{appErr.Message}}

	if apperror.IsInternal(appErr) {
		slog.Error("request failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		if gin.Mode() != gin.ReleaseMode && appErr.Err != nil {
			body.Detail = appErr.Err.Error()
		}
	}

	c.JSON(status, body)
}

// Message writes a MessageBody with the given status.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageBody{Message: msg})
}

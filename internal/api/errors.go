package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fileshare_backend/internal/shared/apperr"
)

// WriteError maps err to a status and a {"message"} body and aborts the chain.
// Server-side failures are logged, reported to Sentry when enabled, and answered
// with a generic message.
func WriteError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()

	fields := []zap.Field{
		zap.Error(err),
		zap.String("kind", kind.String()),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("requestID")),
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed", fields...)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	} else {
		zap.L().Debug("request rejected", fields...)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Message: apperr.PublicMessage(err)})
}

// BadRequest answers 400 for binding failures. The validator message is safe to show.
func BadRequest(c *gin.Context, err error) {
	zap.L().Debug("invalid request", zap.Error(err), zap.String("path", c.FullPath()))
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
}

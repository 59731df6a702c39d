// Package middleware provides gin middleware shared by every route group.
package middleware

import (
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	// HeaderRequestID is read from the request and echoed on the response.
	HeaderRequestID = "X-Request-ID"
	// ContextRequestID is the gin context key holding the request id.
	ContextRequestID = "requestID"

	requestIDLength = 16
	maxInboundIDLen = 128
)

// RequestID returns a middleware that tags every request with an id. An inbound
// X-Request-ID is reused so ids survive a proxy hop.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxInboundIDLen {
			generated, err := gonanoid.New(requestIDLength)
			if err != nil {
				zap.L().Warn("failed to generate request id", zap.Error(err))
			}
			id = generated
		}

		if id != "" {
			c.Set(ContextRequestID, id)
			c.Header(HeaderRequestID, id)
		}
		c.Next()
	}
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "requestID"
)

// RequestLogger assigns a request id (honoring an inbound X-Request-ID), echoes it
// back and logs the start and end of every request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}

	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(ContextRequestID, reqID)
		c.Header(HeaderRequestID, reqID)

		log.Info("request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", reqID,
			"remote_ip", c.ClientIP(),
		)

		c.Next()

		log.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", reqID,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// RequestID returns the id set by RequestLogger, or "" outside of it.
func RequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}

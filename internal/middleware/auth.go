package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/httperr"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/metrics"
)

const unauthorizedMessage = "Não autorizado."

// WebhookSecret accepts only requests whose Authorization header is exactly
// "Bearer <secret>".
func WebhookSecret(secret string, log logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	expected := []byte("Bearer " + secret)
	if log == nil {
		log = logger.Nop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if subtle.ConstantTimeCompare([]byte(authHeader), expected) != 1 {
			reason := "secret mismatch"
			if authHeader == "" {
				reason = "missing authorization header"
			}
			err := &httperr.AuthorizationError{Reason: reason}

			m.ObserveUnauthorized()
			log.Warn("webhook rejected",
				"request_id", RequestID(c),
				"remote_ip", c.ClientIP(),
				"error", err,
			)
			httperr.Unauthorized(c, unauthorizedMessage)
			return
		}

		c.Next()
	}
}

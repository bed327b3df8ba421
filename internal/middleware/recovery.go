package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
)

// Recovery turns a panic into a logged 500.
func Recovery(log logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("unhandled panic",
					"request_id", RequestID(c),
					"path", c.Request.URL.Path,
					"panic", rec,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"erro": "Erro interno.",
				})
			}
		}()
		c.Next()
	}
}

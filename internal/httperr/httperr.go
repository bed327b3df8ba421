package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPError is the webhook error body.
type HTTPError struct {
	Erro     string `json:"erro"`
	Detalhes any    `json:"detalhes,omitempty"`
}

func Write(c *gin.Context, status int, message string, detail any) {
	c.JSON(status, HTTPError{
		Erro:     message,
		Detalhes: detail,
	})
}

func BadRequest(c *gin.Context, message string) {
	Write(c, http.StatusBadRequest, message, nil)
}

func Internal(c *gin.Context, message string, detail any) {
	Write(c, http.StatusInternalServerError, message, detail)
}

// Unauthorized aborts the chain.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, HTTPError{Erro: message})
}

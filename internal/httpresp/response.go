package httpresp

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AgendarResponse is the /agendar envelope.
type AgendarResponse struct {
	OK          bool            `json:"ok"`
	Message     string          `json:"message"`
	Agendamento json.RawMessage `json:"agendamento,omitempty"`
	Detalhe     any             `json:"detalhe,omitempty"`
}

// WebhookResponse is the /webhook success or slot-unavailable envelope.
type WebhookResponse struct {
	Sucesso     bool            `json:"sucesso"`
	Agendamento json.RawMessage `json:"agendamento,omitempty"`
	Erro        string          `json:"erro,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Agendar(c *gin.Context, status int, resp AgendarResponse) {
	c.JSON(status, resp)
}

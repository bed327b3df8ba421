package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/httperr"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/middleware"
)

const (
	msgWebhookInvalidBody  = "Corpo da requisição inválido."
	msgWebhookUnavailable  = "Horário indisponível."
	msgWebhookFailed       = "Erro ao criar agendamento."
	msgWebhookMissingField = "Campos obrigatórios ausentes: %s"
	msgWebhookInvalidField = "Campos inválidos: %s"
)

// webhookFieldNames maps request field names back to the webhook body keys.
var webhookFieldNames = map[string]string{
	"identificador": "cpf",
	"profissional":  "profissionalId",
	"servico":       "servicoId",
	"especialidade": "especialidadeId",
}

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type WebhookHandler struct {
	booker Booker
	logger logger.Logger
}

func NewWebhookHandler(booker Booker, log logger.Logger) *WebhookHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WebhookHandler{
		booker: booker,
		logger: log,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

// FlexID is a numeric id sent either as a JSON number or as a numeric string.
type FlexID int

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}

	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("id %q is not an integer", s)
	}
	*id = FlexID(n)
	return nil
}

type WebhookRequest struct {
	Nome            string `json:"nome"`
	CPF             string `json:"cpf"`
	Data            string `json:"data"`
	Hora            string `json:"hora"`
	ProfissionalID  FlexID `json:"profissionalId"`
	ServicoID       FlexID `json:"servicoId"`
	EspecialidadeID FlexID `json:"especialidadeId"`
	AccountUnidade  FlexID `json:"accountUnidade"`
}

func (in WebhookRequest) toDomain() domain.Request {
	return domain.Request{
		Name: in.Nome,
		Key:  in.CPF,
		Date: in.Data,
		Time: in.Hora,
		Assignment: domain.Assignment{
			UnitID:         int(in.AccountUnidade),
			ProfessionalID: int(in.ProfissionalID),
			ServiceID:      int(in.ServicoID),
			SpecialtyID:    int(in.EspecialidadeID),
		},
	}
}

////////////////////////////////////////////////////////
// POST /webhook
////////////////////////////////////////////////////////

func (h *WebhookHandler) Handle(c *gin.Context) {
	var in WebhookRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Info("webhook body rejected", "request_id", middleware.RequestID(c), "error", err)
		httperr.BadRequest(c, msgWebhookInvalidBody)
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())

	res, err := h.booker.Execute(ctx, middleware.RequestID(c), in.toDomain())
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			httperr.BadRequest(c, validationMessage(verr))
			return
		}

		httperr.Write(c, httperr.Status(err), msgWebhookFailed, httperr.Detail(err))
		return
	}

	if !res.Booked {
		httpresp.OK(c, httpresp.WebhookResponse{
			Sucesso: false,
			Erro:    msgWebhookUnavailable,
		})
		return
	}

	httpresp.OK(c, httpresp.WebhookResponse{
		Sucesso:     true,
		Agendamento: res.Appointment,
	})
}

func validationMessage(verr *domain.ValidationError) string {
	if len(verr.Missing) > 0 {
		return fmt.Sprintf(msgWebhookMissingField, strings.Join(webhookFields(verr.Missing), ", "))
	}
	return fmt.Sprintf(msgWebhookInvalidField, strings.Join(webhookFields(verr.Invalid), ", "))
}

func webhookFields(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if mapped, ok := webhookFieldNames[n]; ok {
			n = mapped
		}
		out = append(out, n)
	}
	return out
}

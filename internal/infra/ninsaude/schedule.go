package ninsaude

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
)

// ListAvailableSlots returns the open slots of a professional on a single day.
// GET /atendimento_agenda/listar/horario/disponivel/profissional/{id}/dataInicial/{d}/dataFinal/{d}?accountUnidade={u}
func (c *Client) ListAvailableSlots(
	ctx context.Context,
	token string,
	professionalID int,
	unitID int,
	date string,
) ([]domain.Slot, error) {

	path := fmt.Sprintf(
		"/atendimento_agenda/listar/horario/disponivel/profissional/%d/dataInicial/%s/dataFinal/%s",
		professionalID,
		url.PathEscape(date),
		url.PathEscape(date),
	)

	query := url.Values{}
	query.Set("accountUnidade", strconv.Itoa(unitID))

	raw, err := c.do(ctx, "list_slots", http.MethodGet, path, query, token, nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Result []domain.Slot `json:"result"`
	}
	if err := decode("list_slots", raw, &res); err != nil {
		return nil, err
	}
	return res.Result, nil
}

// CreateAppointment books the appointment and returns the raw created record.
// POST /atendimento_agenda
func (c *Client) CreateAppointment(
	ctx context.Context,
	token string,
	payload domain.AppointmentPayload,
) (json.RawMessage, error) {

	raw, err := c.do(ctx, "create_appointment", http.MethodPost, "/atendimento_agenda", nil, token, payload)
	if err != nil {
		return nil, err
	}

	if !json.Valid(raw) {
		return nil, &domain.UpstreamError{
			Kind:      domain.UpstreamAPI,
			Operation: "create_appointment",
			Body:      raw,
			Err:       fmt.Errorf("response is not JSON"),
		}
	}
	return json.RawMessage(raw), nil
}

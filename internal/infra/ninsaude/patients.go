package ninsaude

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
)

// FindPatients lists patients matching filter.
// GET /cadastro_paciente/listar?filter={filter}&property={properties}
func (c *Client) FindPatients(
	ctx context.Context,
	token string,
	filter string,
	properties string,
) ([]domain.PatientRef, error) {

	query := url.Values{}
	query.Set("filter", filter)
	query.Set("property", properties)

	raw, err := c.do(ctx, "list_patients", http.MethodGet, "/cadastro_paciente/listar", query, token, nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Result []domain.PatientRef `json:"result"`
	}
	if err := decode("list_patients", raw, &res); err != nil {
		return nil, err
	}
	return res.Result, nil
}

// CreatePatient registers an active patient.
// POST /cadastro_paciente
func (c *Client) CreatePatient(
	ctx context.Context,
	token string,
	p domain.NewPatient,
) (domain.PatientRef, error) {

	body := map[string]any{
		"nome":  p.Name,
		"ativo": 1,
	}
	if p.CPF != "" {
		body["cpf"] = p.CPF
	} else if p.Phone != "" {
		body["telefone1"] = p.Phone
	} else {
		body["telefone1"] = nil
	}

	raw, err := c.do(ctx, "create_patient", http.MethodPost, "/cadastro_paciente", nil, token, body)
	if err != nil {
		return domain.PatientRef{}, err
	}

	// Ninsaúde wraps the record in "result"; accept a bare record as well.
	var res struct {
		ID     int64              `json:"id"`
		Result *domain.PatientRef `json:"result"`
	}
	if err := decode("create_patient", raw, &res); err != nil {
		return domain.PatientRef{}, err
	}

	id := res.ID
	if res.Result != nil && res.Result.ID != 0 {
		id = res.Result.ID
	}
	if id == 0 {
		return domain.PatientRef{}, &domain.UpstreamError{
			Kind:      domain.UpstreamAPI,
			Operation: "create_patient",
			Body:      raw,
			Err:       errors.New("response without patient id"),
		}
	}

	return domain.PatientRef{ID: id}, nil
}

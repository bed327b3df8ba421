package booking

import "strings"

// Assignment identifies where and with whom the appointment is booked.
type Assignment struct {
	UnitID         int
	ProfessionalID int
	ServiceID      int
	SpecialtyID    int
}

// Request is a normalized booking request, independent of the inbound surface.
type Request struct {
	Name string
	// Key is the patient lookup value: a phone number or a CPF, depending on the strategy.
	Key  string
	Date string // YYYY-MM-DD
	Time string // HH:MM or HH:MM:SS

	Assignment Assignment
}

// Validate checks required-field presence. keyRequired is set by the lookup strategy.
func (r Request) Validate(keyRequired bool) error {
	var missing []string

	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "nome")
	}
	if keyRequired && strings.TrimSpace(r.Key) == "" {
		missing = append(missing, "identificador")
	}
	if strings.TrimSpace(r.Date) == "" {
		missing = append(missing, "data")
	}
	if strings.TrimSpace(r.Time) == "" {
		missing = append(missing, "hora")
	}

	a := r.Assignment
	if a.ProfessionalID == 0 {
		missing = append(missing, "profissional")
	}
	if a.ServiceID == 0 {
		missing = append(missing, "servico")
	}
	if a.SpecialtyID == 0 {
		missing = append(missing, "especialidade")
	}
	if a.UnitID == 0 {
		missing = append(missing, "accountUnidade")
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

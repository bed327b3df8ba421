package booking

import (
	"context"
	"encoding/json"
)

// PatientRef is a patient id in Ninsaúde.
type PatientRef struct {
	ID int64 `json:"id"`
}

// NewPatient is the body of a patient creation. Exactly one of Phone/CPF is set by
// the lookup strategy; Phone is sent as null when empty.
type NewPatient struct {
	Name  string
	Phone string
	CPF   string
}

// Slot is one open slot returned by the availability listing.
type Slot struct {
	StartTime string `json:"horaInicial"`
	EndTime   string `json:"horaFinal,omitempty"`
}

// AppointmentPayload is the body of POST /atendimento_agenda.
type AppointmentPayload struct {
	Unit         int               `json:"accountUnidade"`
	Professional int               `json:"profissional"`
	Date         string            `json:"data"`
	StartTime    string            `json:"horaInicial"`
	EndTime      string            `json:"horaFinal"`
	Patient      int64             `json:"paciente"`
	Status       AppointmentStatus `json:"status"`
	Service      int               `json:"servico"`
	Specialty    int               `json:"especialidade"`
}

// Gateway is the remote clinic-management API. Every call but AccessToken takes the
// bearer token explicitly; nothing is cached between calls.
type Gateway interface {
	AccessToken(ctx context.Context) (string, error)

	FindPatients(
		ctx context.Context,
		token string,
		filter string,
		properties string,
	) ([]PatientRef, error)

	CreatePatient(
		ctx context.Context,
		token string,
		p NewPatient,
	) (PatientRef, error)

	ListAvailableSlots(
		ctx context.Context,
		token string,
		professionalID int,
		unitID int,
		date string,
	) ([]Slot, error)

	CreateAppointment(
		ctx context.Context,
		token string,
		payload AppointmentPayload,
	) (json.RawMessage, error)
}

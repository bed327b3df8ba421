package booking

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Stage names a step of the booking pipeline.
type Stage string

const (
	StageValidating           Stage = "validating"
	StageAuthenticating       Stage = "authenticating"
	StageResolvingPatient     Stage = "resolving_patient"
	StageCheckingAvailability Stage = "checking_availability"
	StageCreatingAppointment  Stage = "creating_appointment"
)

// ValidationError is returned before any remote call when the request is incomplete.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return "validation: " + strings.Join(parts, "; ")
}

// UpstreamKind separates the token exchange from the other Ninsaúde calls.
type UpstreamKind string

const (
	UpstreamAuth UpstreamKind = "auth"
	UpstreamAPI  UpstreamKind = "api"
)

// UpstreamError is any failed call to Ninsaúde. Body holds the remote error payload
// when one was received; it is echoed to the caller for diagnostics.
type UpstreamError struct {
	Kind       UpstreamKind
	Operation  string
	StatusCode int
	Body       []byte
	Err        error

	// Stage is set by the pipeline when the error crosses it.
	Stage Stage
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("ninsaude %s: status %d: %s", e.Operation, e.StatusCode, strings.TrimSpace(string(e.Body)))
	}
	return fmt.Sprintf("ninsaude %s: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Detail returns the remote payload as JSON when possible, as text otherwise.
func (e *UpstreamError) Detail() any {
	if len(e.Body) > 0 {
		if json.Valid(e.Body) {
			return json.RawMessage(e.Body)
		}
		return strings.TrimSpace(string(e.Body))
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return nil
}

package booking

import "strings"

// PatientKey decides how a patient is looked up and created in Ninsaúde.
type PatientKey interface {
	Name() string
	// Required reports whether the request must carry a key.
	Required() bool
	// Filter returns the lookup filter and the property list for the listing call.
	Filter(r Request) (filter string, properties string)
	NewPatient(r Request) NewPatient
}

// PhoneKey looks patients up by phone digits, falling back to the name.
type PhoneKey struct{}

func (PhoneKey) Name() string   { return "telefone" }
func (PhoneKey) Required() bool { return false }

func (PhoneKey) Filter(r Request) (string, string) {
	digits := OnlyDigits(r.Key)
	if digits == "" {
		return r.Name, "id,nome,telefone1"
	}
	return digits, "id,nome,telefone1"
}

func (PhoneKey) NewPatient(r Request) NewPatient {
	return NewPatient{Name: r.Name, Phone: OnlyDigits(r.Key)}
}

// DocumentKey looks patients up by CPF, used verbatim.
type DocumentKey struct{}

func (DocumentKey) Name() string   { return "cpf" }
func (DocumentKey) Required() bool { return true }

func (DocumentKey) Filter(r Request) (string, string) {
	return strings.TrimSpace(r.Key), "id,nome,cpf"
}

func (DocumentKey) NewPatient(r Request) NewPatient {
	return NewPatient{Name: r.Name, CPF: strings.TrimSpace(r.Key)}
}

// OnlyDigits strips every non-digit rune.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package booking

// ===============================
// Appointment Status
// ===============================

// AppointmentStatus is the numeric status Ninsaúde stores on atendimento_agenda.
type AppointmentStatus int

const (
	// StatusScheduled is the fixed status sent on creation.
	StatusScheduled AppointmentStatus = 0
)

// InitialStatus is the status every appointment created by the bridge starts in.
func InitialStatus() AppointmentStatus {
	return StatusScheduled
}

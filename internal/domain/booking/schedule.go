package booking

import (
	"strings"
	"time"
)

// AppointmentDuration is the fixed length of every booked appointment.
const AppointmentDuration = 30 * time.Minute

const clockLayout = "15:04:05"

// Window is the start/end pair sent to Ninsaúde, both formatted HH:MM:SS.
type Window struct {
	Start string
	End   string
}

// NewWindow computes the appointment window for a HH:MM or HH:MM:SS start.
//
// Arithmetic is wall-clock on a single day: an end past 23:59:59 wraps to the
// early morning ("23:50" ends at "00:20:00") and the date is not advanced.
func NewWindow(hora string) (Window, error) {
	start := strings.TrimSpace(hora)
	if strings.Count(start, ":") == 1 {
		start += ":00"
	}

	t, err := time.Parse(clockLayout, start)
	if err != nil {
		return Window{}, &ValidationError{Invalid: []string{"hora"}}
	}

	return Window{
		Start: t.Format(clockLayout),
		End:   t.Add(AppointmentDuration).Format(clockLayout),
	}, nil
}

// MatchesSlot reports whether a slot start reported by Ninsaúde ("09:00:00")
// begins with the requested time ("09:00").
func MatchesSlot(slotStart, requested string) bool {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return false
	}
	return strings.HasPrefix(slotStart, requested)
}

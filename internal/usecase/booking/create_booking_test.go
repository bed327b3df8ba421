package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
)

// fakeGateway records calls and answers with canned values.
type fakeGateway struct {
	calls []string

	tokenErr    error
	found       []domain.PatientRef
	findErr     error
	created     domain.PatientRef
	createErr   error
	slots       []domain.Slot
	slotsErr    error
	appointment json.RawMessage
	bookErr     error

	filter     string
	properties string
	newPatient domain.NewPatient
	payload    domain.AppointmentPayload
}

func (g *fakeGateway) AccessToken(context.Context) (string, error) {
	g.calls = append(g.calls, "token")
	if g.tokenErr != nil {
		return "", g.tokenErr
	}
	return "tok", nil
}

func (g *fakeGateway) FindPatients(_ context.Context, token, filter, properties string) ([]domain.PatientRef, error) {
	g.calls = append(g.calls, "find")
	g.filter, g.properties = filter, properties
	return g.found, g.findErr
}

func (g *fakeGateway) CreatePatient(_ context.Context, token string, p domain.NewPatient) (domain.PatientRef, error) {
	g.calls = append(g.calls, "create_patient")
	g.newPatient = p
	return g.created, g.createErr
}

func (g *fakeGateway) ListAvailableSlots(_ context.Context, token string, professionalID, unitID int, date string) ([]domain.Slot, error) {
	g.calls = append(g.calls, "slots")
	return g.slots, g.slotsErr
}

func (g *fakeGateway) CreateAppointment(_ context.Context, token string, payload domain.AppointmentPayload) (json.RawMessage, error) {
	g.calls = append(g.calls, "book")
	g.payload = payload
	return g.appointment, g.bookErr
}

type memorySink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *memorySink) Write(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func newUseCase(t *testing.T, g *fakeGateway, opts Options) (*CreateBooking, func() []audit.Event) {
	t.Helper()
	sink := &memorySink{}
	d := audit.NewDispatcher(sink, logger.Nop(), 10)
	uc := NewCreateBooking(g, d, logger.Nop(), nil, opts)

	flush := func() []audit.Event {
		require.NoError(t, d.Close(context.Background()))
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return sink.events
	}
	return uc, flush
}

var phoneOpts = Options{Channel: "agendar", PatientKey: domain.PhoneKey{}, CheckAvailability: true}

func validRequest() domain.Request {
	return domain.Request{
		Name: "Ana",
		Key:  "(11) 98888-7777",
		Date: "2024-05-10",
		Time: "09:00",
		Assignment: domain.Assignment{
			UnitID: 1, ProfessionalID: 3, ServiceID: 1, SpecialtyID: 1,
		},
	}
}

func TestExecuteCreatesPatientAndBooks(t *testing.T) {
	g := &fakeGateway{
		created:     domain.PatientRef{ID: 42},
		slots:       []domain.Slot{{StartTime: "08:30:00"}, {StartTime: "09:00:00"}},
		appointment: json.RawMessage(`{"id":900}`),
	}
	uc, flush := newUseCase(t, g, phoneOpts)

	res, err := uc.Execute(context.Background(), "req-1", validRequest())

	require.NoError(t, err)
	assert.True(t, res.Booked)
	assert.Equal(t, int64(42), res.PatientID)
	assert.JSONEq(t, `{"id":900}`, string(res.Appointment))

	assert.Equal(t, []string{"token", "find", "create_patient", "slots", "book"}, g.calls)
	assert.Equal(t, "11988887777", g.filter)
	assert.Equal(t, domain.NewPatient{Name: "Ana", Phone: "11988887777"}, g.newPatient)
	assert.Equal(t, domain.AppointmentPayload{
		Unit:         1,
		Professional: 3,
		Date:         "2024-05-10",
		StartTime:    "09:00:00",
		EndTime:      "09:30:00",
		Patient:      42,
		Status:       domain.StatusScheduled,
		Service:      1,
		Specialty:    1,
	}, g.payload)

	events := flush()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionBookingCreated, events[0].Action)
	assert.Equal(t, "req-1", events[0].RequestID)
	require.NotNil(t, events[0].PatientID)
	assert.Equal(t, int64(42), *events[0].PatientID)
}

func TestExecuteUsesFirstMatchWithoutCreating(t *testing.T) {
	g := &fakeGateway{
		found:       []domain.PatientRef{{ID: 7}, {ID: 8}},
		slots:       []domain.Slot{{StartTime: "09:00:00"}},
		appointment: json.RawMessage(`{"id":1}`),
	}
	uc, _ := newUseCase(t, g, phoneOpts)

	res, err := uc.Execute(context.Background(), "", validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(7), res.PatientID)
	assert.NotContains(t, g.calls, "create_patient")
	assert.Equal(t, int64(7), g.payload.Patient)
}

func TestExecuteSlotUnavailableShortCircuits(t *testing.T) {
	tests := []struct {
		name  string
		slots []domain.Slot
	}{
		{"no result list", nil},
		{"no matching slot", []domain.Slot{{StartTime: "10:00:00"}, {StartTime: "09:30:00"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGateway{found: []domain.PatientRef{{ID: 7}}, slots: tt.slots}
			uc, flush := newUseCase(t, g, phoneOpts)

			res, err := uc.Execute(context.Background(), "", validRequest())

			require.NoError(t, err)
			assert.False(t, res.Booked)
			assert.Nil(t, res.Appointment)
			assert.NotContains(t, g.calls, "book")

			events := flush()
			require.Len(t, events, 1)
			assert.Equal(t, audit.ActionSlotUnavailable, events[0].Action)
		})
	}
}

func TestExecuteWithoutAvailabilityStage(t *testing.T) {
	g := &fakeGateway{
		found:       []domain.PatientRef{{ID: 7}},
		appointment: json.RawMessage(`{"id":2}`),
	}
	uc, _ := newUseCase(t, g, Options{Channel: "webhook", PatientKey: domain.DocumentKey{}})

	req := validRequest()
	req.Key = "123.456.789-00"

	res, err := uc.Execute(context.Background(), "", req)

	require.NoError(t, err)
	assert.True(t, res.Booked)
	assert.Equal(t, []string{"token", "find", "book"}, g.calls)
	assert.Equal(t, "123.456.789-00", g.filter)
	assert.Equal(t, "id,nome,cpf", g.properties)
}

func TestExecuteValidationMakesNoRemoteCall(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		mut  func(r *domain.Request)
	}{
		{"missing name", phoneOpts, func(r *domain.Request) { r.Name = "" }},
		{"missing date", phoneOpts, func(r *domain.Request) { r.Date = "" }},
		{"missing time", phoneOpts, func(r *domain.Request) { r.Time = "" }},
		{"unparsable time", phoneOpts, func(r *domain.Request) { r.Time = "nove horas" }},
		{"missing cpf", Options{PatientKey: domain.DocumentKey{}}, func(r *domain.Request) { r.Key = "" }},
		{"missing professional", phoneOpts, func(r *domain.Request) { r.Assignment.ProfessionalID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGateway{}
			uc, flush := newUseCase(t, g, tt.opts)

			req := validRequest()
			tt.mut(&req)
			_, err := uc.Execute(context.Background(), "", req)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Empty(t, g.calls)
			assert.Empty(t, flush())
		})
	}
}

func TestExecuteStopsAtFailingStage(t *testing.T) {
	remote := func(op string) error {
		return &domain.UpstreamError{Kind: domain.UpstreamAPI, Operation: op, StatusCode: 500, Body: []byte(`{"erro":"x"}`)}
	}

	tests := []struct {
		name      string
		gateway   *fakeGateway
		wantStage domain.Stage
		wantCalls []string
	}{
		{
			name:      "token",
			gateway:   &fakeGateway{tokenErr: &domain.UpstreamError{Kind: domain.UpstreamAuth, Operation: "token"}},
			wantStage: domain.StageAuthenticating,
			wantCalls: []string{"token"},
		},
		{
			name:      "lookup",
			gateway:   &fakeGateway{findErr: remote("list_patients")},
			wantStage: domain.StageResolvingPatient,
			wantCalls: []string{"token", "find"},
		},
		{
			name:      "patient create",
			gateway:   &fakeGateway{createErr: remote("create_patient")},
			wantStage: domain.StageResolvingPatient,
			wantCalls: []string{"token", "find", "create_patient"},
		},
		{
			name:      "availability",
			gateway:   &fakeGateway{found: []domain.PatientRef{{ID: 1}}, slotsErr: remote("list_slots")},
			wantStage: domain.StageCheckingAvailability,
			wantCalls: []string{"token", "find", "slots"},
		},
		{
			name: "booking",
			gateway: &fakeGateway{
				created: domain.PatientRef{ID: 42},
				slots:   []domain.Slot{{StartTime: "09:00:00"}},
				bookErr: remote("create_appointment"),
			},
			wantStage: domain.StageCreatingAppointment,
			wantCalls: []string{"token", "find", "create_patient", "slots", "book"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, flush := newUseCase(t, tt.gateway, phoneOpts)

			res, err := uc.Execute(context.Background(), "", validRequest())

			assert.Nil(t, res)
			var upErr *domain.UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.wantStage, upErr.Stage)
			assert.Equal(t, tt.wantCalls, tt.gateway.calls)

			events := flush()
			require.Len(t, events, 1)
			assert.Equal(t, audit.ActionBookingFailed, events[0].Action)
			assert.Equal(t, string(tt.wantStage), events[0].Stage)
		})
	}
}

package booking

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/metrics"
)

// ======================================================
// OPTIONS / RESULT
// ======================================================

// Options selects the pipeline variant for one inbound surface.
type Options struct {
	Channel           string
	PatientKey        domain.PatientKey
	CheckAvailability bool
}

type Result struct {
	// Booked is false when the requested slot was not available.
	Booked      bool
	PatientID   int64
	Appointment json.RawMessage
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	gateway domain.Gateway
	audit   *audit.Dispatcher
	logger  logger.Logger
	metrics *metrics.Metrics
	opts    Options

	stages []stage
}

// run is the state of one execution. It never outlives Execute.
type run struct {
	req    domain.Request
	window domain.Window

	token       string
	patient     domain.PatientRef
	appointment json.RawMessage
}

// stage returns proceed=false to stop the pipeline without an error.
type stage struct {
	name domain.Stage
	exec func(ctx context.Context, r *run) (proceed bool, err error)
}

func NewCreateBooking(
	gateway domain.Gateway,
	dispatcher *audit.Dispatcher,
	log logger.Logger,
	m *metrics.Metrics,
	opts Options,
) *CreateBooking {
	if opts.PatientKey == nil {
		opts.PatientKey = domain.PhoneKey{}
	}
	if log == nil {
		log = logger.Nop()
	}

	uc := &CreateBooking{
		gateway: gateway,
		audit:   dispatcher,
		logger:  log.With("channel", opts.Channel),
		metrics: m,
		opts:    opts,
	}

	uc.stages = []stage{
		{domain.StageAuthenticating, uc.authenticate},
		{domain.StageResolvingPatient, uc.resolvePatient},
	}
	if opts.CheckAvailability {
		uc.stages = append(uc.stages, stage{domain.StageCheckingAvailability, uc.checkAvailability})
	}
	uc.stages = append(uc.stages, stage{domain.StageCreatingAppointment, uc.createAppointment})

	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	requestID string,
	req domain.Request,
) (*Result, error) {

	log := uc.logger.With("request_id", requestID)

	// --------------------------------------------------
	// 1️⃣ Validação (nenhuma chamada remota)
	// --------------------------------------------------
	if err := req.Validate(uc.opts.PatientKey.Required()); err != nil {
		uc.metrics.ObserveBooking(uc.opts.Channel, "invalid")
		log.Info("booking rejected", "error", err)
		return nil, err
	}

	window, err := domain.NewWindow(req.Time)
	if err != nil {
		uc.metrics.ObserveBooking(uc.opts.Channel, "invalid")
		log.Info("booking rejected", "error", err)
		return nil, err
	}

	r := &run{req: req, window: window}

	// --------------------------------------------------
	// 2️⃣ Token → paciente → [disponibilidade] → agendamento
	// --------------------------------------------------
	for _, st := range uc.stages {
		proceed, err := st.exec(ctx, r)
		if err != nil {
			var upErr *domain.UpstreamError
			if errors.As(err, &upErr) {
				upErr.Stage = st.name
			}

			uc.metrics.ObserveBooking(uc.opts.Channel, "failed")
			log.Error("booking failed", "stage", st.name, "error", err)
			uc.dispatch(requestID, audit.ActionBookingFailed, st.name, r, map[string]any{
				"data":  req.Date,
				"hora":  r.window.Start,
				"error": err.Error(),
			})
			return nil, err
		}

		if !proceed {
			uc.metrics.ObserveBooking(uc.opts.Channel, "slot_unavailable")
			log.Info("slot unavailable", "data", req.Date, "hora", req.Time)
			uc.dispatch(requestID, audit.ActionSlotUnavailable, st.name, r, map[string]any{
				"data": req.Date,
				"hora": r.window.Start,
			})
			return &Result{Booked: false, PatientID: r.patient.ID}, nil
		}
	}

	// --------------------------------------------------
	// 3️⃣ Auditoria
	// --------------------------------------------------
	uc.metrics.ObserveBooking(uc.opts.Channel, "booked")
	log.Info("booking created", "patient_id", r.patient.ID, "data", req.Date, "hora", r.window.Start)
	uc.dispatch(requestID, audit.ActionBookingCreated, domain.StageCreatingAppointment, r, map[string]any{
		"data":         req.Date,
		"hora":         r.window.Start,
		"profissional": req.Assignment.ProfessionalID,
	})

	return &Result{
		Booked:      true,
		PatientID:   r.patient.ID,
		Appointment: r.appointment,
	}, nil
}

// ======================================================
// STAGES
// ======================================================

func (uc *CreateBooking) authenticate(ctx context.Context, r *run) (bool, error) {
	token, err := uc.gateway.AccessToken(ctx)
	if err != nil {
		return false, err
	}
	r.token = token
	return true, nil
}

// resolvePatient uses the first match; it creates the patient only when the lookup is empty.
func (uc *CreateBooking) resolvePatient(ctx context.Context, r *run) (bool, error) {
	filter, properties := uc.opts.PatientKey.Filter(r.req)

	found, err := uc.gateway.FindPatients(ctx, r.token, filter, properties)
	if err != nil {
		return false, err
	}
	if len(found) > 0 {
		r.patient = found[0]
		return true, nil
	}

	created, err := uc.gateway.CreatePatient(ctx, r.token, uc.opts.PatientKey.NewPatient(r.req))
	if err != nil {
		return false, err
	}
	r.patient = created
	return true, nil
}

func (uc *CreateBooking) checkAvailability(ctx context.Context, r *run) (bool, error) {
	a := r.req.Assignment

	slots, err := uc.gateway.ListAvailableSlots(ctx, r.token, a.ProfessionalID, a.UnitID, r.req.Date)
	if err != nil {
		return false, err
	}

	for _, s := range slots {
		if domain.MatchesSlot(s.StartTime, r.req.Time) {
			return true, nil
		}
	}
	return false, nil
}

func (uc *CreateBooking) createAppointment(ctx context.Context, r *run) (bool, error) {
	a := r.req.Assignment

	created, err := uc.gateway.CreateAppointment(ctx, r.token, domain.AppointmentPayload{
		Unit:         a.UnitID,
		Professional: a.ProfessionalID,
		Date:         r.req.Date,
		StartTime:    r.window.Start,
		EndTime:      r.window.End,
		Patient:      r.patient.ID,
		Status:       domain.InitialStatus(),
		Service:      a.ServiceID,
		Specialty:    a.SpecialtyID,
	})
	if err != nil {
		return false, err
	}
	r.appointment = created
	return true, nil
}

func (uc *CreateBooking) dispatch(requestID, action string, st domain.Stage, r *run, meta map[string]any) {
	ev := audit.Event{
		RequestID: requestID,
		Channel:   uc.opts.Channel,
		Action:    action,
		Stage:     string(st),
		Metadata:  meta,
	}
	if r.patient.ID != 0 {
		id := r.patient.ID
		ev.PatientID = &id
	}
	uc.audit.Dispatch(ev)
}

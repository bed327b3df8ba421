package audit

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
)

const (
	ActionBookingCreated  = "booking_created"
	ActionSlotUnavailable = "booking_slot_unavailable"
	ActionBookingFailed   = "booking_failed"
	defaultQueueSize      = 100
	writeTimeout          = 5 * time.Second
)

type Event struct {
	RequestID string
	Channel   string
	Action    string
	Stage     string
	PatientID *int64
	Metadata  any
}

// Dispatcher writes events on a single background worker. Dispatch never blocks:
// when the queue is full the event is dropped.
type Dispatcher struct {
	sink   Sink
	logger logger.Logger
	queue  chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, log logger.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if log == nil {
		log = logger.Nop()
	}

	d := &Dispatcher{
		sink:   sink,
		logger: log,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.sink.Write(ctx, ev); err != nil {
			d.logger.Error("audit write failed", "action", ev.Action, "error", err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits until the queued ones are written or ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

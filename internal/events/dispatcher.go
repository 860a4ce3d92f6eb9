package events

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	// DefaultQueueSize is the queue capacity used when none is given.
	DefaultQueueSize = 64

	// drainTimeout bounds delivery of queued events after shutdown.
	drainTimeout = 2 * time.Second
)

// Sink receives events one at a time from the dispatcher goroutine.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Event) error
}

// Logger is the subset of logging.Logger the dispatcher uses.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Dispatcher queues events from the lock and fans them out to sinks.
type Dispatcher struct {
	siteID string
	queue  chan Event
	sinks  []Sink
	logger Logger
	now    func() time.Time

	dropped   atomic.Uint64
	delivered atomic.Uint64

	// failing is only touched by the Run goroutine.
	failing map[string]bool
}

// NewDispatcher returns a dispatcher that stamps events with siteID and
// delivers them to sinks in the order given.
func NewDispatcher(siteID string, queueSize int, logger Logger, sinks ...Sink) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Dispatcher{
		siteID:  siteID,
		queue:   make(chan Event, queueSize),
		sinks:   sinks,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		failing: make(map[string]bool),
	}
}

// Record stamps e with an ID, site and time and queues it. It never
// blocks; when the queue is full the event is dropped and counted.
func (d *Dispatcher) Record(e Event) {
	e.stamp(d.siteID, d.now())

	select {
	case d.queue <- e:
	default:
		d.dropped.Add(1)
	}
}

// Run delivers queued events until ctx is cancelled, then makes one
// bounded pass over whatever is still queued.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case e := <-d.queue:
			d.deliver(ctx, e)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case e := <-d.queue:
			d.deliver(ctx, e)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e Event) {
	for _, s := range d.sinks {
		err := s.Deliver(ctx, e)
		name := s.Name()

		switch {
		case err != nil && !d.failing[name]:
			d.failing[name] = true
			d.logger.Warn("event sink failed", "sink", name, "event_id", e.ID, "error", err)
		case err == nil && d.failing[name]:
			d.failing[name] = false
			d.logger.Info("event sink recovered", "sink", name)
		}
	}
	d.delivered.Add(1)
}

// Dropped returns how many events were discarded because the queue was full.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Delivered returns how many events have been handed to every sink.
func (d *Dispatcher) Delivered() uint64 {
	return d.delivered.Load()
}

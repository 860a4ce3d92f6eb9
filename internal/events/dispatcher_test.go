package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-keypad/internal/access"
)

// recordingSink keeps every delivered event.
type recordingSink struct {
	name string
	mu   sync.Mutex
	got  []Event
	err  error
	// order, when set, receives the sink name on each delivery.
	order *[]string
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, e)
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
	return s.err
}

func (s *recordingSink) events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.got...)
}

func (s *recordingSink) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

type logLine struct {
	msg  string
	args []any
}

type captureLogger struct {
	mu    sync.Mutex
	infos []logLine
	warns []logLine
}

func (l *captureLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	l.infos = append(l.infos, logLine{msg, args})
	l.mu.Unlock()
}

func (l *captureLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, logLine{msg, args})
	l.mu.Unlock()
}

func (l *captureLogger) counts() (infos, warns int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.infos), len(l.warns)
}

// runDispatcher starts Run and returns a stop func that cancels and waits.
func runDispatcher(t *testing.T, d *Dispatcher) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx) //nolint:errcheck // Always nil
		close(done)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("dispatcher did not stop")
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRecord_Stamps(t *testing.T) {
	sink := &recordingSink{name: "a"}
	d := NewDispatcher("door-001", 4, nil, sink)
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	d.Record(DoorbellEvent(Totals{Doorbell: 1}))
	stop := runDispatcher(t, d)
	waitFor(t, func() bool { return len(sink.events()) == 1 })
	stop()

	e := sink.events()[0]
	if e.ID == "" {
		t.Error("ID not assigned")
	}
	if e.SiteID != "door-001" {
		t.Errorf("SiteID = %q", e.SiteID)
	}
	if !e.Time.Equal(fixed) {
		t.Errorf("Time = %v, want %v", e.Time, fixed)
	}
}

func TestRecord_NeverBlocksAndCountsDrops(t *testing.T) {
	d := NewDispatcher("door-001", 2, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			d.Record(DoorbellEvent(Totals{}))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	if d.Dropped() != 3 {
		t.Errorf("Dropped() = %d, want 3", d.Dropped())
	}
}

func TestRun_DeliversToSinksInOrder(t *testing.T) {
	var order []string
	first := &recordingSink{name: "log", order: &order}
	second := &recordingSink{name: "journal", order: &order}
	d := NewDispatcher("door-001", 8, nil, first, second)

	stop := runDispatcher(t, d)
	d.Record(AccessEvent(access.Accepted(2), "Mr Baglamac", Totals{Accepted: 1}))
	d.Record(AccessEvent(access.Rejected, "ignored", Totals{Accepted: 1, Rejected: 1}))
	waitFor(t, func() bool { return d.Delivered() == 2 })
	stop()

	want := []string{"log", "journal", "log", "journal"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}

	got := second.events()
	if got[0].Owner != "Mr Baglamac" || got[0].OwnerIndex != 2 || got[0].Outcome != OutcomeAccepted {
		t.Errorf("accepted event = %+v", got[0])
	}
	if got[1].Owner != "" || got[1].OwnerIndex != -1 || got[1].Outcome != OutcomeRejected {
		t.Errorf("rejected event = %+v", got[1])
	}
}

func TestRun_SinkFailureLoggedOncePerRun(t *testing.T) {
	logger := &captureLogger{}
	bad := &recordingSink{name: "mqtt", err: errors.New("broker gone")}
	good := &recordingSink{name: "journal"}
	d := NewDispatcher("door-001", 8, logger, bad, good)

	stop := runDispatcher(t, d)
	for i := 0; i < 3; i++ {
		d.Record(DoorbellEvent(Totals{}))
	}
	waitFor(t, func() bool { return d.Delivered() == 3 })

	if len(good.events()) != 3 {
		t.Errorf("healthy sink got %d events, want 3", len(good.events()))
	}
	if _, warns := logger.counts(); warns != 1 {
		t.Errorf("warns = %d, want 1", warns)
	}

	bad.setErr(nil)
	d.Record(DoorbellEvent(Totals{}))
	waitFor(t, func() bool { return d.Delivered() == 4 })
	stop()

	if infos, _ := logger.counts(); infos != 1 {
		t.Errorf("infos = %d, want 1 recovery line", infos)
	}
}

func TestRun_DrainsOnShutdown(t *testing.T) {
	sink := &recordingSink{name: "journal"}
	d := NewDispatcher("door-001", 8, nil, sink)

	d.Record(DoorbellEvent(Totals{}))
	d.Record(DoorbellEvent(Totals{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if n := len(sink.events()); n != 2 {
		t.Errorf("delivered %d events on shutdown, want 2", n)
	}
}

func TestAccessEvent(t *testing.T) {
	e := AccessEvent(access.Accepted(0), "Mr Harrman", Totals{Accepted: 5, Rejected: 2})
	if !e.IsAccepted() || e.Kind != KindAccess || e.Accepted != 5 {
		t.Errorf("AccessEvent() = %+v", e)
	}

	d := DoorbellEvent(Totals{Doorbell: 3})
	if d.IsAccepted() || d.Kind != KindDoorbell || d.OwnerIndex != -1 {
		t.Errorf("DoorbellEvent() = %+v", d)
	}
}

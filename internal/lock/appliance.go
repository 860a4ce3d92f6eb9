package lock

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-keypad/internal/access"
	"github.com/nerrad567/gray-logic-keypad/internal/events"
)

// Default task periods.
const (
	DefaultScanInterval      = 4 * time.Millisecond
	DefaultCountdownInterval = time.Second
	DefaultBuzzerInterval    = 16 * time.Millisecond
)

// Config holds the appliance timing.
type Config struct {
	ScanInterval      time.Duration
	CountdownInterval time.Duration
	BuzzerInterval    time.Duration
	Timing            Timing
	SiteName          string
}

// DefaultConfig returns the shipped timing.
func DefaultConfig() Config {
	return Config{
		ScanInterval:      DefaultScanInterval,
		CountdownInterval: DefaultCountdownInterval,
		BuzzerInterval:    DefaultBuzzerInterval,
		Timing:            DefaultTiming,
	}
}

func (c Config) validate() error {
	if c.ScanInterval <= 0 || c.CountdownInterval <= 0 || c.BuzzerInterval <= 0 {
		return fmt.Errorf("%w: all intervals must be positive", ErrInvalidInterval)
	}
	if c.ScanInterval >= c.CountdownInterval || c.BuzzerInterval >= c.CountdownInterval {
		return fmt.Errorf("%w: scan and buzzer intervals must be shorter than the countdown interval", ErrInvalidInterval)
	}
	return c.Timing.validate()
}

// Deps are the appliance's collaborators. Journal and Logger may be nil.
type Deps struct {
	Keys     KeySource
	Registry *access.Registry
	Display  Display
	Actuator Actuator
	Journal  Journal
	Logger   Logger
}

func (d Deps) validate() error {
	switch {
	case d.Keys == nil:
		return fmt.Errorf("%w: keys", ErrMissingDependency)
	case d.Registry == nil:
		return fmt.Errorf("%w: registry", ErrMissingDependency)
	case d.Display == nil:
		return fmt.Errorf("%w: display", ErrMissingDependency)
	case d.Actuator == nil:
		return fmt.Errorf("%w: actuator", ErrMissingDependency)
	}
	return nil
}

// Appliance owns the shared records and runs the three tasks.
type Appliance struct {
	cfg    Config
	logger Logger

	timer    TimerState
	buzzer   BuzzerState
	counters Counters

	session   *SessionController
	countdown *CountdownTimer
	sequencer *BuzzerSequencer
}

// New validates cfg and wires the tasks.
//
// Parameters:
//   - cfg: Task intervals, stage deadlines and site name
//   - deps: Keypad, registry, display and actuator are required; Journal and Logger are optional
//
// Returns:
//   - *Appliance: Appliance ready for Run
//   - error: ErrInvalidInterval, ErrInvalidDeadline or ErrMissingDependency, wrapped with detail
func New(cfg Config, deps Deps) (*Appliance, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}

	a := &Appliance{cfg: cfg, logger: deps.Logger}

	a.session = NewSessionController(SessionDeps{
		Keys:     deps.Keys,
		Registry: deps.Registry,
		Timer:    &a.timer,
		Buzzer:   &a.buzzer,
		Counters: &a.counters,
		Display:  deps.Display,
		Actuator: deps.Actuator,
		Journal:  deps.Journal,
		Logger:   deps.Logger,
		SiteName: cfg.SiteName,
	})
	a.countdown = NewCountdownTimer(&a.timer, cfg.Timing, func(remaining int) {
		a.session.screen.writeAt(2, rowStatus, remainingText(remaining))
	})
	a.sequencer = NewBuzzerSequencer(&a.buzzer, deps.Actuator, deps.Logger)

	return a, nil
}

// Run draws the standby banner and runs the scan, countdown and buzzer
// tasks until ctx is cancelled. Every output is driven low before Run
// returns.
func (a *Appliance) Run(ctx context.Context) error {
	a.session.Reset()
	a.logger.Info("lock appliance started",
		"scan_interval", a.cfg.ScanInterval,
		"countdown_interval", a.cfg.CountdownInterval,
		"buzzer_interval", a.cfg.BuzzerInterval,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.loop(gctx, "scan", a.cfg.ScanInterval, a.session.Tick) })
	g.Go(func() error { return a.runCountdown(gctx) })
	g.Go(func() error { return a.loop(gctx, "buzzer", a.cfg.BuzzerInterval, a.sequencer.Tick) })

	err := g.Wait()

	a.sequencer.silence()
	a.session.release()
	a.logger.Info("lock appliance stopped", "totals", a.counters.Snapshot())

	return err
}

// loop calls tick on every period until ctx ends. A panicking tick is
// logged and the task carries on with the next period.
func (a *Appliance) loop(ctx context.Context, task string, period time.Duration, tick func()) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.safeTick(task, tick)
		}
	}
}

// runCountdown is the countdown task. Its ticker restarts whenever the
// stage changes, so the first second of a stage is a full period.
func (a *Appliance) runCountdown(ctx context.Context) error {
	period := a.cfg.CountdownInterval
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	changes := a.timer.Changes()
	epoch := a.timer.Epoch()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			ticker.Reset(period)
			epoch = a.timer.Epoch()
		case <-ticker.C:
			a.safeTick("countdown", func() {
				var counted bool
				epoch, counted = a.countdown.Advance(epoch)
				if !counted {
					ticker.Reset(period)
				}
			})
		}
	}
}

func (a *Appliance) safeTick(task string, tick func()) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("lock task panic recovered", "task", task, "panic", r)
		}
	}()
	tick()
}

// Status is a point-in-time view of the appliance.
type Status struct {
	Session EntrySession
	Timer   TimerSnapshot
	Buzzer  BuzzerSnapshot
	Totals  events.Totals
}

// Status gathers a snapshot of every shared record. The parts are read
// one after another, not as a single atomic view.
func (a *Appliance) Status() Status {
	return Status{
		Session: a.session.Snapshot(),
		Timer:   a.timer.Snapshot(),
		Buzzer:  a.buzzer.Snapshot(),
		Totals:  a.counters.Snapshot(),
	}
}

// Counters exposes the running totals.
func (a *Appliance) Counters() *Counters {
	return &a.counters
}

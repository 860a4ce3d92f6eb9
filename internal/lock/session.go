package lock

import (
	"sync"

	"github.com/nerrad567/gray-logic-keypad/internal/access"
	"github.com/nerrad567/gray-logic-keypad/internal/events"
	"github.com/nerrad567/gray-logic-keypad/internal/keypad"
)

// EntrySession is the code being typed. Slots at or beyond Cursor are
// always empty.
type EntrySession struct {
	Buffer access.Code
	Cursor int
	Stage  Stage
}

// SessionDeps are the collaborators of a SessionController.
type SessionDeps struct {
	Keys     KeySource
	Registry *access.Registry
	Timer    *TimerState
	Buzzer   *BuzzerState
	Counters *Counters
	Display  Display
	Actuator Actuator
	Journal  Journal
	Logger   Logger
	SiteName string
}

// SessionController is the entry state machine. It runs on the scan task.
//
// It is the only writer of the timer stage, the buzzer pattern, the
// counters, the relay and both indicators.
type SessionController struct {
	keys     KeySource
	registry *access.Registry
	timer    *TimerState
	buzzer   *BuzzerState
	counters *Counters
	screen   *screen
	out      *driver
	journal  Journal
	logger   Logger
	siteName string

	// held is what the relay and indicators must show in the current
	// stage. It is written out on every tick, so a failed write is retried.
	held heldOutputs

	// mu guards session against Snapshot readers.
	mu      sync.Mutex
	session EntrySession
}

// heldOutputs are the session-owned pin levels. All low except during the
// Cooldown that follows a verdict.
type heldOutputs struct {
	relay  Level
	accept Level
	reject Level
}

// NewSessionController wires a controller over the shared records.
//
// Parameters:
//   - deps: Collaborators and shared records; Journal and Logger may be nil
//
// Returns:
//   - *SessionController: Controller in Standby; the first Tick draws the idle screen
func NewSessionController(deps SessionDeps) *SessionController {
	if deps.Journal == nil {
		deps.Journal = noopJournal{}
	}
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}
	return &SessionController{
		keys:     deps.Keys,
		registry: deps.Registry,
		timer:    deps.Timer,
		buzzer:   deps.Buzzer,
		counters: deps.Counters,
		screen:   newScreen(deps.Display),
		out:      newDriver(deps.Actuator, deps.Logger),
		journal:  deps.Journal,
		logger:   deps.Logger,
		siteName: deps.SiteName,
	}
}

// Reset returns the appliance to standby: outputs released, session
// cleared, countdown idle and the standby banner drawn.
func (s *SessionController) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enterStandby()
}

// Snapshot returns a copy of the entry session.
func (s *SessionController) Snapshot() EntrySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Tick polls the keypad once and advances the machine. At most one buzzer
// pattern is assigned per tick; a verdict's tone replaces the beep of the
// digit that completed the code.
func (s *SessionController) Tick() {
	key := s.keys.Scan()

	s.mu.Lock()
	defer s.mu.Unlock()

	pattern, assign := PatternSilent, false
	play := func(p Pattern) { pattern, assign = p, true }

	switch s.session.Stage {
	case StageIdle:
		switch {
		case key == keypad.KeyNone:
		case key == keypad.KeyStar:
			play(PatternKeyBeep)
			s.startEntry()
		case key == keypad.KeyHash:
			play(PatternDoorbellChime)
			s.ringDoorbell()
		default:
			play(PatternKeyBeep)
		}

	case StageEntryWindow:
		if key.IsDigit() && s.session.Cursor < access.CodeLength {
			s.appendDigit(key)
			play(PatternKeyBeep)
		}
		if s.session.Cursor == access.CodeLength || s.timer.ConsumeExpiry(StageEntryWindow) {
			play(s.verify())
		}

	case StageCooldown:
		// Keys are ignored so the verdict or chime plays in full.
		if s.timer.ConsumeExpiry(StageCooldown) {
			s.enterStandby()
		}
	}

	if assign {
		s.buzzer.Assign(pattern)
	}
	s.applyHeld()
}

// applyHeld drives the relay and indicators to the levels held for the
// current stage. The driver skips pins already at their level.
func (s *SessionController) applyHeld() {
	s.out.set(PinRelay, s.held.relay)
	s.out.set(PinAcceptIndicator, s.held.accept)
	s.out.set(PinRejectIndicator, s.held.reject)
}

func (s *SessionController) startEntry() {
	s.session.Buffer = access.Code{}
	s.session.Cursor = 0
	s.session.Stage = StageEntryWindow
	s.timer.SetStage(StageEntryWindow)
	s.screen.show(entryPromptLines()...)
	s.logger.Debug("entry started")
}

func (s *SessionController) ringDoorbell() {
	s.counters.doorbell.Add(1)
	s.session.Stage = StageCooldown
	s.timer.SetStage(StageCooldown)
	s.screen.show(doorbellLines()...)
	s.journal.Record(events.DoorbellEvent(s.counters.Snapshot()))
}

func (s *SessionController) appendDigit(k keypad.Key) {
	slot, ok := access.DigitSlot(byte(k))
	if !ok {
		return
	}
	col := echoColumn + s.session.Cursor
	s.session.Buffer[s.session.Cursor] = slot
	s.session.Cursor++
	s.screen.putCharAt(col, rowBody, '*')
}

// verify compares the buffer, drives the verdict outputs and moves to
// Cooldown. It returns the tone to play.
func (s *SessionController) verify() Pattern {
	outcome := access.Compare(s.registry, s.session.Buffer)

	// The typed code is not kept past the comparison.
	s.session.Buffer = access.Code{}
	s.session.Cursor = 0

	var owner string
	var tone Pattern
	if outcome.IsAccepted() {
		owner, _ = s.registry.Owner(outcome.Index())
		s.held = heldOutputs{relay: High, accept: High}
		s.counters.accepted.Add(1)
		tone = PatternAcceptTone
	} else {
		s.held = heldOutputs{reject: High}
		s.counters.rejected.Add(1)
		tone = PatternRejectTone
	}

	s.applyHeld()

	s.session.Stage = StageCooldown
	s.timer.SetStage(StageCooldown)

	if outcome.IsAccepted() {
		s.screen.show(acceptLines(owner)...)
	} else {
		s.screen.show(rejectLines()...)
	}
	s.journal.Record(events.AccessEvent(outcome, owner, s.counters.Snapshot()))
	s.logger.Debug("entry verified", "outcome", outcome.String())

	return tone
}

func (s *SessionController) enterStandby() {
	s.held = heldOutputs{}
	s.applyHeld()

	s.session = EntrySession{Stage: StageIdle}
	s.timer.SetStage(StageIdle)
	s.screen.show(standbyLines(s.siteName)...)
}

// release drives the session's outputs low. Used on shutdown.
func (s *SessionController) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.held = heldOutputs{}
	s.applyHeld()
}

package lock

import (
	"github.com/nerrad567/gray-logic-keypad/internal/events"
	"github.com/nerrad567/gray-logic-keypad/internal/keypad"
)

// Stage is the phase of the session and countdown machines.
type Stage int

const (
	StageIdle Stage = iota
	StageEntryWindow
	StageCooldown
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageEntryWindow:
		return "entry_window"
	case StageCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Pattern is the waveform the buzzer sequencer is playing.
type Pattern int

const (
	PatternSilent Pattern = iota
	PatternKeyBeep
	PatternAcceptTone
	PatternRejectTone
	PatternDoorbellChime

	patternCount
)

func (p Pattern) String() string {
	switch p {
	case PatternSilent:
		return "silent"
	case PatternKeyBeep:
		return "key_beep"
	case PatternAcceptTone:
		return "accept_tone"
	case PatternRejectTone:
		return "reject_tone"
	case PatternDoorbellChime:
		return "doorbell_chime"
	default:
		return "unknown"
	}
}

// Pin is one of the fixed outputs.
type Pin int

const (
	PinRelay Pin = iota
	PinAcceptIndicator
	PinRejectIndicator
	PinBuzzer
	PinDoorbell

	pinCount
)

// Pins lists every output in a fixed order.
var Pins = [...]Pin{PinRelay, PinAcceptIndicator, PinRejectIndicator, PinBuzzer, PinDoorbell}

func (p Pin) String() string {
	switch p {
	case PinRelay:
		return "relay"
	case PinAcceptIndicator:
		return "accept_indicator"
	case PinRejectIndicator:
		return "reject_indicator"
	case PinBuzzer:
		return "buzzer"
	case PinDoorbell:
		return "doorbell"
	default:
		return "unknown"
	}
}

// Level is an output level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// KeySource yields at most one debounced key per call.
type KeySource interface {
	Scan() keypad.Key
}

// Display is a character display addressed by column and row.
// Implementations need not be safe for concurrent use; the lock
// serialises access.
type Display interface {
	Clear()
	GotoXY(col, row int)
	PutString(s string)
	PutChar(c byte)
}

// Actuator sets output pins.
type Actuator interface {
	Set(pin Pin, level Level) error
}

// Journal accepts lock events without blocking.
type Journal interface {
	Record(e events.Event)
}

// Logger is the subset of logging.Logger the lock uses.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type noopJournal struct{}

func (noopJournal) Record(events.Event) {}

// Timing holds the stage deadlines in countdown ticks (seconds).
type Timing struct {
	EntryWindow int
	Cooldown    int
}

// DefaultTiming is five seconds to type a code and three seconds of
// cooldown after a verdict or doorbell ring.
var DefaultTiming = Timing{EntryWindow: 5, Cooldown: 3}

// Deadline returns the tick count after which stage expires, or 0 for Idle.
func (t Timing) Deadline(stage Stage) int {
	switch stage {
	case StageEntryWindow:
		return t.EntryWindow
	case StageCooldown:
		return t.Cooldown
	default:
		return 0
	}
}

func (t Timing) validate() error {
	if t.EntryWindow <= 0 || t.Cooldown <= 0 {
		return ErrInvalidDeadline
	}
	return nil
}

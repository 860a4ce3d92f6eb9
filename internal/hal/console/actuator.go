package console

import (
	"sync"

	"github.com/nerrad567/gray-logic-keypad/internal/lock"
)

// Logger is the subset of logging.Logger the console backend uses.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Actuator records pin levels and logs every change. Buzzer and doorbell
// toggle many times a second, so they log at debug.
type Actuator struct {
	mu     sync.Mutex
	levels map[lock.Pin]lock.Level
	logger Logger
}

// NewActuator returns an actuator with every pin low.
func NewActuator(logger Logger) *Actuator {
	return &Actuator{levels: make(map[lock.Pin]lock.Level), logger: logger}
}

// Set implements lock.Actuator.
func (a *Actuator) Set(pin lock.Pin, level lock.Level) error {
	a.mu.Lock()
	prev := a.levels[pin]
	a.levels[pin] = level
	a.mu.Unlock()

	if prev == level || a.logger == nil {
		return nil
	}

	switch pin {
	case lock.PinBuzzer, lock.PinDoorbell:
		a.logger.Debug("pin changed", "pin", pin.String(), "level", level.String())
	default:
		a.logger.Info("pin changed", "pin", pin.String(), "level", level.String())
	}
	return nil
}

// Level returns the last level written to pin.
func (a *Actuator) Level(pin lock.Pin) lock.Level {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.levels[pin]
}

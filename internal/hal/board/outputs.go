package board

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/nerrad567/gray-logic-keypad/internal/lock"
)

// Actuator drives the appliance outputs. It implements lock.Actuator.
type Actuator struct {
	pins map[lock.Pin]gpio.PinOut
}

// NewActuator takes one output line per lock pin and drives them all low.
func NewActuator(pins map[lock.Pin]gpio.PinOut) (*Actuator, error) {
	a := &Actuator{pins: make(map[lock.Pin]gpio.PinOut, len(lock.Pins))}
	for _, pin := range lock.Pins {
		out, ok := pins[pin]
		if !ok || out == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingOutput, pin)
		}
		if err := out.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("configuring %s (%s): %w", pin, out, err)
		}
		a.pins[pin] = out
	}
	return a, nil
}

// Set drives pin to level.
func (a *Actuator) Set(pin lock.Pin, level lock.Level) error {
	out, ok := a.pins[pin]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingOutput, pin)
	}
	l := gpio.Low
	if level == lock.High {
		l = gpio.High
	}
	if err := out.Out(l); err != nil {
		return fmt.Errorf("driving %s %s: %w", pin, level, err)
	}
	return nil
}

package board

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/nerrad567/gray-logic-keypad/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-keypad/internal/lock"
)

// Open initialises the host drivers and resolves every pin named in cfg.
func Open(cfg config.HardwareConfig) (*Matrix, *Actuator, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("initialising host drivers: %w", err)
	}
	return open(cfg, gpioreg.ByName)
}

// open resolves pins through lookup so tests can supply their own registry.
func open(cfg config.HardwareConfig, lookup func(string) gpio.PinIO) (*Matrix, *Actuator, error) {
	resolve := func(name string) (gpio.PinIO, error) {
		p := lookup(name)
		if p == nil {
			return nil, fmt.Errorf("%w: %q", ErrPinNotFound, name)
		}
		return p, nil
	}

	rows := make([]gpio.PinOut, 0, len(cfg.Keypad.Rows))
	for _, name := range cfg.Keypad.Rows {
		p, err := resolve(name)
		if err != nil {
			return nil, nil, fmt.Errorf("keypad row: %w", err)
		}
		rows = append(rows, p)
	}

	cols := make([]gpio.PinIn, 0, len(cfg.Keypad.Columns))
	for _, name := range cfg.Keypad.Columns {
		p, err := resolve(name)
		if err != nil {
			return nil, nil, fmt.Errorf("keypad column: %w", err)
		}
		cols = append(cols, p)
	}

	matrix, err := NewMatrix(rows, cols)
	if err != nil {
		return nil, nil, err
	}

	names := map[lock.Pin]string{
		lock.PinRelay:           cfg.Pins.Relay,
		lock.PinAcceptIndicator: cfg.Pins.AcceptIndicator,
		lock.PinRejectIndicator: cfg.Pins.RejectIndicator,
		lock.PinBuzzer:          cfg.Pins.Buzzer,
		lock.PinDoorbell:        cfg.Pins.Doorbell,
	}
	outs := make(map[lock.Pin]gpio.PinOut, len(names))
	for pin, name := range names {
		p, err := resolve(name)
		if err != nil {
			return nil, nil, fmt.Errorf("%s output: %w", pin, err)
		}
		outs[pin] = p
	}

	actuator, err := NewActuator(outs)
	if err != nil {
		return nil, nil, err
	}
	return matrix, actuator, nil
}

package lock

// driver writes output pins for one task. Each task owns its own driver
// and its own pins, so a driver is never shared between goroutines.
//
// Writes are skipped when the pin is already at the requested level.
// Failures are logged on the first error after a success and again on
// recovery, so a dead output does not flood the log every tick.
type driver struct {
	act    Actuator
	logger Logger

	level   [pinCount]Level
	known   [pinCount]bool
	failing [pinCount]bool
}

func newDriver(act Actuator, logger Logger) *driver {
	return &driver{act: act, logger: logger}
}

func (d *driver) set(pin Pin, level Level) {
	if d.known[pin] && d.level[pin] == level {
		return
	}

	if err := d.act.Set(pin, level); err != nil {
		d.known[pin] = false
		if !d.failing[pin] {
			d.failing[pin] = true
			d.logger.Warn("output write failed", "pin", pin.String(), "level", level.String(), "error", err)
		}
		return
	}

	if d.failing[pin] {
		d.failing[pin] = false
		d.logger.Info("output write recovered", "pin", pin.String())
	}
	d.level[pin] = level
	d.known[pin] = true
}

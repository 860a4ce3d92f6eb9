package lock

// CountdownTimer advances TimerState once per countdown tick.
type CountdownTimer struct {
	state  *TimerState
	timing Timing

	// feed receives the seconds left in the stage. It runs while the
	// timer record is locked, so it cannot land after the session has
	// moved to Idle.
	feed func(remaining int)
}

// NewCountdownTimer returns a timer over state. feed may be nil.
func NewCountdownTimer(state *TimerState, timing Timing, feed func(remaining int)) *CountdownTimer {
	return &CountdownTimer{state: state, timing: timing, feed: feed}
}

// Tick counts one second of the active stage.
//
// In Idle elapsed stays pinned at zero. Once the stage deadline is
// reached expiry is raised and elapsed restarts from zero; further ticks
// hold until the session consumes the expiry or changes stage.
func (c *CountdownTimer) Tick() {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	c.countLocked()
}

// Advance is Tick for a countdown whose ticker was started at stage epoch.
// If the stage has changed since, the tick belongs to the previous stage
// and is not counted; the caller restarts its ticker from now and passes
// the returned epoch next time. A stage then lasts at least its deadline.
func (c *CountdownTimer) Advance(epoch uint64) (current uint64, counted bool) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	if c.state.epoch != epoch {
		return c.state.epoch, false
	}
	c.countLocked()
	return epoch, true
}

func (c *CountdownTimer) countLocked() {
	s := c.state
	if s.stage == StageIdle {
		s.elapsed = 0
		return
	}
	if s.expired {
		return
	}

	s.elapsed++
	deadline := c.timing.Deadline(s.stage)
	remaining := deadline - s.elapsed
	if s.elapsed >= deadline {
		s.expired = true
		s.elapsed = 0
		remaining = 0
	}

	if c.feed != nil {
		c.feed(remaining)
	}
}

package lock

import (
	"sync"
	"sync/atomic"

	"github.com/nerrad567/gray-logic-keypad/internal/events"
)

// TimerState is shared between the session (writes stage, consumes
// expiry) and the countdown (writes elapsed and expired).
type TimerState struct {
	mu      sync.Mutex
	stage   Stage
	elapsed int
	expired bool

	// epoch counts stage changes. changed carries at most one pending
	// notification of a change to the countdown loop.
	epoch   uint64
	changed chan struct{}
}

// SetStage switches the active stage. Elapsed time and any pending
// expiry are cleared in the same step.
func (s *TimerState) SetStage(stage Stage) {
	s.mu.Lock()
	s.stage = stage
	s.elapsed = 0
	s.expired = false
	s.epoch++
	changed := s.changedLocked()
	s.mu.Unlock()

	select {
	case changed <- struct{}{}:
	default:
	}
}

// Changes returns a channel that receives after a stage change. Several
// changes between receives collapse into one notification.
func (s *TimerState) Changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changedLocked()
}

// Epoch returns the number of stage changes so far.
func (s *TimerState) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *TimerState) changedLocked() chan struct{} {
	if s.changed == nil {
		s.changed = make(chan struct{}, 1)
	}
	return s.changed
}

// ConsumeExpiry reports and clears a pending expiry for stage. An expiry
// raised for a different stage is left alone.
func (s *TimerState) ConsumeExpiry(stage Stage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != stage || !s.expired {
		return false
	}
	s.expired = false
	return true
}

// TimerSnapshot is a consistent copy of TimerState.
type TimerSnapshot struct {
	Stage   Stage
	Elapsed int
	Expired bool
}

// Snapshot copies the record under its lock.
func (s *TimerState) Snapshot() TimerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TimerSnapshot{Stage: s.stage, Elapsed: s.elapsed, Expired: s.expired}
}

// BuzzerState is shared between the session (writes pattern) and the
// sequencer (writes tick count, reverts to silent).
type BuzzerState struct {
	mu        sync.Mutex
	pattern   Pattern
	tickCount int
}

// Assign starts pattern p from its first tick. Reassigning the pattern
// already playing restarts it.
func (s *BuzzerState) Assign(p Pattern) {
	s.mu.Lock()
	s.pattern = p
	s.tickCount = 0
	s.mu.Unlock()
}

// BuzzerSnapshot is a consistent copy of BuzzerState.
type BuzzerSnapshot struct {
	Pattern   Pattern
	TickCount int
}

// Snapshot copies the record under its lock.
func (s *BuzzerState) Snapshot() BuzzerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuzzerSnapshot{Pattern: s.pattern, TickCount: s.tickCount}
}

// Counters are the running attempt totals. Only the session increments
// them; anyone may read.
type Counters struct {
	accepted atomic.Uint64
	rejected atomic.Uint64
	doorbell atomic.Uint64
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() events.Totals {
	return events.Totals{
		Accepted: c.accepted.Load(),
		Rejected: c.rejected.Load(),
		Doorbell: c.doorbell.Load(),
	}
}

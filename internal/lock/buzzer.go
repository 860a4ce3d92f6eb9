package lock

// Schedule is the fixed waveform of one pattern, in sequencer ticks.
//
// The output starts at Initial and flips at every offset in Toggles. At
// Duration the pattern ends and the sequencer reverts to silent.
type Schedule struct {
	Pin      Pin
	Initial  Level
	Toggles  []int
	Duration int
}

// LevelAt returns the output level at tick t (0-based).
func (s Schedule) LevelAt(t int) Level {
	flips := 0
	for _, at := range s.Toggles {
		if at > t {
			break
		}
		flips++
	}
	if flips%2 == 1 {
		return !s.Initial
	}
	return s.Initial
}

// schedules is indexed by Pattern. Silent has no schedule.
var schedules = [patternCount]Schedule{
	PatternKeyBeep: {
		Pin: PinBuzzer, Initial: High, Duration: 10,
	},
	PatternAcceptTone: {
		Pin: PinBuzzer, Initial: High, Duration: 50,
	},
	PatternRejectTone: {
		Pin: PinBuzzer, Initial: High, Duration: 50,
		Toggles: []int{10, 20, 30, 40},
	},
	PatternDoorbellChime: {
		Pin: PinDoorbell, Initial: High, Duration: 100,
		Toggles: []int{10, 15, 20, 30, 35, 40, 50, 60, 65, 70, 80, 85, 90},
	},
}

// ScheduleFor returns the schedule of p. ok is false for Silent.
func ScheduleFor(p Pattern) (Schedule, bool) {
	if p <= PatternSilent || p >= patternCount {
		return Schedule{}, false
	}
	return schedules[p], true
}

// BuzzerSequencer plays the pattern in BuzzerState on the buzzer and
// doorbell pins. It is the only writer of those two pins.
type BuzzerSequencer struct {
	state *BuzzerState
	out   *driver
}

// NewBuzzerSequencer returns a sequencer over state driving act.
func NewBuzzerSequencer(state *BuzzerState, act Actuator, logger Logger) *BuzzerSequencer {
	if logger == nil {
		logger = noopLogger{}
	}
	return &BuzzerSequencer{state: state, out: newDriver(act, logger)}
}

// Tick renders one step of the current pattern. Silent holds both pins
// low without counting. A pattern that reaches its duration reverts to
// Silent in the same step.
func (b *BuzzerSequencer) Tick() {
	buzzer, doorbell := b.step()
	b.out.set(PinBuzzer, buzzer)
	b.out.set(PinDoorbell, doorbell)
}

func (b *BuzzerSequencer) step() (buzzer, doorbell Level) {
	s := b.state
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := ScheduleFor(s.pattern)
	if !ok {
		return Low, Low
	}

	t := s.tickCount
	if t >= sched.Duration {
		s.pattern = PatternSilent
		s.tickCount = 0
		return Low, Low
	}
	s.tickCount++

	level := sched.LevelAt(t)
	if sched.Pin == PinDoorbell {
		return Low, level
	}
	return level, Low
}

// silence drives both pins low. Used on shutdown.
func (b *BuzzerSequencer) silence() {
	b.state.Assign(PatternSilent)
	b.out.set(PinBuzzer, Low)
	b.out.set(PinDoorbell, Low)
}

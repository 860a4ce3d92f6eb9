package lock

import "testing"

func TestCountdown_IdlePinsElapsed(t *testing.T) {
	var state TimerState
	fed := 0
	c := NewCountdownTimer(&state, DefaultTiming, func(int) { fed++ })

	for i := 0; i < 10; i++ {
		c.Tick()
	}

	snap := state.Snapshot()
	if snap.Elapsed != 0 || snap.Expired {
		t.Errorf("idle timer = %+v, want zero", snap)
	}
	if fed != 0 {
		t.Errorf("display fed %d times while idle", fed)
	}
}

func TestCountdown_FeedsRemainingAndExpires(t *testing.T) {
	tests := []struct {
		stage Stage
		want  []int
	}{
		{StageEntryWindow, []int{4, 3, 2, 1, 0}},
		{StageCooldown, []int{2, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			var state TimerState
			var got []int
			c := NewCountdownTimer(&state, DefaultTiming, func(n int) { got = append(got, n) })

			state.SetStage(tt.stage)
			for i := 0; i < len(tt.want); i++ {
				if state.Snapshot().Expired {
					t.Fatalf("expired after %d ticks", i)
				}
				c.Tick()
			}

			snap := state.Snapshot()
			if !snap.Expired || snap.Elapsed != 0 {
				t.Errorf("after deadline: %+v, want expired with elapsed 0", snap)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("feed = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("feed = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestCountdown_HoldsUntilConsumed(t *testing.T) {
	var state TimerState
	c := NewCountdownTimer(&state, Timing{EntryWindow: 2, Cooldown: 1}, nil)

	state.SetStage(StageCooldown)
	c.Tick()
	c.Tick()
	c.Tick()

	if snap := state.Snapshot(); !snap.Expired || snap.Elapsed != 0 {
		t.Errorf("held state = %+v", snap)
	}

	if state.ConsumeExpiry(StageEntryWindow) {
		t.Error("consumed expiry for the wrong stage")
	}
	if !state.ConsumeExpiry(StageCooldown) {
		t.Fatal("ConsumeExpiry(cooldown) = false")
	}
	if state.ConsumeExpiry(StageCooldown) {
		t.Error("expiry consumed twice")
	}

	// Counting resumes for the same stage after consumption.
	c.Tick()
	if !state.Snapshot().Expired {
		t.Error("one-second cooldown did not expire again")
	}
}

func TestCountdown_StageChangeResets(t *testing.T) {
	var state TimerState
	c := NewCountdownTimer(&state, DefaultTiming, nil)

	state.SetStage(StageEntryWindow)
	c.Tick()
	c.Tick()
	if state.Snapshot().Elapsed != 2 {
		t.Fatalf("elapsed = %d, want 2", state.Snapshot().Elapsed)
	}

	state.SetStage(StageCooldown)
	if snap := state.Snapshot(); snap.Elapsed != 0 || snap.Expired || snap.Stage != StageCooldown {
		t.Errorf("after SetStage: %+v", snap)
	}

	state.SetStage(StageIdle)
	c.Tick()
	if state.Snapshot().Elapsed != 0 {
		t.Error("idle tick accumulated time")
	}
}

func TestTiming_Deadline(t *testing.T) {
	if DefaultTiming.Deadline(StageEntryWindow) != 5 ||
		DefaultTiming.Deadline(StageCooldown) != 3 ||
		DefaultTiming.Deadline(StageIdle) != 0 {
		t.Error("unexpected default deadlines")
	}
	if err := (Timing{EntryWindow: 0, Cooldown: 3}).validate(); err == nil {
		t.Error("zero entry window accepted")
	}
}

func TestCountdown_AdvanceSkipsTickFromPreviousStage(t *testing.T) {
	var state TimerState
	c := NewCountdownTimer(&state, DefaultTiming, nil)

	epoch := state.Epoch()
	state.SetStage(StageEntryWindow)

	epoch, counted := c.Advance(epoch)
	if counted {
		t.Fatal("tick started before the stage change was counted")
	}
	if epoch != state.Epoch() {
		t.Errorf("Advance returned epoch %d, want %d", epoch, state.Epoch())
	}
	if state.Snapshot().Elapsed != 0 {
		t.Errorf("elapsed = %d after a skipped tick", state.Snapshot().Elapsed)
	}

	for i := 1; i <= 4; i++ {
		if _, counted = c.Advance(epoch); !counted {
			t.Fatalf("tick %d not counted", i)
		}
	}
	if snap := state.Snapshot(); snap.Elapsed != 4 || snap.Expired {
		t.Errorf("after 4 ticks: %+v", snap)
	}
}

func TestTimerState_ChangesCollapse(t *testing.T) {
	var state TimerState
	changes := state.Changes()

	state.SetStage(StageEntryWindow)
	state.SetStage(StageCooldown)

	select {
	case <-changes:
	default:
		t.Fatal("no change notification")
	}
	select {
	case <-changes:
		t.Error("two notifications for back-to-back changes")
	default:
	}
	if state.Epoch() != 2 {
		t.Errorf("Epoch() = %d, want 2", state.Epoch())
	}
}

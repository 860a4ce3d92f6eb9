package lock

import (
	"sync"
	"testing"
)

func TestTimerState_ConcurrentStageAndTick(t *testing.T) {
	var state TimerState
	c := NewCountdownTimer(&state, DefaultTiming, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		stages := []Stage{StageEntryWindow, StageCooldown, StageIdle}
		for i := 0; i < 3000; i++ {
			state.SetStage(stages[i%len(stages)])
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 3000; i++ {
			c.Tick()
			snap := state.Snapshot()
			if snap.Stage == StageIdle && snap.Elapsed != 0 {
				t.Errorf("idle with elapsed %d", snap.Elapsed)
				return
			}
			if snap.Elapsed >= DefaultTiming.Deadline(snap.Stage) && snap.Stage != StageIdle {
				t.Errorf("elapsed %d reached %v deadline without reset", snap.Elapsed, snap.Stage)
				return
			}
		}
	}()
	wg.Wait()
}

func TestCounters_Snapshot(t *testing.T) {
	var c Counters
	c.accepted.Add(2)
	c.rejected.Add(1)
	c.doorbell.Add(4)

	got := c.Snapshot()
	if got.Accepted != 2 || got.Rejected != 1 || got.Doorbell != 4 {
		t.Errorf("Snapshot() = %+v", got)
	}
}

func TestEnumStrings(t *testing.T) {
	if StageEntryWindow.String() != "entry_window" || Stage(9).String() != "unknown" {
		t.Error("Stage.String()")
	}
	if PatternDoorbellChime.String() != "doorbell_chime" || Pattern(9).String() != "unknown" {
		t.Error("Pattern.String()")
	}
	if PinRejectIndicator.String() != "reject_indicator" || Pin(9).String() != "unknown" {
		t.Error("Pin.String()")
	}
	if High.String() != "high" || Low.String() != "low" {
		t.Error("Level.String()")
	}
	if len(Pins) != int(pinCount) {
		t.Errorf("Pins has %d entries, want %d", len(Pins), pinCount)
	}
}

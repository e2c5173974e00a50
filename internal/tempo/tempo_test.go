package tempo

import "testing"

func TestMsToTicksDefaultConstants(t *testing.T) {
	// 500ms at 120bpm/32ppqn is exactly one beat = 32 ticks.
	if got := MsToTicks(500, 120, 32); got != 32 {
		t.Fatalf("expected 32 ticks, got %d", got)
	}
}

func TestStepWhileStoppedDoesNothing(t *testing.T) {
	tp := New(48000)
	tp.Step(1_000_000_000)
	if tp.CurrentPositionTicks != 0 {
		t.Fatalf("expected position to stay at 0 while stopped, got %d", tp.CurrentPositionTicks)
	}
}

func TestStepLatchesStartTimeOnFirstTickWhilePlaying(t *testing.T) {
	tp := New(48000)
	tp.SetPlay()
	tp.Step(10_000_000_000)
	if tp.CurrentPositionTicks != 0 {
		t.Fatalf("expected position 0 on the step that latches start, got %d", tp.CurrentPositionTicks)
	}
	tp.Step(10_500_000_000) // 500ms later -> 1 beat -> 32 ticks.
	if tp.CurrentPositionTicks != 32 {
		t.Fatalf("expected 32 ticks after 500ms, got %d", tp.CurrentPositionTicks)
	}
}

func TestPauseClearsLatchedStartTime(t *testing.T) {
	tp := New(48000)
	tp.SetPlay()
	tp.Step(0)
	tp.Step(500_000_000)
	if tp.CurrentPositionTicks != 32 {
		t.Fatalf("expected 32 ticks before pause, got %d", tp.CurrentPositionTicks)
	}
	tp.SetPause()
	tp.Step(600_000_000) // no-op while stopped.
	if tp.CurrentPositionTicks != 32 {
		t.Fatalf("expected position frozen while paused, got %d", tp.CurrentPositionTicks)
	}

	tp.SetPlay()
	tp.Step(700_000_000) // latches a fresh start time; position resets relative to it.
	if tp.CurrentPositionTicks != 0 {
		t.Fatalf("expected position 0 on the step that re-latches start, got %d", tp.CurrentPositionTicks)
	}
}

func TestLoopWrapResetsPositionAndStartTime(t *testing.T) {
	tp := New(48000)
	tp.SetLoop(0, 64) // 64 ticks = 1000ms at 120bpm/32ppqn.
	tp.SetPlay()
	tp.Step(0)
	tp.Step(1_100_000_000) // 1100ms elapsed: past the loop end.

	if tp.CurrentPositionTicks < 0 || tp.CurrentPositionTicks >= 64 {
		t.Fatalf("expected position within [0, 64) after wrap, got %d", tp.CurrentPositionTicks)
	}
	if tp.PrevPositionTicks < 64 {
		t.Fatalf("expected prev position to record the pre-wrap overshoot, got %d", tp.PrevPositionTicks)
	}
	if tp.startWallNS != 1_100_000_000 {
		t.Fatalf("expected the start time to be reset to the wrap step's timestamp, got %d", tp.startWallNS)
	}
}

func TestBeatsAndBarsConversion(t *testing.T) {
	tp := New(48000)
	if got := tp.Beats(2); got != 64 {
		t.Fatalf("expected 2 beats = 64 ticks at ppqn 32, got %d", got)
	}
	if got := tp.Bars(1); got != 128 {
		t.Fatalf("expected 1 bar of 4/4 = 128 ticks at ppqn 32, got %d", got)
	}
}

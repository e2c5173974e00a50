// Package tempo implements the control-side state machine converting
// wall-clock nanoseconds into musical ticks, including loop-region
// wraparound. Confined to the control thread.
package tempo

// TimeSignature is a conventional top/bottom musical time signature.
type TimeSignature struct {
	Top    int
	Bottom int
}

// Tempo tracks playback position as a pure function of elapsed wall
// time, bpm, and ppqn, modulo an optional loop window.
type Tempo struct {
	CurrentPositionTicks int64
	PrevPositionTicks    int64
	HasPrevPosition      bool

	startWallNS int64
	hasStart    bool

	Playing bool

	hasLoop        bool
	LoopStartTicks int64
	LoopEndTicks   int64

	TimeSignature TimeSignature
	BPM           float64
	PPQN          int64

	SampleRate float64
}

// New creates a Tempo at the conventional defaults: 120 bpm, 32 ppqn
// (a highly composite number, same rationale the teacher used for its
// tick resolution), 4/4 time, stopped.
func New(sampleRate float64) *Tempo {
	return &Tempo{
		BPM:           120,
		PPQN:          32,
		TimeSignature: TimeSignature{Top: 4, Bottom: 4},
		SampleRate:    sampleRate,
	}
}

// SetLoop installs a loop region [start, end) in ticks.
func (t *Tempo) SetLoop(start, end int64) {
	t.hasLoop = true
	t.LoopStartTicks = start
	t.LoopEndTicks = end
}

// ClearLoop removes any loop region; playback runs unbounded.
func (t *Tempo) ClearLoop() {
	t.hasLoop = false
}

// Looping reports whether a loop region is currently set, and what it is.
func (t *Tempo) Looping() (start, end int64, ok bool) {
	return t.LoopStartTicks, t.LoopEndTicks, t.hasLoop
}

// SetPlay starts playback; the next Step call latches the start time.
func (t *Tempo) SetPlay() {
	t.Playing = true
}

// SetPause stops playback; the next Step call clears the latched start
// time.
func (t *Tempo) SetPause() {
	t.Playing = false
}

// Step advances the position given the current wall-clock timestamp,
// received from the worker via Worker.SendTS. Call on every timestamp;
// a no-op while stopped beyond clearing the latched start time.
func (t *Tempo) Step(nowNS int64) {
	if t.Playing && !t.hasStart {
		t.startWallNS = nowNS
		t.hasStart = true
	}
	if !t.Playing && t.hasStart {
		t.hasStart = false
	}
	if !t.Playing {
		return
	}

	elapsedMS := (nowNS - t.startWallNS) / 1_000_000
	t.PrevPositionTicks = t.CurrentPositionTicks
	t.HasPrevPosition = true
	t.CurrentPositionTicks = MsToTicks(elapsedMS, t.BPM, t.PPQN)

	if t.hasLoop && t.CurrentPositionTicks >= t.LoopEndTicks {
		t.PrevPositionTicks = t.CurrentPositionTicks
		t.CurrentPositionTicks = t.LoopStartTicks
		t.startWallNS = nowNS
	}
}

// Beats converts a count of beats to ticks at the current ppqn.
func (t *Tempo) Beats(n int64) int64 {
	return n * t.PPQN
}

// Bars converts a count of bars to ticks at the current time signature
// and ppqn.
func (t *Tempo) Bars(n int64) int64 {
	ticksPerBar := int64(t.TimeSignature.Top) * t.PPQN * 4 / int64(t.TimeSignature.Bottom)
	return n * ticksPerBar
}

package modules

import (
	"math"

	"github.com/zurustar/modsynth/internal/dspmodule"
)

// Pitch converts a MIDI note-on into a held control-rate log2(Hz)
// value — the canonical pitch source feeding an oscillator's control
// input. Note-offs leave the last pitch held (a monophonic last-note
// hold), matching the simplest useful behavior for a single voice.
type Pitch struct {
	log2Hz float32
}

// NewPitch creates a pitch source at A4 (440 Hz) before any note.
func NewPitch() *Pitch {
	return &Pitch{log2Hz: float32(math.Log2(440))}
}

func (p *Pitch) NumOutputs() int { return 0 }

func (p *Pitch) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	ctrlOut[0] = p.log2Hz
}

func (p *Pitch) SetParam(paramIx int, value float32, timestamp int64) {}

// HandleNote latches log2(Hz) derived from midi on note-on; note-offs
// are ignored here since Pitch has no notion of voice allocation.
func (p *Pitch) HandleNote(midi float32, velocity float32, on bool) {
	if !on {
		return
	}
	hz := 440 * math.Pow(2, (float64(midi)-69)/12)
	p.log2Hz = float32(math.Log2(hz))
}

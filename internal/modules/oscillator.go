package modules

import (
	"math"

	"github.com/zurustar/modsynth/internal/dspmodule"
)

// phaseAccum is the shared state of a band-naive (non-antialiased)
// oscillator: a running phase in [0, 1), advanced per sample by the
// frequency implied by a log2(Hz) control-rate input.
type phaseAccum struct {
	phase      float64
	sampleRate float64
}

func (p *phaseAccum) step(log2Hz float32) float64 {
	ph := p.phase
	hz := math.Exp2(float64(log2Hz))
	p.phase += hz / p.sampleRate
	if p.phase >= 1 {
		p.phase -= math.Floor(p.phase)
	}
	return ph
}

// Saw is a band-naive sawtooth oscillator driven by a control-rate
// pitch input expressed as log2(Hz), matching the control-rate
// convention used throughout this package.
type Saw struct {
	phaseAccum
}

// NewSaw creates a sawtooth oscillator ticking at sampleRate.
func NewSaw(sampleRate float64) *Saw {
	return &Saw{phaseAccum{sampleRate: sampleRate}}
}

func (s *Saw) NumOutputs() int { return 1 }

func (s *Saw) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	var log2Hz float32
	if len(ctrlIn) > 0 {
		log2Hz = ctrlIn[0]
	}
	out := &bufOut[0]
	for i := range out {
		ph := s.step(log2Hz)
		out[i] = float32(2*ph - 1)
	}
}

func (s *Saw) SetParam(paramIx int, value float32, timestamp int64) {}

func (s *Saw) HandleNote(midi float32, velocity float32, on bool) {}

// Sine is a sine oscillator driven the same way as Saw.
type Sine struct {
	phaseAccum
}

// NewSine creates a sine oscillator ticking at sampleRate.
func NewSine(sampleRate float64) *Sine {
	return &Sine{phaseAccum{sampleRate: sampleRate}}
}

func (s *Sine) NumOutputs() int { return 1 }

func (s *Sine) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	var log2Hz float32
	if len(ctrlIn) > 0 {
		log2Hz = ctrlIn[0]
	}
	out := &bufOut[0]
	for i := range out {
		ph := s.step(log2Hz)
		out[i] = float32(math.Sin(2 * math.Pi * ph))
	}
}

func (s *Sine) SetParam(paramIx int, value float32, timestamp int64) {}

func (s *Sine) HandleNote(midi float32, velocity float32, on bool) {}

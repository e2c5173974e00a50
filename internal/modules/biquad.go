package modules

import (
	"math"

	"github.com/zurustar/modsynth/internal/dspmodule"
)

// Biquad is a direct-form-II transposed biquad lowpass filter using
// the RBJ cookbook coefficient formulas, retuned whenever its cutoff
// or Q changes via SetParam(0, cutoffHz, _) / SetParam(1, q, _).
type Biquad struct {
	sampleRate float64
	cutoff     float32
	q          float32
	dirty      bool

	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

// NewBiquad creates a lowpass biquad at the given cutoff (Hz) and Q,
// ticking at sampleRate.
func NewBiquad(sampleRate float64, cutoffHz, q float32) *Biquad {
	b := &Biquad{sampleRate: sampleRate, cutoff: cutoffHz, q: q, dirty: true}
	return b
}

func (b *Biquad) NumOutputs() int { return 1 }

func (b *Biquad) recompute() {
	w0 := 2 * math.Pi * float64(b.cutoff) / b.sampleRate
	alpha := math.Sin(w0) / (2 * float64(b.q))
	cosw0 := math.Cos(w0)

	b0 := (1 - cosw0) / 2
	b1 := 1 - cosw0
	b2 := (1 - cosw0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha

	b.b0 = b0 / a0
	b.b1 = b1 / a0
	b.b2 = b2 / a0
	b.a1 = a1 / a0
	b.a2 = a2 / a0
	b.dirty = false
}

func (b *Biquad) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	if b.dirty {
		b.recompute()
	}
	out := &bufOut[0]
	if len(bufIn) == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	in := bufIn[0]
	for i, x := range in {
		xf := float64(x)
		y := b.b0*xf + b.z1
		b.z1 = b.b1*xf - b.a1*y + b.z2
		b.z2 = b.b2*xf - b.a2*y
		out[i] = float32(y)
	}
}

func (b *Biquad) SetParam(paramIx int, value float32, timestamp int64) {
	switch paramIx {
	case 0:
		b.cutoff = value
		b.dirty = true
	case 1:
		b.q = value
		b.dirty = true
	}
}

func (b *Biquad) HandleNote(midi float32, velocity float32, on bool) {}

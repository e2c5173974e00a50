package modules

import "github.com/zurustar/modsynth/internal/dspmodule"

// Gain scales its single wired audio input by a control-rate or fixed
// factor: when a control input is wired, it wins every chunk; when
// wired input is absent, Fixed is used instead, so the module behaves
// the same whether or not a control source is patched in.
type Gain struct {
	Fixed float32
}

// NewGain creates a gain stage defaulting to unity.
func NewGain() *Gain {
	return &Gain{Fixed: 1}
}

func (g *Gain) NumOutputs() int { return 1 }

func (g *Gain) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	factor := g.Fixed
	if len(ctrlIn) > 0 {
		factor = ctrlIn[0]
	}
	out := &bufOut[0]
	if len(bufIn) == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	in := bufIn[0]
	for i, v := range in {
		out[i] = v * factor
	}
}

func (g *Gain) SetParam(paramIx int, value float32, timestamp int64) {
	if paramIx == 0 {
		g.Fixed = value
	}
}

func (g *Gain) HandleNote(midi float32, velocity float32, on bool) {}

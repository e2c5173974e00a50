package modules

import "github.com/zurustar/modsynth/internal/dspmodule"

// Sum mixes every wired audio input into its single output buffer by
// addition. Used for track and master nodes, whose wiring is rebuilt
// whenever the set of tracks changes.
type Sum struct{}

// NewSum creates a mixer with no inputs wired yet; wiring is supplied
// by the node's AudioIn, not by the module itself.
func NewSum() *Sum {
	return &Sum{}
}

func (s *Sum) NumOutputs() int { return 1 }

func (s *Sum) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	out := &bufOut[0]
	for i := range out {
		out[i] = 0
	}
	for _, in := range bufIn {
		for i, v := range in {
			out[i] += v
		}
	}
}

func (s *Sum) SetParam(paramIx int, value float32, timestamp int64) {}

func (s *Sum) HandleNote(midi float32, velocity float32, on bool) {}

package modules

import "github.com/zurustar/modsynth/internal/dspmodule"

// ConstCtrl emits a fixed control-rate value every chunk. Typically
// used to drive a fixed oscillator pitch (e.g. a test tone at
// log2(440)) or any other parameter that never varies at runtime.
type ConstCtrl struct {
	Value float32
}

// NewConstCtrl creates a control source holding value.
func NewConstCtrl(value float32) *ConstCtrl {
	return &ConstCtrl{Value: value}
}

func (c *ConstCtrl) NumOutputs() int { return 0 }

func (c *ConstCtrl) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	ctrlOut[0] = c.Value
}

// SetParam reassigns the held value; paramIx is ignored since there is
// only one parameter.
func (c *ConstCtrl) SetParam(paramIx int, value float32, timestamp int64) {
	c.Value = value
}

func (c *ConstCtrl) HandleNote(midi float32, velocity float32, on bool) {}

// SmoothCtrl one-pole-smooths its wired control input, turning abrupt
// parameter changes into a click-free ramp. The pole is set from a
// time constant in seconds via SetParam(0, seconds, _).
type SmoothCtrl struct {
	current    float32
	coeff      float32
	sampleRate float64
}

// NewSmoothCtrl creates a smoother with the given time constant, at
// the control rate implied by sampleRate (one update per chunk).
func NewSmoothCtrl(sampleRate float64, seconds float32) *SmoothCtrl {
	s := &SmoothCtrl{sampleRate: sampleRate}
	s.setTimeConstant(seconds)
	return s
}

func (s *SmoothCtrl) setTimeConstant(seconds float32) {
	if seconds <= 0 {
		s.coeff = 0
		return
	}
	chunkRate := s.sampleRate / float64(dspmodule.Chunk)
	s.coeff = float32(1 - 1/(float64(seconds)*chunkRate+1))
}

func (s *SmoothCtrl) NumOutputs() int { return 0 }

func (s *SmoothCtrl) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	var target float32
	if len(ctrlIn) > 0 {
		target = ctrlIn[0]
	}
	s.current += (target - s.current) * (1 - s.coeff)
	ctrlOut[0] = s.current
}

func (s *SmoothCtrl) SetParam(paramIx int, value float32, timestamp int64) {
	if paramIx == 0 {
		s.setTimeConstant(value)
	}
}

func (s *SmoothCtrl) HandleNote(midi float32, velocity float32, on bool) {}

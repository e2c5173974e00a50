package modules

import (
	"testing"
)

func TestConstCtrlEmitsItsValue(t *testing.T) {
	c := NewConstCtrl(0.75)
	ctrlOut := make([]float32, 1)
	c.Process(nil, ctrlOut, nil, nil, 0)
	if ctrlOut[0] != 0.75 {
		t.Fatalf("expected 0.75, got %v", ctrlOut[0])
	}
}

func TestConstCtrlSetParamReassignsValue(t *testing.T) {
	c := NewConstCtrl(0)
	c.SetParam(0, 1.5, 0)
	ctrlOut := make([]float32, 1)
	c.Process(nil, ctrlOut, nil, nil, 0)
	if ctrlOut[0] != 1.5 {
		t.Fatalf("expected 1.5 after SetParam, got %v", ctrlOut[0])
	}
}

func TestSmoothCtrlApproachesTargetGradually(t *testing.T) {
	s := NewSmoothCtrl(float64(48000), 0.1)
	ctrlIn := []float32{1}
	ctrlOut := make([]float32, 1)

	s.Process(ctrlIn, ctrlOut, nil, nil, 0)
	first := ctrlOut[0]
	if first <= 0 || first >= 1 {
		t.Fatalf("expected a gradual first step strictly between 0 and 1, got %v", first)
	}

	var last float32
	for i := 0; i < 1000; i++ {
		s.Process(ctrlIn, ctrlOut, nil, nil, 0)
		last = ctrlOut[0]
	}
	if last < 0.99 {
		t.Fatalf("expected convergence close to 1 after many chunks, got %v", last)
	}
}

func TestSmoothCtrlZeroTimeConstantTracksImmediately(t *testing.T) {
	s := NewSmoothCtrl(48000, 0)
	ctrlIn := []float32{1}
	ctrlOut := make([]float32, 1)
	s.Process(ctrlIn, ctrlOut, nil, nil, 0)
	if ctrlOut[0] != 1 {
		t.Fatalf("expected immediate tracking with a zero time constant, got %v", ctrlOut[0])
	}
}

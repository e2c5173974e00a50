package modules

import "testing"

func TestAdsrIdleUntilNoteOn(t *testing.T) {
	a := NewAdsr(48000, 0.01, 0.01, 0.5, 0.01)
	ctrlOut := make([]float32, 1)
	a.Process(nil, ctrlOut, nil, nil, 0)
	if ctrlOut[0] != 0 {
		t.Fatalf("expected 0 before any note, got %v", ctrlOut[0])
	}
}

func TestAdsrRisesThenSettlesAtSustain(t *testing.T) {
	a := NewAdsr(48000, 0.001, 0.001, 0.4, 0.001)
	a.HandleNote(60, 1, true)

	ctrlOut := make([]float32, 1)
	var last float32
	for i := 0; i < 2000; i++ {
		a.Process(nil, ctrlOut, nil, nil, 0)
		last = ctrlOut[0]
	}
	if last < 0.39 || last > 0.41 {
		t.Fatalf("expected the envelope to settle at sustain 0.4, got %v", last)
	}
}

func TestAdsrReleaseReturnsToZero(t *testing.T) {
	a := NewAdsr(48000, 0.001, 0.001, 0.5, 0.001)
	a.HandleNote(60, 1, true)
	ctrlOut := make([]float32, 1)
	for i := 0; i < 500; i++ {
		a.Process(nil, ctrlOut, nil, nil, 0)
	}
	a.HandleNote(60, 1, false)
	var last float32
	for i := 0; i < 2000; i++ {
		a.Process(nil, ctrlOut, nil, nil, 0)
		last = ctrlOut[0]
	}
	if last != 0 {
		t.Fatalf("expected the envelope to reach 0 after release, got %v", last)
	}
}

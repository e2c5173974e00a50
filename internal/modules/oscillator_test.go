package modules

import (
	"math"
	"testing"

	"github.com/zurustar/modsynth/internal/dspmodule"
)

// TestSawZeroCrossingsMatch440Hz establishes scenario B: a saw tone at
// log2(440) over one second of 48kHz audio crosses zero 440 times,
// within a tolerance of 1.
func TestSawZeroCrossingsMatch440Hz(t *testing.T) {
	const sampleRate = 48000.0
	saw := NewSaw(sampleRate)
	ctrlIn := []float32{float32(math.Log2(440))}

	var out dspmodule.Buffer
	bufOut := []dspmodule.Buffer{{}}

	crossings := 0
	var prev float32
	first := true

	chunks := int(sampleRate) / dspmodule.Chunk
	for c := 0; c < chunks; c++ {
		saw.Process(ctrlIn, nil, nil, bufOut, 0)
		out = bufOut[0]
		for _, v := range out {
			// Count only rising (negative-to-positive) crossings, so
			// one ramp period contributes exactly one count, matching
			// the tone's frequency directly.
			if !first && prev < 0 && v >= 0 {
				crossings++
			}
			prev = v
			first = false
		}
	}

	if crossings < 439 || crossings > 441 {
		t.Fatalf("expected 440±1 zero crossings, got %d", crossings)
	}
}

func TestSineProcessStaysInUnitRange(t *testing.T) {
	sine := NewSine(48000)
	ctrlIn := []float32{float32(math.Log2(220))}
	bufOut := []dspmodule.Buffer{{}}

	for c := 0; c < 100; c++ {
		sine.Process(ctrlIn, nil, nil, bufOut, 0)
		for _, v := range bufOut[0] {
			if v < -1.0001 || v > 1.0001 {
				t.Fatalf("sine sample out of range: %v", v)
			}
		}
	}
}

func TestSawWithNoControlInputDefaultsToOneHertz(t *testing.T) {
	saw := NewSaw(48000)
	bufOut := []dspmodule.Buffer{{}}
	saw.Process(nil, nil, nil, bufOut, 0)
	out := bufOut[0]
	// log2(Hz) defaults to the float32 zero value, i.e. 1 Hz: the ramp
	// starts at -1 and rises almost imperceptibly over one chunk.
	if out[0] != -1 {
		t.Fatalf("expected the ramp to start at -1, got %v", out[0])
	}
	if out[len(out)-1] <= out[0] {
		t.Fatalf("expected the ramp to be rising, got %v", out)
	}
}

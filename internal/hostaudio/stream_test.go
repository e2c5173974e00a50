package hostaudio

import (
	"encoding/binary"
	"testing"

	"github.com/zurustar/modsynth/internal/dspgraph"
	"github.com/zurustar/modsynth/internal/dspmodule"
	"github.com/zurustar/modsynth/internal/worker"
)

type fakeConst struct{ v float32 }

func (f *fakeConst) NumOutputs() int { return 1 }
func (f *fakeConst) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	for i := range bufOut[0] {
		bufOut[0][i] = f.v
	}
}
func (f *fakeConst) SetParam(paramIx int, value float32, timestamp int64) {}
func (f *fakeConst) HandleNote(midi, velocity float32, on bool)           {}

func TestReadFillsRequestedLengthExactly(t *testing.T) {
	w, _, _, _, err := worker.Create(4)
	if err != nil {
		t.Fatalf("worker.Create: %v", err)
	}
	w.HandleMessage(worker.NewNodeMessage(dspgraph.Node{ID: worker.Root, Module: &fakeConst{v: 0.5}}))

	s := NewStream(w, 48000)
	p := make([]byte, 777) // deliberately not a multiple of one chunk's byte size
	n, err := s.Read(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(p) {
		t.Fatalf("expected Read to fill the full buffer, got %d of %d", n, len(p))
	}
}

func TestReadDuplicatesMonoMasterAcrossBothChannels(t *testing.T) {
	w, _, _, _, err := worker.Create(4)
	if err != nil {
		t.Fatalf("worker.Create: %v", err)
	}
	w.HandleMessage(worker.NewNodeMessage(dspgraph.Node{ID: worker.Root, Module: &fakeConst{v: 1}}))

	s := NewStream(w, 48000)
	p := make([]byte, dspmodule.Chunk*bytesPerFrame)
	if _, err := s.Read(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left := int16(binary.LittleEndian.Uint16(p[0:2]))
	right := int16(binary.LittleEndian.Uint16(p[2:4]))
	if left != right {
		t.Fatalf("expected mono source duplicated across channels, got left=%d right=%d", left, right)
	}
	if left != 32767 {
		t.Fatalf("expected a full-scale constant of 1.0 to clamp-encode to 32767, got %d", left)
	}
}

func TestReadAdvancesPublishedTimestampByOneChunk(t *testing.T) {
	w, _, _, ts, err := worker.Create(4)
	if err != nil {
		t.Fatalf("worker.Create: %v", err)
	}
	w.HandleMessage(worker.NewNodeMessage(dspgraph.Node{ID: worker.Root, Module: &fakeConst{}}))

	s := NewStream(w, 48000)
	p := make([]byte, dspmodule.Chunk*bytesPerFrame*2) // two chunks' worth
	if _, err := s.Read(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gotTS, ok := ts.Pop()
	if !ok {
		t.Fatalf("expected a published timestamp after Read")
	}
	sampleRate := 48000.0
	wantTS := int64(float64(dspmodule.Chunk) / sampleRate * 1e9)
	if gotTS != wantTS {
		t.Fatalf("expected the second chunk's timestamp %d, got %d", wantTS, gotTS)
	}
}

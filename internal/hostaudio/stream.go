// Package hostaudio adapts the worker's chunked mono output to an
// io.Reader an Ebitengine audio.Context can play: interleaved 16-bit
// stereo PCM, duplicating the mono master across both channels.
package hostaudio

import (
	"encoding/binary"

	"github.com/zurustar/modsynth/internal/dspmodule"
	"github.com/zurustar/modsynth/internal/worker"
)

const bytesPerFrame = 4 // int16 left + int16 right

// Stream drives a Worker from the audio callback thread: each Read call
// advances the running wall-clock timestamp by one CHUNK's worth of
// samples per chunk produced, publishing it via SendTS before running
// the graph, so the control side's Tempo stays in lockstep with what is
// actually being rendered.
type Stream struct {
	w          *worker.Worker
	sampleRate float64
	nowNS      int64
	leftover   []byte // partially-consumed chunk from a prior Read
}

// NewStream wraps w, advancing its published timestamp at sampleRate
// samples per second.
func NewStream(w *worker.Worker, sampleRate float64) *Stream {
	return &Stream{w: w, sampleRate: sampleRate}
}

// Read fills p with interleaved stereo PCM, producing CHUNK-sized
// blocks from the worker as needed. Always fills p completely.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.leftover) == 0 {
			s.renderChunk()
		}
		c := copy(p[n:], s.leftover)
		s.leftover = s.leftover[c:]
		n += c
	}
	return n, nil
}

// renderChunk advances the clock by one chunk, runs the worker, and
// encodes the result into s.leftover.
func (s *Stream) renderChunk() {
	s.w.SendTS(s.nowNS)
	out := s.w.Work(s.nowNS)
	s.nowNS += int64(float64(dspmodule.Chunk) / s.sampleRate * 1e9)

	buf := make([]byte, dspmodule.Chunk*bytesPerFrame)
	if len(out) == 0 {
		s.leftover = buf
		return
	}
	master := out[0]
	for i, v := range master {
		sample := int16(clamp(v, -1, 1) * 32767)
		binary.LittleEndian.PutUint16(buf[i*bytesPerFrame:], uint16(sample))
		binary.LittleEndian.PutUint16(buf[i*bytesPerFrame+2:], uint16(sample))
	}
	s.leftover = buf
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

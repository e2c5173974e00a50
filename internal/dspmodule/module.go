// Package dspmodule defines the contract every DSP block in the graph
// must satisfy.
//
// A module is deliberately not a class hierarchy: it is the capability
// set {process, set parameter, handle note, report output count}. Any
// type that implements Module can be wired into the graph, whether it
// ships with this package (see internal/modules) or is supplied by a
// caller.
package dspmodule

// Chunk is the fixed number of samples processed per graph step.
const Chunk = 64

// Buffer is one audio-rate output: Chunk contiguous float32 samples.
type Buffer [Chunk]float32

// Module is the contract every DSP block satisfies. Process, SetParam,
// and HandleNote all run on the real-time audio thread: they must not
// allocate, block, or panic on malformed input.
type Module interface {
	// NumOutputs reports how many audio output buffers this module
	// produces. Most modules report 1.
	NumOutputs() int

	// Process consumes borrowed control-rate and audio-rate inputs and
	// produces its own control-rate and audio-rate outputs in place.
	// ctrlIn and bufIn are wired sources gathered by the graph; ctrlOut
	// and bufOut belong to this module and must be written fully.
	// timestamp is the wall-clock nanosecond anchor for the chunk about
	// to be produced.
	Process(ctrlIn []float32, ctrlOut []float32, bufIn []*Buffer, bufOut []Buffer, timestamp int64)

	// SetParam assigns a scalar parameter. timestamp is carried for
	// modules that want it, but intra-chunk scheduling is not
	// guaranteed — see doc.go in this package.
	SetParam(paramIx int, value float32, timestamp int64)

	// HandleNote delivers a note-on (on=true) or note-off (on=false) to
	// modules that listen for them (pitch sources, envelopes, samplers).
	// Modules with no use for notes implement this as a no-op.
	HandleNote(midi float32, velocity float32, on bool)
}

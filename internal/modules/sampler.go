package modules

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sinshu/go-meltysynth/meltysynth"
	"github.com/zurustar/modsynth/internal/dspmodule"
	"github.com/zurustar/modsynth/pkg/fileutil"
)

// ErrSoundFontNotFound is returned when a SoundFont path cannot be
// resolved through the given filesystem.
var ErrSoundFontNotFound = fmt.Errorf("modules: SoundFont file not found")

// Sampler wraps a go-meltysynth synthesizer as a Module: it ignores
// its control inputs entirely and renders directly from the
// synthesizer's internal voice state, driven purely by HandleNote.
type Sampler struct {
	synth *meltysynth.Synthesizer
	gain  float32

	left, right [dspmodule.Chunk]float32
}

// LoadSoundFont reads and parses a SoundFont through fs (nil falls
// back to the regular filesystem), mirroring the case-insensitive /
// embeddable file access pattern used elsewhere in this codebase.
func LoadSoundFont(fs fileutil.FileSystem, path string) (*meltysynth.SoundFont, error) {
	var data []byte
	var err error
	if fs == nil {
		data, err = os.ReadFile(path)
	} else {
		data, err = fs.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSoundFontNotFound, path, err)
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("modules: failed to parse SoundFont %s: %w", path, err)
	}
	return sf, nil
}

// NewSampler builds a Sampler from an already-loaded SoundFont, at the
// given sample rate.
func NewSampler(sf *meltysynth.SoundFont, sampleRate float64) (*Sampler, error) {
	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	synth, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, fmt.Errorf("modules: failed to create synthesizer: %w", err)
	}
	return &Sampler{synth: synth, gain: 1}, nil
}

func (s *Sampler) NumOutputs() int { return 1 }

func (s *Sampler) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	s.synth.Render(s.left[:], s.right[:])
	out := &bufOut[0]
	for i := range out {
		out[i] = (s.left[i] + s.right[i]) * 0.5 * s.gain
	}
}

// SetParam(0, gain, _) scales the rendered output; the synthesizer's
// own per-channel volume and preset selection are left at
// SoundFont/default-preset behavior, matching the teacher's minimal
// MIDI playback wiring rather than exposing a full CC surface.
func (s *Sampler) SetParam(paramIx int, value float32, timestamp int64) {
	if paramIx == 0 {
		s.gain = value
	}
}

// HandleNote forwards directly to the synthesizer's MIDI channel 0.
func (s *Sampler) HandleNote(midi float32, velocity float32, on bool) {
	key := int32(midi + 0.5)
	if on {
		vel := int32(velocity * 127)
		s.synth.NoteOn(0, key, vel)
	} else {
		s.synth.NoteOff(0, key)
	}
}

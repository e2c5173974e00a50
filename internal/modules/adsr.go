package modules

import "github.com/zurustar/modsynth/internal/dspmodule"

type adsrStage uint8

const (
	adsrIdle adsrStage = iota
	adsrAttack
	adsrDecay
	adsrSustain
	adsrRelease
)

// Adsr is an attack/decay/sustain/release envelope generator, a
// control node per the usual synthesis glossary: it emits one
// control-rate value in [0, 1] per chunk and is driven by HandleNote
// rather than by wired control input.
type Adsr struct {
	sampleRate float64

	attackSec  float32
	decaySec   float32
	sustain    float32
	releaseSec float32

	stage adsrStage
	level float32
}

// NewAdsr creates an envelope with the given stage times (seconds) and
// sustain level (0-1), ticking at sampleRate.
func NewAdsr(sampleRate float64, attackSec, decaySec, sustain, releaseSec float32) *Adsr {
	return &Adsr{
		sampleRate: sampleRate,
		attackSec:  attackSec,
		decaySec:   decaySec,
		sustain:    sustain,
		releaseSec: releaseSec,
	}
}

func (a *Adsr) NumOutputs() int { return 0 }

// chunkStep returns the per-chunk increment that moves the envelope
// across a stage lasting seconds, given the chunk rate.
func (a *Adsr) chunkStep(seconds float32) float32 {
	if seconds <= 0 {
		return 1
	}
	chunksOverStage := seconds * float32(a.sampleRate) / float32(dspmodule.Chunk)
	return 1 / chunksOverStage
}

func (a *Adsr) Process(ctrlIn, ctrlOut []float32, bufIn []*dspmodule.Buffer, bufOut []dspmodule.Buffer, timestamp int64) {
	switch a.stage {
	case adsrIdle:
		a.level = 0
	case adsrAttack:
		a.level += a.chunkStep(a.attackSec)
		if a.level >= 1 {
			a.level = 1
			a.stage = adsrDecay
		}
	case adsrDecay:
		a.level -= a.chunkStep(a.decaySec) * (1 - a.sustain)
		if a.level <= a.sustain {
			a.level = a.sustain
			a.stage = adsrSustain
		}
	case adsrSustain:
		a.level = a.sustain
	case adsrRelease:
		a.level -= a.chunkStep(a.releaseSec) * a.sustain
		if a.level <= 0 {
			a.level = 0
			a.stage = adsrIdle
		}
	}
	ctrlOut[0] = a.level
}

// SetParam reassigns one of the four stage parameters: 0=attack,
// 1=decay, 2=sustain, 3=release.
func (a *Adsr) SetParam(paramIx int, value float32, timestamp int64) {
	switch paramIx {
	case 0:
		a.attackSec = value
	case 1:
		a.decaySec = value
	case 2:
		a.sustain = value
	case 3:
		a.releaseSec = value
	}
}

// HandleNote starts the attack on note-on, and the release on
// note-off; velocity is not currently used to scale peak level.
func (a *Adsr) HandleNote(midi float32, velocity float32, on bool) {
	if on {
		a.stage = adsrAttack
	} else {
		a.stage = adsrRelease
	}
}

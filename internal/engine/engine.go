// Package engine is the control-side orchestrator: it owns Tempo, the
// timeline model, and node-id allocation, and drives the worker purely
// by sending messages over the to-worker queue. None of it runs on the
// real-time thread.
package engine

import (
	"github.com/zurustar/modsynth/internal/dspgraph"
	"github.com/zurustar/modsynth/internal/dspmodule"
	"github.com/zurustar/modsynth/internal/idalloc"
	"github.com/zurustar/modsynth/internal/modules"
	"github.com/zurustar/modsynth/internal/rtqueue"
	"github.com/zurustar/modsynth/internal/tempo"
	"github.com/zurustar/modsynth/internal/timeline"
	"github.com/zurustar/modsynth/internal/worker"
)

// TrackID identifies a track. It is the same value as the track's
// underlying sum-node NodeID, matching the original's choice to reuse
// the node id as the track's external handle.
type TrackID = dspgraph.NodeID

// MasterNodeID is the reserved node id the worker always evaluates
// from, per dspgraph.Node's convention.
const MasterNodeID dspgraph.NodeID = worker.Root

// Config tunes control-side behavior that the spec leaves as an
// explicit, resolvable choice rather than a hardcoded default.
type Config struct {
	// SuppressNoteOffWhilePaused holds pending note-offs back instead of
	// flushing them while the transport is paused; they stay queued and
	// fire on the first step after playback resumes. Default false:
	// queued note-offs still fire while paused.
	SuppressNoteOffWhilePaused bool
}

// pendingNoteOff is one deferred note-off waiting for its wall-clock
// time to arrive; see RunStep's flush step.
type pendingNoteOff struct {
	ids       []dspgraph.NodeID
	midi      float32
	timestamp int64
}

// Engine is the single control-thread owner of the transport and
// timeline model. Not safe for concurrent use.
type Engine struct {
	cfg Config

	toWorker *rtqueue.Sender[worker.Message]
	ts       *worker.TimestampReader

	ids   *idalloc.Allocator
	Tempo *tempo.Tempo

	tracks  []*timeline.Track
	pending []pendingNoteOff
}

// New creates an Engine wired to toWorker (the worker's inbound
// queue) and ts (its timestamp reader), both obtained from
// worker.Create. Reserves node 0 for the master sum node.
func New(sampleRate float64, toWorker *rtqueue.Sender[worker.Message], ts *worker.TimestampReader, cfg Config) *Engine {
	ids := idalloc.New()
	ids.Reserve(MasterNodeID)
	return &Engine{
		cfg:      cfg,
		toWorker: toWorker,
		ts:       ts,
		ids:      ids,
		Tempo:    tempo.New(sampleRate),
	}
}

// Init installs an initial empty master sum node.
func (e *Engine) Init() {
	e.updateMaster()
}

// CreateNode allocates a node id and sends a Node message installing
// module with the given wiring.
func (e *Engine) CreateNode(module dspmodule.Module, audioWiring, ctrlWiring []dspgraph.Wire) dspgraph.NodeID {
	id := e.ids.Alloc()
	e.sendNode(id, module, audioWiring, ctrlWiring)
	return id
}

// AddTrack creates a sum node, records an empty Track, and rebuilds
// the master.
func (e *Engine) AddTrack() TrackID {
	id := e.CreateNode(modules.NewSum(), nil, nil)
	e.tracks = append(e.tracks, timeline.NewTrack(id))
	e.updateMaster()
	return id
}

// SetTrackNode replaces a track's sum-node wiring and its control node
// list, then rebuilds the master (the track's own output buffer
// identity is unaffected, but downstream wiring into it may have
// changed meaning).
func (e *Engine) SetTrackNode(trackID TrackID, audioWiring []dspgraph.Wire, ctrlNodeIDs []dspgraph.NodeID) {
	tr := e.findTrack(trackID)
	if tr == nil {
		return
	}
	tr.SetControlNodeIDs(ctrlNodeIDs)
	e.sendNode(trackID, modules.NewSum(), audioWiring, nil)
	e.updateMaster()
}

// AddClipToTrack allocates a clip id and inserts an empty one-bar clip
// at position on trackID. A trackID with no matching track is a
// silent no-op, returning the allocated-but-unused id.
func (e *Engine) AddClipToTrack(trackID TrackID, position int64) timeline.ClipID {
	id := timeline.ClipID(e.ids.Alloc())
	clip := timeline.NewClip(id, e.Tempo.Bars(1))
	if tr := e.findTrack(trackID); tr != nil {
		tr.AddClip(position, clip)
	}
	return id
}

// AddNote inserts note into clipID on trackID at position.
func (e *Engine) AddNote(trackID TrackID, clipID timeline.ClipID, note timeline.ClipNote, position int64) {
	if tr := e.findTrack(trackID); tr != nil {
		tr.AddNote(clipID, note, position)
	}
}

// SetLoop sets the tempo's loop region.
func (e *Engine) SetLoop(start, end int64) {
	e.Tempo.SetLoop(start, end)
}

// SetPlay starts playback.
func (e *Engine) SetPlay() {
	e.Tempo.SetPlay()
}

// SetPause stops playback.
func (e *Engine) SetPause() {
	e.Tempo.SetPause()
}

// SendNoteOn sends an immediate note-on to the listed node ids.
func (e *Engine) SendNoteOn(ids []dspgraph.NodeID, midi, velocity float32) {
	e.sendNote(ids, midi, velocity, true, 0)
}

// SendNoteOff sends an immediate note-off to the listed node ids.
func (e *Engine) SendNoteOff(ids []dspgraph.NodeID, midi float32) {
	e.sendNote(ids, midi, 0, false, 0)
}

// SetParam sends a parameter message.
func (e *Engine) SetParam(p worker.SetParamMsg) {
	e.toWorker.Send(worker.NewSetParamMessage(p))
}

// RemoveTrack drops trackID from the track list (order not preserved,
// matching the original's swap_remove) and rebuilds the master. A
// trackID with no matching track is a silent no-op.
func (e *Engine) RemoveTrack(trackID TrackID) {
	for i, tr := range e.tracks {
		if tr.NodeID == trackID {
			last := len(e.tracks) - 1
			e.tracks[i] = e.tracks[last]
			e.tracks = e.tracks[:last]
			e.updateMaster()
			return
		}
	}
}

// RunStep pulls at most one timestamp from the worker's ring, advances
// Tempo, and fires due notes. Returns ok=false if no new timestamp was
// available (the caller should sleep briefly, conventionally 1ms).
func (e *Engine) RunStep() (ts int64, ok bool) {
	ts, ok = e.ts.Pop()
	if !ok {
		return 0, false
	}

	if !e.Tempo.Playing {
		if !e.cfg.SuppressNoteOffWhilePaused {
			e.flushDuePending(ts)
		}
		e.Tempo.Step(ts)
		return ts, true
	}

	prev := e.Tempo.PrevPositionTicks
	if !e.Tempo.HasPrevPosition {
		// No step has run yet, so position is still sitting at tick 0.
		// NotesToFire's window is exclusive of prev, and a note can
		// legitimately sit at tick 0 of a clip's first bar — back prev up
		// by one so the very first scan still catches it.
		prev = -1
	}
	cur := e.Tempo.CurrentPositionTicks

	if !e.Tempo.HasPrevPosition || cur != prev {
		if cur < prev {
			// The loop wrapped between the previous step and this one:
			// scan the tail of the region up to the loop end, then the
			// head from the loop start up to the new position.
			if loopStart, loopEnd, looping := e.Tempo.Looping(); looping {
				e.fireNotesInWindow(prev, loopEnd, ts)
				e.fireNotesInWindow(loopStart-1, cur, ts)
			}
		} else {
			e.fireNotesInWindow(prev, cur, ts)
		}
	}

	e.flushDuePending(ts)
	e.Tempo.Step(ts)
	return ts, true
}

// fireNotesInWindow scans every track's (windowStart, windowEnd] range
// and sends a note-on plus a scheduled note-off for everything found.
func (e *Engine) fireNotesInWindow(windowStart, windowEnd, ts int64) {
	for _, tr := range e.tracks {
		for _, tn := range tr.NotesToFire(windowStart, windowEnd) {
			ids := tr.ControlNodeIDs
			e.sendNote(ids, tn.Note.Midi, float32(tn.Note.Velocity)/127, true, ts)
			durNS := tempo.TicksToNS(tn.Note.DurTicks, e.Tempo.BPM, e.Tempo.PPQN)
			e.pending = append(e.pending, pendingNoteOff{
				ids:       ids,
				midi:      tn.Note.Midi,
				timestamp: ts + durNS,
			})
		}
	}
}

// flushDuePending sends and removes every pending note-off whose time
// has arrived, preserving insertion order for same-tick entries — a
// linear scan, adequate at the note densities this engine targets.
func (e *Engine) flushDuePending(ts int64) {
	i := 0
	for i < len(e.pending) {
		p := e.pending[i]
		if ts >= p.timestamp {
			e.sendNote(p.ids, p.midi, 0, false, ts)
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			continue
		}
		i++
	}
}

func (e *Engine) findTrack(trackID TrackID) *timeline.Track {
	for _, tr := range e.tracks {
		if tr.NodeID == trackID {
			return tr
		}
	}
	return nil
}

func (e *Engine) sendNode(id dspgraph.NodeID, module dspmodule.Module, audioWiring, ctrlWiring []dspgraph.Wire) {
	n := dspgraph.Node{ID: id, Module: module, AudioIn: audioWiring, CtrlIn: ctrlWiring}
	e.toWorker.Send(worker.NewNodeMessage(n))
}

func (e *Engine) sendNote(ids []dspgraph.NodeID, midi, velocity float32, on bool, ts int64) {
	e.toWorker.Send(worker.NewNoteMessage(worker.NoteMsg{
		IDs:       ids,
		MidiNum:   midi,
		Velocity:  velocity,
		On:        on,
		Timestamp: ts,
	}))
}

// updateMaster replaces node 0 with a fresh sum node wired to every
// current track's (TrackID, 0) output.
func (e *Engine) updateMaster() {
	wiring := make([]dspgraph.Wire, len(e.tracks))
	for i, tr := range e.tracks {
		wiring[i] = dspgraph.Wire{Src: tr.NodeID, SrcOut: 0}
	}
	e.sendNode(MasterNodeID, modules.NewSum(), wiring, nil)
}

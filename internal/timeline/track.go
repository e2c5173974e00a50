package timeline

import "github.com/zurustar/modsynth/internal/dspgraph"

// clipEntry pairs a clip with its start position on the track's
// timeline, kept sorted by start tick for the same reason Clip sorts
// its notes.
type clipEntry struct {
	start int64
	clip  *Clip
}

// Track is one lane of the timeline: an audio sum node plus the clips
// placed on it and the set of graph nodes that should receive its note
// events (typically a pitch source and an envelope).
type Track struct {
	NodeID         dspgraph.NodeID
	ControlNodeIDs []dspgraph.NodeID
	clips          []clipEntry
}

// NewTrack creates an empty track bound to the given sum-node ID.
func NewTrack(nodeID dspgraph.NodeID) *Track {
	return &Track{NodeID: nodeID}
}

// SetControlNodeIDs replaces the set of nodes that receive this
// track's note-on/off events.
func (t *Track) SetControlNodeIDs(ids []dspgraph.NodeID) {
	t.ControlNodeIDs = ids
}

// AddClip places clip at position, overwriting whatever clip was
// previously there — matching the original's BTreeMap::insert
// semantics at an occupied position (see the package's design notes).
func (t *Track) AddClip(position int64, clip *Clip) {
	i := t.search(position)
	if i < len(t.clips) && t.clips[i].start == position {
		t.clips[i].clip = clip
		return
	}
	t.clips = append(t.clips, clipEntry{})
	copy(t.clips[i+1:], t.clips[i:])
	t.clips[i] = clipEntry{start: position, clip: clip}
}

func (t *Track) search(position int64) int {
	lo, hi := 0, len(t.clips)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.clips[mid].start < position {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// AddNote finds clipID on this track and adds note to it at position.
// A clip ID not present on this track is a silent no-op.
func (t *Track) AddNote(clipID ClipID, note ClipNote, position int64) {
	for _, e := range t.clips {
		if e.clip.ID == clipID {
			e.clip.AddNote(note, position)
			return
		}
	}
}

// ActiveClip returns the clip whose start is the greatest start <=
// position — piecewise-constant selection, so a track's clips tile the
// timeline with each clip owning everything up to the next clip's
// start. Returns ok=false outside any clip (before the first one).
func (t *Track) ActiveClip(position int64) (clip *Clip, ok bool) {
	i := t.search(position + 1) // first index with start > position.
	if i == 0 {
		return nil, false
	}
	return t.clips[i-1].clip, true
}

// NotesToFire delegates to whichever clip is active across the whole
// (prev, current] window, translating absolute timeline ticks into the
// clip-relative ticks its notes are keyed by via the clip's offset.
// Returns nil if no clip is active at current.
func (t *Track) NotesToFire(prev, current int64) []TimedNote {
	clip, ok := t.ActiveClip(current)
	if !ok {
		return nil
	}
	start, _ := t.clipStart(clip)
	relStart := prev - start - clip.OffsetTicks
	relEnd := current - start - clip.OffsetTicks
	return clip.NotesInRange(relStart, relEnd)
}

func (t *Track) clipStart(clip *Clip) (int64, bool) {
	for _, e := range t.clips {
		if e.clip == clip {
			return e.start, true
		}
	}
	return 0, false
}

// Package timeline holds the control-side musical data the engine
// schedules against Tempo: notes grouped into clips, clips placed on
// tracks. None of this is touched by the real-time thread.
package timeline

// ClipID identifies a clip within its owning track.
type ClipID uint32

// ClipNote is one note inside a clip, relative to the clip's own start.
type ClipNote struct {
	ID       uint32
	Midi     float32
	DurTicks int64
	Velocity uint8
}

// TimedNote pairs a ClipNote with the tick at which it starts, as
// returned by a range query.
type TimedNote struct {
	StartTick int64
	Note      ClipNote
}

// clipNoteEntry groups every note starting at the same tick, mirroring
// the original's BTreeMap<Ticks, Vec<ClipNote>> bucketing — several
// notes (a chord) can share a start tick.
type clipNoteEntry struct {
	start int64
	notes []ClipNote
}

// Clip is an ordered collection of notes relative to its own start.
// Notes are kept sorted by start tick (Go has no ordered map in the
// standard library) so range queries don't need to scan the whole clip.
type Clip struct {
	ID            ClipID
	entries       []clipNoteEntry
	DurationTicks int64
	OffsetTicks   int64
}

// NewClip creates an empty clip of the given duration.
func NewClip(id ClipID, durationTicks int64) *Clip {
	return &Clip{ID: id, DurationTicks: durationTicks}
}

// AddNote inserts note at position, keeping entries sorted by start
// tick. A note whose position is at or beyond the clip's duration is
// still stored (matching the original's unconditional insert) but is
// never returned by NotesInRange — the clip's own invariant is enforced
// at read time, not write time.
func (c *Clip) AddNote(note ClipNote, position int64) {
	i := c.search(position)
	if i < len(c.entries) && c.entries[i].start == position {
		c.entries[i].notes = append(c.entries[i].notes, note)
		return
	}
	c.entries = append(c.entries, clipNoteEntry{})
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = clipNoteEntry{start: position, notes: []ClipNote{note}}
}

// search returns the index of the first entry whose start is >= position.
func (c *Clip) search(position int64) int {
	lo, hi := 0, len(c.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.entries[mid].start < position {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// NotesInRange returns every note whose start tick lies in
// (startExclusive, endInclusive], skipping any note at or beyond the
// clip's duration.
func (c *Clip) NotesInRange(startExclusive, endInclusive int64) []TimedNote {
	var out []TimedNote
	i := c.search(startExclusive + 1)
	for ; i < len(c.entries); i++ {
		e := c.entries[i]
		if e.start > endInclusive {
			break
		}
		if e.start >= c.DurationTicks {
			continue
		}
		for _, n := range e.notes {
			out = append(out, TimedNote{StartTick: e.start, Note: n})
		}
	}
	return out
}

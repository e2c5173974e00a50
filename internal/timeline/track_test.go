package timeline

import "testing"

func TestActiveClipSelectsGreatestStartNotExceedingPosition(t *testing.T) {
	tr := NewTrack(1)
	c1 := NewClip(1, 100)
	c2 := NewClip(2, 100)
	tr.AddClip(0, c1)
	tr.AddClip(200, c2)

	clip, ok := tr.ActiveClip(150)
	if !ok || clip.ID != 1 {
		t.Fatalf("expected clip 1 active at 150, got %v ok=%v", clip, ok)
	}

	clip, ok = tr.ActiveClip(200)
	if !ok || clip.ID != 2 {
		t.Fatalf("expected clip 2 active at exactly its start, got %v ok=%v", clip, ok)
	}
}

func TestActiveClipBeforeFirstClipReturnsFalse(t *testing.T) {
	tr := NewTrack(1)
	tr.AddClip(50, NewClip(1, 100))

	if _, ok := tr.ActiveClip(49); ok {
		t.Fatalf("expected no active clip before the first clip's start")
	}
}

func TestAddClipAtOccupiedPositionOverwrites(t *testing.T) {
	tr := NewTrack(1)
	tr.AddClip(10, NewClip(1, 100))
	tr.AddClip(10, NewClip(2, 200))

	clip, ok := tr.ActiveClip(10)
	if !ok || clip.ID != 2 {
		t.Fatalf("expected the second clip to have overwritten the first, got %v", clip)
	}
	if len(tr.clips) != 1 {
		t.Fatalf("expected exactly one clip entry after overwrite, got %d", len(tr.clips))
	}
}

func TestNotesToFireTranslatesAbsoluteTicksToClipRelative(t *testing.T) {
	tr := NewTrack(1)
	c := NewClip(1, 1000)
	c.AddNote(ClipNote{ID: 1, Midi: 60}, 5)
	tr.AddClip(100, c)

	got := tr.NotesToFire(100, 110)
	if len(got) != 1 || got[0].Note.ID != 1 {
		t.Fatalf("expected note at relative tick 5 within the window, got %v", got)
	}
}

func TestNotesToFireRespectsClipOffset(t *testing.T) {
	tr := NewTrack(1)
	c := NewClip(1, 1000)
	c.OffsetTicks = 5
	c.AddNote(ClipNote{ID: 1, Midi: 60}, 0)
	tr.AddClip(100, c)

	got := tr.NotesToFire(100, 105)
	if len(got) != 1 {
		t.Fatalf("expected the offset note to fall within (100,105], got %v", got)
	}

	got = tr.NotesToFire(106, 110)
	if len(got) != 0 {
		t.Fatalf("expected no notes after the offset note has already fired, got %v", got)
	}
}

func TestNotesToFireWithNoActiveClipReturnsNil(t *testing.T) {
	tr := NewTrack(1)
	tr.AddClip(100, NewClip(1, 1000))

	if got := tr.NotesToFire(0, 50); got != nil {
		t.Fatalf("expected nil with no active clip, got %v", got)
	}
}

func TestAddNoteToUnknownClipIDIsANoOp(t *testing.T) {
	tr := NewTrack(1)
	tr.AddClip(0, NewClip(1, 1000))

	tr.AddNote(99, ClipNote{ID: 1, Midi: 60}, 0)
}

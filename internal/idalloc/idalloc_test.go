package idalloc

import "testing"

func TestReserveThenAllocSkipsReserved(t *testing.T) {
	a := New()
	a.Reserve(0)
	if id := a.Alloc(); id != 1 {
		t.Fatalf("expected first alloc to skip reserved 0, got %d", id)
	}
	if id := a.Alloc(); id != 2 {
		t.Fatalf("expected second alloc to be 2, got %d", id)
	}
}

func TestAllocNeverRepeats(t *testing.T) {
	a := New()
	seen := make(map[uint32]bool)
	for i := 0; i < 1000; i++ {
		id := a.Alloc()
		if seen[id] {
			t.Fatalf("id %d allocated twice", id)
		}
		seen[id] = true
	}
}

func TestReserveAlreadyReservedPanics(t *testing.T) {
	a := New()
	a.Reserve(5)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reserving an already-reserved id")
		}
	}()
	a.Reserve(5)
}

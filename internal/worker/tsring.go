package worker

import "sync/atomic"

// tsRing is a single-slot SPSC ring: the real-time side overwrites the
// slot with the latest timestamp, the control side takes whatever is
// there. A full slot (the control side hasn't read the previous value
// yet) is simply overwritten — only the most recent timestamp matters.
//
// push must not allocate, so the two backing cells live inside the
// struct itself and are reused forever; only the pointer published to
// cur ever changes.
type tsRing struct {
	cells  [2]int64
	toggle uint8 // touched only by push, a single producer.
	cur    atomic.Pointer[int64]
}

// push stores ns, discarding whatever was previously there unread.
// Allocation-free: safe to call from the real-time thread.
func (r *tsRing) push(ns int64) {
	r.toggle ^= 1
	r.cells[r.toggle] = ns
	r.cur.Store(&r.cells[r.toggle])
}

// pop takes the stored value, if any, clearing the slot.
func (r *tsRing) pop() (int64, bool) {
	p := r.cur.Swap(nil)
	if p == nil {
		return 0, false
	}
	return *p, true
}

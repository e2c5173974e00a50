// Package dspgraph stores DSP graph nodes keyed by node ID and evaluates
// the subtree reachable from the master node in a fixed, recomputed-
// on-change topological order.
package dspgraph

import (
	"fmt"

	"github.com/zurustar/modsynth/internal/dspmodule"
	"github.com/zurustar/modsynth/internal/rtqueue"
)

// NodeID identifies a node in the graph. 0 is reserved for the master
// output node by convention (enforced by the caller via idalloc).
type NodeID = uint32

// Wire names a wired source: the output buffer SrcOut of node Src.
type Wire struct {
	Src    NodeID
	SrcOut int
}

// Node is a graph node: a module plus the wiring captured at creation
// time. Replacing a node replaces its wiring wholesale.
type Node struct {
	ID      NodeID
	Module  dspmodule.Module
	AudioIn []Wire
	CtrlIn  []Wire
}

// GraphNode satisfies Envelope trivially, so a Graph can be instantiated
// directly over bare Nodes (as the package's own tests do) without a
// wrapping message type.
func (n Node) GraphNode() Node { return n }

// Envelope is anything a Graph slot can store: the queue message type
// exchanged with the control side, which must be able to hand back its
// embedded Node. Storing the whole envelope (rather than unwrapping it
// into a plain Node before installing) lets Replace hand the *original*
// queue item back to the sender on eviction, with no repackaging and no
// allocation.
type Envelope interface {
	GraphNode() Node
}

type slot[T Envelope] struct {
	item    rtqueue.Item[T]
	outBufs []dspmodule.Buffer
	ctrlOut []float32

	// Scratch space for gathering wired inputs, sized once when the
	// node is installed so Run never needs to grow a slice.
	audioBufIn []*dspmodule.Buffer
	ctrlBufIn  []float32
}

// Graph is a fixed-capacity, indexable container of nodes, evaluated
// from a root via audio and control wiring. The zero value is not
// usable; use New.
type Graph[T Envelope] struct {
	slots []slot[T]
	order []NodeID
	dirty bool

	// Scratch space for rebuildOrder, preallocated once so a topology
	// change never triggers a heap allocation on the audio thread.
	visited []uint8

	zeroBuf dspmodule.Buffer
}

// New creates a Graph able to hold node IDs in [0, maxNodes).
func New[T Envelope](maxNodes int) (*Graph[T], error) {
	if maxNodes <= 0 {
		return nil, fmt.Errorf("dspgraph: maxNodes must be positive, got %d", maxNodes)
	}
	return &Graph[T]{
		slots:   make([]slot[T], maxNodes),
		order:   make([]NodeID, 0, maxNodes),
		visited: make([]uint8, maxNodes),
		dirty:   true,
	}, nil
}

// Cap returns the maximum number of node IDs this graph can hold.
func (g *Graph[T]) Cap() int {
	return len(g.slots)
}

// Replace installs item at its node's ID (or removes whatever is there,
// when item is the zero Item), and returns whatever item previously
// occupied that slot — the zero Item if none — so the caller can
// forward it to a return queue. Item is stored by value: no pointer
// indirection is introduced here, so storing the item never allocates.
// The slot's output buffers and input scratch slices are allocated only
// when the installed node needs more room than the slot already has
// (always on a slot's first install). This is the graph's sole mutating entry point, called only from the
// worker.
func (g *Graph[T]) Replace(id NodeID, item rtqueue.Item[T]) rtqueue.Item[T] {
	s := &g.slots[id]
	prev := s.item
	s.item = item
	g.dirty = true
	if item.Valid() {
		n := (*item.Value()).GraphNode()
		if len(s.outBufs) != n.Module.NumOutputs() {
			s.outBufs = make([]dspmodule.Buffer, n.Module.NumOutputs())
		}
		if len(s.ctrlOut) != 1 {
			s.ctrlOut = make([]float32, 1)
		}
		s.audioBufIn = growBufPtrs(s.audioBufIn, len(n.AudioIn))
		s.ctrlBufIn = growFloats(s.ctrlBufIn, len(n.CtrlIn))
	} else {
		s.outBufs = nil
		s.ctrlOut = nil
		s.audioBufIn = nil
		s.ctrlBufIn = nil
	}
	return prev
}

// growBufPtrs reslices s to length n when its backing array already has
// room, only falling back to make when it must actually grow. A node
// replaced repeatedly with the same wiring shape (the common case for a
// parameter-only patch change) never allocates past its first install.
func growBufPtrs(s []*dspmodule.Buffer, n int) []*dspmodule.Buffer {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]*dspmodule.Buffer, n)
}

func growFloats(s []float32, n int) []float32 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]float32, n)
}

// GetModuleMut returns the module installed at id, or nil if no node is
// installed there (e.g. it was removed or never created, or a message
// arrived for an id that was concurrently replaced). Callers must treat
// a nil result as a no-op per the "message to unknown id" policy.
func (g *Graph[T]) GetModuleMut(id NodeID) dspmodule.Module {
	if int(id) >= len(g.slots) || !g.slots[id].item.Valid() {
		return nil
	}
	return (*g.slots[id].item.Value()).GraphNode().Module
}

// OutBufs returns the output audio buffers most recently produced by
// the node at id, or nil if id holds no node.
func (g *Graph[T]) OutBufs(id NodeID) []dspmodule.Buffer {
	if int(id) >= len(g.slots) || !g.slots[id].item.Valid() {
		return nil
	}
	return g.slots[id].outBufs
}

const (
	unseen uint8 = iota
	inProgress
	done
)

// rebuildOrder performs a DFS-based topological sort of the subtree
// reachable from root via audio and control wiring. Cycles are broken by
// simply not revisiting a node already placed (or currently being
// visited) in the order; the order within a cycle is undefined. Uses
// only the graph's preallocated scratch space, so a topology change
// never allocates.
func (g *Graph[T]) rebuildOrder(root NodeID) {
	for i := range g.visited {
		g.visited[i] = unseen
	}
	g.order = g.order[:0]
	g.visit(root)
	g.dirty = false
}

func (g *Graph[T]) visit(id NodeID) {
	if int(id) >= len(g.slots) || !g.slots[id].item.Valid() {
		return // dangling reference: silently skipped, see Run.
	}
	switch g.visited[id] {
	case done, inProgress:
		return // inProgress means a cycle: break here, order undefined.
	}
	g.visited[id] = inProgress
	n := (*g.slots[id].item.Value()).GraphNode()
	for _, w := range n.AudioIn {
		g.visit(w.Src)
	}
	for _, w := range n.CtrlIn {
		g.visit(w.Src)
	}
	g.visited[id] = done
	g.order = append(g.order, id)
}

// Run evaluates the subtree rooted at root, producing its output
// buffers. Safe to call from the real-time thread: unresolved wiring
// substitutes a shared zero buffer instead of panicking.
func (g *Graph[T]) Run(root NodeID, timestamp int64) {
	if g.dirty {
		g.rebuildOrder(root)
	}

	for _, id := range g.order {
		s := &g.slots[id]
		if !s.item.Valid() {
			continue
		}
		n := (*s.item.Value()).GraphNode()

		for i, w := range n.AudioIn {
			s.audioBufIn[i] = g.sourceBuffer(w)
		}
		for i, w := range n.CtrlIn {
			s.ctrlBufIn[i] = g.sourceCtrl(w)
		}

		n.Module.Process(s.ctrlBufIn, s.ctrlOut, s.audioBufIn, s.outBufs, timestamp)
	}
}

func (g *Graph[T]) sourceBuffer(w Wire) *dspmodule.Buffer {
	if int(w.Src) >= len(g.slots) {
		return &g.zeroBuf
	}
	s := &g.slots[w.Src]
	if !s.item.Valid() || w.SrcOut >= len(s.outBufs) {
		return &g.zeroBuf
	}
	return &s.outBufs[w.SrcOut]
}

func (g *Graph[T]) sourceCtrl(w Wire) float32 {
	if int(w.Src) >= len(g.slots) {
		return 0
	}
	s := &g.slots[w.Src]
	if !s.item.Valid() || len(s.ctrlOut) == 0 {
		return 0
	}
	return s.ctrlOut[0]
}

// Package worker implements the real-time audio executor: the single
// object whose Work method is safe to call from an audio callback.
package worker

import (
	"github.com/zurustar/modsynth/internal/dspgraph"
	"github.com/zurustar/modsynth/internal/dspmodule"
	"github.com/zurustar/modsynth/internal/rtqueue"
)

// Root is the node ID evaluated as the graph's output on every Work
// call. Reserved for the master sum node by the control side's
// idalloc.Allocator.
const Root dspgraph.NodeID = 0

// Worker owns the graph and the two ends of the message queues that
// connect it to the control side. Work and SendTS are the only methods
// meant to run on the real-time thread; everything else (Create,
// endpoints) is control-side setup.
//
// The graph stores the whole Message envelope in each slot, not a bare
// dspgraph.Node — so when a node is evicted, Replace hands back the
// exact queue item that installed it, ready to forward to the return
// queue with no repackaging and no allocation.
type Worker struct {
	toWorker   *rtqueue.Receiver[Message]
	fromWorker *rtqueue.Sender[Message]
	ts         tsRing
	graph      *dspgraph.Graph[Message]
}

// Create builds a Worker with room for maxNodes graph nodes and returns
// it alongside the control-side handles: the sender feeding messages in,
// the receiver draining evicted storage back out, and a timestamp
// reader for Tempo.Step.
func Create(maxNodes int) (*Worker, *rtqueue.Sender[Message], *rtqueue.Receiver[Message], *TimestampReader, error) {
	g, err := dspgraph.New[Message](maxNodes)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	toWorkerTx, toWorkerRx := rtqueue.New[Message]()
	fromWorkerTx, fromWorkerRx := rtqueue.New[Message]()
	w := &Worker{
		toWorker:   toWorkerRx,
		fromWorker: fromWorkerTx,
		graph:      g,
	}
	return w, toWorkerTx, fromWorkerRx, &TimestampReader{ring: &w.ts}, nil
}

// HandleMessage processes msg immediately, bypassing the queue. This
// allocates (MakeItem) and is for control-side setup only — e.g.
// installing the initial master node before the audio callback starts
// running — never for use once the audio thread is live.
func (w *Worker) HandleMessage(msg Message) {
	w.handleItem(rtqueue.MakeItem(msg))
}

// handleItem dispatches a single queue item by its message kind. Node
// installs/replacements run through the graph directly, so the evicted
// item (if any) is forwarded to the return queue; SetParam and Note
// messages are consumed in place and their own item is forwarded back
// once applied, since nothing else needs to hold on to their storage.
func (w *Worker) handleItem(item rtqueue.Item[Message]) {
	msg := item.Value()
	switch msg.Kind {
	case KindNode:
		prev := w.graph.Replace(msg.Node.ID, item)
		if prev.Valid() {
			w.fromWorker.SendItem(prev)
		}
	case KindSetParam:
		p := &msg.SetParam
		if m := w.graph.GetModuleMut(p.ID); m != nil {
			m.SetParam(p.ParamIx, p.Value, p.Timestamp)
		}
		w.fromWorker.SendItem(item)
	case KindNote:
		n := &msg.Note
		for _, id := range n.IDs {
			if m := w.graph.GetModuleMut(id); m != nil {
				m.HandleNote(n.MidiNum, n.Velocity, n.On)
			}
		}
		w.fromWorker.SendItem(item)
	default:
		// Unrecognized message kind: drop, per the queue's own policy
		// for messages addressed to a node that no longer exists.
	}
}

// SendTS publishes now (the wall-clock anchor of the chunk being
// produced) for the control side's Tempo to pick up. Allocation-free;
// safe to call from the real-time thread. If the previous value hasn't
// been consumed yet it is silently overwritten — only the latest
// timestamp matters.
func (w *Worker) SendTS(nowNS int64) {
	w.ts.push(nowNS)
}

// Work drains pending messages, runs the graph for one chunk anchored
// at timestamp, and returns the master node's output buffers. The only
// operation meant to be called from the audio callback; it must not
// allocate.
func (w *Worker) Work(timestamp int64) []dspmodule.Buffer {
	drain := w.toWorker.Drain()
	for {
		item, ok := drain.Next()
		if !ok {
			break
		}
		w.handleItem(item)
	}
	w.graph.Run(Root, timestamp)
	return w.graph.OutBufs(Root)
}

// TimestampReader is the control-side handle for draining timestamps
// published by SendTS.
type TimestampReader struct {
	ring *tsRing
}

// Pop returns the most recently published timestamp, if any has
// arrived since the last Pop.
func (r *TimestampReader) Pop() (int64, bool) {
	return r.ring.pop()
}

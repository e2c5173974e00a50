package worker

import "github.com/zurustar/modsynth/internal/dspgraph"

// Kind discriminates the payload carried by a Message.
type Kind uint8

const (
	// KindNode installs or replaces the node named by NodeMsg.Node.ID.
	KindNode Kind = iota
	// KindSetParam assigns a scalar parameter on an existing node.
	KindSetParam
	// KindNote delivers a note-on/off to a set of listening nodes.
	KindNote
)

// SetParamMsg assigns ParamIx on the node at ID to Value, timestamped
// for modules that care to use it (none currently interpolate within a
// chunk; see internal/dspmodule/doc.go).
type SetParamMsg struct {
	ID        dspgraph.NodeID
	ParamIx   int
	Value     float32
	Timestamp int64
}

// NoteMsg delivers a note event to every node listed in IDs.
type NoteMsg struct {
	IDs       []dspgraph.NodeID
	MidiNum   float32
	Velocity  float32
	On        bool
	Timestamp int64
}

// Message is the tagged union exchanged between the control side and
// the worker over rtqueue. Exactly one of Node/SetParam/Note is
// meaningful, selected by Kind.
type Message struct {
	Kind     Kind
	Node     dspgraph.Node
	SetParam SetParamMsg
	Note     NoteMsg
}

// NewNodeMessage wraps n as a node-install/replace message.
func NewNodeMessage(n dspgraph.Node) Message {
	return Message{Kind: KindNode, Node: n}
}

// NewSetParamMessage wraps p as a parameter-set message.
func NewSetParamMessage(p SetParamMsg) Message {
	return Message{Kind: KindSetParam, SetParam: p}
}

// NewNoteMessage wraps n as a note-event message.
func NewNoteMessage(n NoteMsg) Message {
	return Message{Kind: KindNote, Note: n}
}

// GraphNode satisfies dspgraph.Envelope: only KindNode messages carry a
// meaningful Node, but the method is unconditional since the graph only
// calls it on slots it already knows hold a KindNode item.
func (m Message) GraphNode() dspgraph.Node {
	return m.Node
}

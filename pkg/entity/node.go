package entity

import (
	"slices"

	"github.com/isochrone/isochrone/pkg/errors"
)

// NodeType identifies the concrete variant of a graph node. The set is
// closed: serialization and the live adapter dispatch on it exhaustively, so
// an unhandled variant is a programming error rather than a silent fallthrough.
type NodeType int

const (
	// NodeInvalid is the unusable zero value.
	NodeInvalid NodeType = iota
	// NodeSystem is a single system carrying a hardware inventory.
	NodeSystem
	// NodeMultiSystem is a collection of systems identified by hostnames,
	// addresses, ranges, and subnets.
	NodeMultiSystem
	// NodeBoundary is a visual container with no extra payload.
	NodeBoundary
)

// String returns the wire-format name of the node type.
func (t NodeType) String() string {
	switch t {
	case NodeSystem:
		return "System"
	case NodeMultiSystem:
		return "Multi-System"
	case NodeBoundary:
		return "Boundary"
	default:
		return "Invalid"
	}
}

// ParseNodeType converts a wire-format name to a NodeType.
// Returns an InvalidArgument error for unknown names.
func ParseNodeType(s string) (NodeType, error) {
	switch s {
	case "System":
		return NodeSystem, nil
	case "Multi-System":
		return NodeMultiSystem, nil
	case "Boundary":
		return NodeBoundary, nil
	default:
		return NodeInvalid, errors.New(errors.ErrCodeInvalidArgument, "unknown node type %q", s)
	}
}

// Node is the canonical, persisted representation of a diagram node.
//
// The style is referenced by name and resolved dynamically against the node
// style list, so a dangling or renamed style degrades to a default visual
// instead of invalidating the node.
//
// Exactly one of System or Multi is non-nil, matching Type; Boundary nodes
// carry neither. NewNode maintains this pairing.
type Node struct {
	ID         ID
	Name       string
	Data       string // free-form text attached to the node
	Style      string // node style name, may be empty
	X, Y       float64
	W, H       float64
	StaticSize bool // when set, the size is persisted and not auto-derived
	Type       NodeType
	Pins       []*Pin

	System *SystemInfo      // Type == NodeSystem
	Multi  *MultiSystemInfo // Type == NodeMultiSystem
}

// NewNode constructs a node of the given concrete type, allocating the
// matching payload. Returns an InvalidArgument error for NodeInvalid.
func NewNode(t NodeType, name string) (*Node, error) {
	n := &Node{ID: NewID(), Name: name, Type: t}
	switch t {
	case NodeSystem:
		n.System = &SystemInfo{}
	case NodeMultiSystem:
		n.Multi = &MultiSystemInfo{}
	case NodeBoundary:
		// no payload
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "node type must be System, Multi-System, or Boundary")
	}
	return n, nil
}

// Pin returns the pin with the given id, or nil if the node has no such pin.
func (n *Node) Pin(id ID) *Pin {
	for _, p := range n.Pins {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AddPin appends a pin to the node.
// Fails with AlreadyExists if a pin with the same id is present.
func (n *Node) AddPin(p *Pin) error {
	if n.Pin(p.ID) != nil {
		return errors.New(errors.ErrCodeAlreadyExists, "pin %s already attached to node %q", p.ID, n.Name)
	}
	n.Pins = append(n.Pins, p)
	return nil
}

// RemovePin detaches the pin with the given id.
// Fails with NotFound if the node has no such pin.
func (n *Node) RemovePin(id ID) error {
	for i, p := range n.Pins {
		if p.ID == id {
			n.Pins = slices.Delete(n.Pins, i, i+1)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "pin %s not attached to node %q", id, n.Name)
}

// Clone returns a deep copy of the node, including pins and payload.
func (n *Node) Clone() *Node {
	c := *n
	c.Pins = make([]*Pin, len(n.Pins))
	for i, p := range n.Pins {
		c.Pins[i] = p.Clone()
	}
	if n.System != nil {
		c.System = n.System.Clone()
	}
	if n.Multi != nil {
		c.Multi = n.Multi.Clone()
	}
	return &c
}

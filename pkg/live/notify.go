// Package live maintains the mutable visual graph that mirrors a workspace's
// canonical data during an editing session.
//
// The adapter (Graph) duplicates the workspace data into a working draft on
// SetWorkspace and keeps draft and visuals continuously in sync: structural
// edits (create/remove node, link, style changes) apply to both in the same
// call, while high-frequency node mutations (drag, resize, pin add/remove)
// update only the visual node and are synced back through the notification
// protocol in this file. Saving at any time therefore needs no explicit
// flush.
package live

// UpdateKind is a bitmask describing which aspects of a visual node changed
// in one mutation. Notifications carry the OR of every kind that applies.
type UpdateKind uint32

const (
	// UpdatePosition signals an on-screen move.
	UpdatePosition UpdateKind = 1 << iota
	// UpdateSize signals a resize.
	UpdateSize
	// UpdatePinAdded signals one or more pins attached.
	UpdatePinAdded
	// UpdatePinRemoved signals one or more pins detached.
	UpdatePinRemoved
	// UpdateName signals a rename.
	UpdateName
	// UpdateStyle signals a style assignment.
	UpdateStyle
	// UpdateData signals a change to the free-text payload.
	UpdateData
	// UpdateSelection signals a selection change. Selection is view state
	// and is never written back to the data model.
	UpdateSelection
)

// Has reports whether the mask contains the given kind.
func (k UpdateKind) Has(kind UpdateKind) bool { return k&kind != 0 }

// notifyFunc receives a node's change notifications. The Graph installs its
// sync handler here when it constructs the visual node.
type notifyFunc func(n *Node, mask UpdateKind)

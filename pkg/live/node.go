package live

import (
	"github.com/isochrone/isochrone/pkg/entity"
	"github.com/isochrone/isochrone/pkg/errors"
)

// Node is the visual representation of one graph node. It carries its own
// mutable on-screen state so per-frame interactions (dragging, resizing)
// never touch the data model directly; the notification handler syncs the
// final state back.
type Node struct {
	id       entity.ID
	nodeType entity.NodeType
	name     string
	style    string
	data     string
	x, y     float64
	w, h     float64
	static   bool
	selected bool
	pins     []*Pin

	notify notifyFunc
}

// ID returns the node identifier shared with the data model.
func (n *Node) ID() entity.ID { return n.id }

// Type returns the concrete node variant.
func (n *Node) Type() entity.NodeType { return n.nodeType }

// Name returns the display name.
func (n *Node) Name() string { return n.name }

// Style returns the assigned node style name.
func (n *Node) Style() string { return n.style }

// Position returns the on-screen position.
func (n *Node) Position() (x, y float64) { return n.x, n.y }

// Size returns the on-screen size.
func (n *Node) Size() (w, h float64) { return n.w, n.h }

// Selected reports whether the node is selected.
func (n *Node) Selected() bool { return n.selected }

// Pins returns the visual pins attached to the node.
func (n *Node) Pins() []*Pin { return n.pins }

// Pin returns the visual pin with the given id, or nil.
func (n *Node) Pin(id entity.ID) *Pin {
	for _, p := range n.pins {
		if p.id == id {
			return p
		}
	}
	return nil
}

// SetPosition moves the node. The data model is updated through the
// notification, not synchronously, so every-frame drag updates stay cheap.
func (n *Node) SetPosition(x, y float64) {
	n.x, n.y = x, y
	n.fire(UpdatePosition)
}

// SetSize resizes the node and marks the size as static.
func (n *Node) SetSize(w, h float64) {
	n.w, n.h = w, h
	n.static = true
	n.fire(UpdateSize)
}

// SetName renames the node.
func (n *Node) SetName(name string) {
	n.name = name
	n.fire(UpdateName)
}

// SetStyle assigns a node style by name.
func (n *Node) SetStyle(style string) {
	n.style = style
	n.fire(UpdateStyle)
}

// SetData replaces the free-text payload.
func (n *Node) SetData(data string) {
	n.data = data
	n.fire(UpdateData)
}

// SetSelected updates the selection flag. Selection is view-only state.
func (n *Node) SetSelected(selected bool) {
	n.selected = selected
	n.fire(UpdateSelection)
}

// AddPin attaches a new pin of the given type at the given relative
// position. The data model learns about it via the pin-added notification.
func (n *Node) AddPin(t entity.PinType, relX, relY float64) (*Pin, error) {
	ep, err := entity.NewPin(t, relX, relY)
	if err != nil {
		return nil, err
	}
	p := &Pin{id: ep.ID, pinType: t, relX: relX, relY: relY, host: n}
	n.pins = append(n.pins, p)
	n.fire(UpdatePinAdded)
	return p, nil
}

// RemovePin detaches the pin with the given id along with every visual link
// ending at it. Fails with NotFound for an unknown pin.
func (n *Node) RemovePin(id entity.ID) error {
	for i, p := range n.pins {
		if p.id == id {
			n.pins = append(n.pins[:i], n.pins[i+1:]...)
			n.fire(UpdatePinRemoved)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "pin %s not attached to node %q", id, n.name)
}

func (n *Node) fire(mask UpdateKind) {
	if n.notify != nil {
		n.notify(n, mask)
	}
}

// Pin is the visual representation of a connection point. Server pins hold
// the resolved service or group pointer from load time; the data model keeps
// only the name.
type Pin struct {
	id      entity.ID
	pinType entity.PinType
	name    string
	style   string
	relX    float64
	relY    float64
	host    *Node

	service *entity.Service
	group   *entity.ServiceGroup
	links   []*Link
}

// ID returns the pin identifier shared with the data model.
func (p *Pin) ID() entity.ID { return p.id }

// Type returns the pin role.
func (p *Pin) Type() entity.PinType { return p.pinType }

// Name returns the optional display name.
func (p *Pin) Name() string { return p.name }

// Style returns the assigned pin style name.
func (p *Pin) Style() string { return p.style }

// RelativePosition returns the pin's position on the host's unit square.
func (p *Pin) RelativePosition() (x, y float64) { return p.relX, p.relY }

// Host returns the visual node the pin is attached to.
func (p *Pin) Host() *Node { return p.host }

// Service returns the resolved service, or nil for client/connector pins
// and group-bound pins.
func (p *Pin) Service() *entity.Service { return p.service }

// Group returns the resolved service group, or nil.
func (p *Pin) Group() *entity.ServiceGroup { return p.group }

// Links returns the visual links ending at this pin.
func (p *Pin) Links() []*Link { return p.links }

// SetStyle assigns a pin style by name. Pin style changes go through the
// host node's notification like other pin mutations.
func (p *Pin) SetStyle(style string) {
	p.style = style
	p.host.fire(UpdateStyle)
}

// SetRelativePosition moves the pin along the host's edge.
// Fails with InvalidArgument for positions off the unit-square boundary.
func (p *Pin) SetRelativePosition(x, y float64) error {
	if !entity.IsValidRelativePosition(x, y) {
		return errors.New(errors.ErrCodeInvalidArgument, "relative position (%v, %v) is not on the node edge", x, y)
	}
	p.relX, p.relY = x, y
	p.host.fire(UpdatePinAdded | UpdatePinRemoved)
	return nil
}

func (p *Pin) attachLink(l *Link) {
	p.links = append(p.links, l)
}

func (p *Pin) detachLink(id entity.ID) {
	for i, l := range p.links {
		if l.id == id {
			p.links = append(p.links[:i], p.links[i+1:]...)
			return
		}
	}
}

// Link is the visual representation of a connection between two pins.
type Link struct {
	id     entity.ID
	source *Pin
	target *Pin
	text   string
}

// ID returns the link identifier shared with the data model.
func (l *Link) ID() entity.ID { return l.id }

// Source returns the source pin.
func (l *Link) Source() *Pin { return l.source }

// Target returns the target pin.
func (l *Link) Target() *Pin { return l.target }

// Text returns the display label.
func (l *Link) Text() string { return l.text }

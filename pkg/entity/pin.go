package entity

import (
	"github.com/isochrone/isochrone/pkg/errors"
)

// PinType identifies the role of a connection point.
// The zero value is invalid: a pin must be constructed with one of the three
// concrete types, and NewPin rejects anything else.
type PinType int

const (
	// PinInvalid is the unusable zero value.
	PinInvalid PinType = iota
	// PinServer accepts connections and is bound to a service or service group.
	PinServer
	// PinClient initiates connections to server pins.
	PinClient
	// PinConnector joins boundary-crossing segments; connectors only link to connectors.
	PinConnector
)

// String returns the wire-format name of the pin type.
func (t PinType) String() string {
	switch t {
	case PinServer:
		return "Server"
	case PinClient:
		return "Client"
	case PinConnector:
		return "Connector"
	default:
		return "Invalid"
	}
}

// ParsePinType converts a wire-format name to a PinType.
// Returns an InvalidArgument error for unknown names.
func ParsePinType(s string) (PinType, error) {
	switch s {
	case "Server":
		return PinServer, nil
	case "Client":
		return PinClient, nil
	case "Connector":
		return PinConnector, nil
	default:
		return PinInvalid, errors.New(errors.ErrCodeInvalidArgument, "unknown pin type %q", s)
	}
}

// Pin is a typed connection point attached to one edge of its host node.
//
// The relative position (RelX, RelY) is expressed in the host node's unit
// square and must lie on the square's boundary; see IsValidRelativePosition.
//
// Server pins reference exactly one of a service or a service group, by name.
// The names are resolved dynamically against the workspace's service lists so
// that the persisted file stays human-readable.
type Pin struct {
	ID    ID
	Name  string // optional display name
	Style string // pin style name, resolved against the pin style list
	Type  PinType
	RelX  float64
	RelY  float64

	// Service and Group are mutually exclusive and only meaningful on
	// PinServer pins.
	Service string
	Group   string
}

// NewPin constructs a pin of the given type at the given relative position.
// It returns an InvalidArgument error if the type is not one of the three
// concrete variants or the position does not lie on the unit-square boundary.
// Constructing an invalid pin is a programming error, never a recoverable
// runtime condition.
func NewPin(t PinType, relX, relY float64) (*Pin, error) {
	if t != PinServer && t != PinClient && t != PinConnector {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "pin type must be Server, Client, or Connector")
	}
	if !IsValidRelativePosition(relX, relY) {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "relative position (%v, %v) is not on the node edge", relX, relY)
	}
	return &Pin{ID: NewID(), Type: t, RelX: relX, RelY: relY}, nil
}

// BindService binds a server pin to a service by name.
// Fails with InvalidArgument on non-server pins or when a group is already bound.
func (p *Pin) BindService(name string) error {
	if p.Type != PinServer {
		return errors.New(errors.ErrCodeInvalidArgument, "only server pins reference services")
	}
	if p.Group != "" {
		return errors.New(errors.ErrCodeInvalidArgument, "pin already references service group %q", p.Group)
	}
	p.Service = name
	return nil
}

// BindServiceGroup binds a server pin to a service group by name.
// Fails with InvalidArgument on non-server pins or when a service is already bound.
func (p *Pin) BindServiceGroup(name string) error {
	if p.Type != PinServer {
		return errors.New(errors.ErrCodeInvalidArgument, "only server pins reference service groups")
	}
	if p.Service != "" {
		return errors.New(errors.ErrCodeInvalidArgument, "pin already references service %q", p.Service)
	}
	p.Group = name
	return nil
}

// Clone returns a deep copy of the pin.
func (p *Pin) Clone() *Pin {
	c := *p
	return &c
}

// IsValidRelativePosition reports whether (x, y) is a legal pin position:
// both coordinates in [0, 1] and the point on the unit square's boundary.
// A strictly interior x requires y to be exactly 0 or 1, and vice versa.
// This models "attached to one of the four node edges".
func IsValidRelativePosition(x, y float64) bool {
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return false
	}
	onVertical := x == 0 || x == 1
	onHorizontal := y == 0 || y == 1
	return onVertical || onHorizontal
}

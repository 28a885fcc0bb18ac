package entity

import (
	"github.com/isochrone/isochrone/pkg/errors"
)

// Link is a connection between two pins. Links are undirected in storage, but
// the source/target order from creation time is preserved.
//
// The display text offset is persisted only when Text is non-empty: a link
// with empty text loses its offset on save. This is an intentional, lossy
// simplification of the file format.
type Link struct {
	ID     ID
	Source ID // source pin id
	Target ID // target pin id
	Text   string
	TextX  float64
	TextY  float64
}

// NewLink constructs a link between two pins. The endpoint type rules are
// validated by ValidateLinkEndpoints at insertion time, not here, because the
// pin types live with the nodes.
func NewLink(source, target ID) (*Link, error) {
	if source.IsNil() || target.IsNil() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "link endpoints must be set")
	}
	if source == target {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "link cannot connect a pin to itself")
	}
	return &Link{ID: NewID(), Source: source, Target: target}, nil
}

// Clone returns a deep copy of the link.
func (l *Link) Clone() *Link {
	c := *l
	return &c
}

// ValidateLinkEndpoints checks the pin-type pairing rules applied when a link
// is inserted into a workspace:
//
//   - a Client connects only to a Server (in either order)
//   - a Connector connects only to another Connector
//
// Every other combination is rejected with InvalidArgument.
func ValidateLinkEndpoints(source, target PinType) error {
	switch {
	case source == PinClient && target == PinServer:
		return nil
	case source == PinServer && target == PinClient:
		return nil
	case source == PinConnector && target == PinConnector:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "cannot link %s pin to %s pin", source, target)
	}
}

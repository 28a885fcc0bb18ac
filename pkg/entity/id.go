// Package entity defines the value types that make up a workspace diagram:
// nodes, pins, links, services, and service groups.
//
// Every entity carries a 128-bit identifier. Equality and ordering of entities
// are defined purely on the identifier, which makes them usable as map and set
// keys throughout the workspace engine. Service and service-group identifiers
// are process-lifetime only: the persistence engine regenerates them on every
// load and never writes them to disk.
package entity

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/isochrone/isochrone/pkg/errors"
)

// ID is a 128-bit entity identifier. The zero value (all zero bytes) is the
// reserved "blank" identifier meaning unset.
//
// ID is a comparable value type and can be used directly as a map key.
type ID uuid.UUID

// NilID is the reserved blank identifier.
var NilID ID

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses the canonical string form of an identifier.
// Returns an InvalidArgument error for malformed input.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid id %q", s)
	}
	return ID(u), nil
}

// String returns the canonical lowercase-hex form of the identifier.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the identifier is the reserved blank value.
func (id ID) IsNil() bool {
	return id == NilID
}

// Less reports whether id orders strictly before other under byte comparison.
// This is the ordering used wherever identifiers act as sorted-set keys.
func (id ID) Less(other ID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

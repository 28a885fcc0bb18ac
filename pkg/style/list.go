package style

import (
	"slices"

	"github.com/isochrone/isochrone/pkg/config"
	"github.com/isochrone/isochrone/pkg/errors"
)

// Entry is one named style in a List.
type Entry[T any] struct {
	Name  string
	Style T
}

// List is an ordered collection of named styles. Insertion order is the UI
// presentation order, which is why this is a slice and not a map; duplicate
// names are rejected at insertion.
//
// Names carrying the reserved prefix from the configuration table are
// inbuilt: they are created programmatically, never persisted, and cannot be
// added, removed, or renamed through the public operations.
//
// The in-use check for removal lives with the workspace data container, which
// owns the referencing entities; List itself only enforces name rules.
type List[T any] struct {
	cfg     *config.Config
	entries []Entry[T]
}

// NewList creates an empty list bound to the given defaults table.
func NewList[T any](cfg *config.Config) *List[T] {
	return &List[T]{cfg: cfg}
}

// addReserved installs an inbuilt style, bypassing the reserved-name denial.
// Only the default-style constructors use it.
func (l *List[T]) addReserved(name string, s T) {
	if l.index(name) >= 0 {
		return
	}
	l.entries = append(l.entries, Entry[T]{Name: name, Style: s})
}

// Add appends a named style.
// Fails with AccessDenied for reserved-prefixed names and AlreadyExists for
// duplicates (case-sensitive exact match).
func (l *List[T]) Add(name string, s T) error {
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}
	if l.cfg.IsReservedStyle(name) {
		return errors.New(errors.ErrCodeAccessDenied, "style name %q uses the reserved prefix", name)
	}
	if l.index(name) >= 0 {
		return errors.New(errors.ErrCodeAlreadyExists, "style %q already exists", name)
	}
	l.entries = append(l.entries, Entry[T]{Name: name, Style: s})
	return nil
}

// Remove deletes a named style.
// Fails with AccessDenied for reserved names (inbuilt styles are permanent)
// and NotFound for missing names.
func (l *List[T]) Remove(name string) error {
	if l.cfg.IsReservedStyle(name) {
		return errors.New(errors.ErrCodeAccessDenied, "style %q is inbuilt and cannot be removed", name)
	}
	i := l.index(name)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "style %q not found", name)
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return nil
}

// Rename updates a style's key in place. It does not touch the name strings
// stored by referencing entities: lookups by the old name become NotFound
// until those references are separately updated.
//
// Fails with AccessDenied when either name is reserved, NotFound for a
// missing old name, and AlreadyExists for a taken new name.
func (l *List[T]) Rename(oldName, newName string) error {
	if l.cfg.IsReservedStyle(oldName) || l.cfg.IsReservedStyle(newName) {
		return errors.New(errors.ErrCodeAccessDenied, "reserved styles cannot be renamed")
	}
	if err := errors.ValidateEntityName(newName); err != nil {
		return err
	}
	i := l.index(oldName)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "style %q not found", oldName)
	}
	if l.index(newName) >= 0 {
		return errors.New(errors.ErrCodeAlreadyExists, "style %q already exists", newName)
	}
	l.entries[i].Name = newName
	return nil
}

// Get looks up a style by name.
//
// A missing non-reserved name is an ordinary NotFound: the caller falls back
// to a default visual. A missing reserved name means the inbuilt defaults
// were not installed, which is an internal invariant violation; rather than
// failing, Get degrades to the first available entry.
func (l *List[T]) Get(name string) (T, error) {
	if i := l.index(name); i >= 0 {
		return l.entries[i].Style, nil
	}
	var zero T
	if l.cfg.IsReservedStyle(name) && len(l.entries) > 0 {
		return l.entries[0].Style, nil
	}
	return zero, errors.New(errors.ErrCodeNotFound, "style %q not found", name)
}

// Has reports whether a style with the exact name exists.
func (l *List[T]) Has(name string) bool {
	return l.index(name) >= 0
}

// Names returns the style names in presentation order.
func (l *List[T]) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in presentation order.
func (l *List[T]) Entries() []Entry[T] {
	return slices.Clone(l.entries)
}

// Len returns the number of styles.
func (l *List[T]) Len() int { return len(l.entries) }

// IsReserved reports whether name carries the reserved prefix.
func (l *List[T]) IsReserved(name string) bool {
	return l.cfg.IsReservedStyle(name)
}

// Clone returns an independent copy of the list.
func (l *List[T]) Clone() *List[T] {
	return &List[T]{cfg: l.cfg, entries: slices.Clone(l.entries)}
}

func (l *List[T]) index(name string) int {
	for i, e := range l.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

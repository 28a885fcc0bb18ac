package entity

import (
	"testing"
)

func mustPin(t *testing.T, typ PinType) *Pin {
	t.Helper()
	p, err := NewPin(typ, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDiffPins(t *testing.T) {
	a := mustPin(t, PinServer)
	b := mustPin(t, PinClient)
	c := mustPin(t, PinConnector)

	tests := []struct {
		name        string
		prev, next  []*Pin
		wantAdded   []*Pin
		wantRemoved []*Pin
	}{
		{"BothEmpty", nil, nil, nil, nil},
		{"NoChange", []*Pin{a, b}, []*Pin{a, b}, nil, nil},
		{"OneAdded", []*Pin{a}, []*Pin{a, b}, []*Pin{b}, nil},
		{"OneRemoved", []*Pin{a, b}, []*Pin{a}, nil, []*Pin{b}},
		{"AddAndRemove", []*Pin{a, b}, []*Pin{b, c}, []*Pin{c}, []*Pin{a}},
		{"AllReplaced", []*Pin{a}, []*Pin{b, c}, []*Pin{b, c}, []*Pin{a}},
		{"ReorderOnly", []*Pin{a, b, c}, []*Pin{c, a, b}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := DiffPins(tt.prev, tt.next)
			if !samePins(added, tt.wantAdded) {
				t.Errorf("added = %v, want %v", pinIDs(added), pinIDs(tt.wantAdded))
			}
			if !samePins(removed, tt.wantRemoved) {
				t.Errorf("removed = %v, want %v", pinIDs(removed), pinIDs(tt.wantRemoved))
			}
		})
	}
}

func TestDiffPinsIgnoresFieldChanges(t *testing.T) {
	p := mustPin(t, PinServer)
	changed := p.Clone()
	changed.Name = "renamed"

	added, removed := DiffPins([]*Pin{p}, []*Pin{changed})
	if len(added) != 0 || len(removed) != 0 {
		t.Errorf("field-only change reported: added=%d removed=%d", len(added), len(removed))
	}
}

func samePins(got, want []*Pin) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].ID != want[i].ID {
			return false
		}
	}
	return true
}

func pinIDs(pins []*Pin) []string {
	ids := make([]string, len(pins))
	for i, p := range pins {
		ids[i] = p.ID.String()
	}
	return ids
}

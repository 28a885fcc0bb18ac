package entity

import (
	"testing"

	"github.com/isochrone/isochrone/pkg/errors"
)

func TestIsValidRelativePosition(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"TopLeftCorner", 0, 0, true},
		{"BottomRightCorner", 1, 1, true},
		{"LeftEdge", 0, 0.5, true},
		{"RightEdge", 1, 0.25, true},
		{"TopEdge", 0.7, 0, true},
		{"BottomEdge", 0.3, 1, true},
		{"Interior", 0.5, 0.5, false},
		{"InteriorNearEdge", 0.001, 0.999, false},
		{"OutsideX", 1.5, 0, false},
		{"OutsideY", 0, -0.1, false},
		{"OutsideBoth", 2, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidRelativePosition(tt.x, tt.y); got != tt.want {
				t.Errorf("IsValidRelativePosition(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestIsValidRelativePositionInteriorGrid(t *testing.T) {
	// Every strictly interior point must be rejected.
	for x := 0.1; x < 1; x += 0.1 {
		for y := 0.1; y < 1; y += 0.1 {
			if IsValidRelativePosition(x, y) {
				t.Errorf("interior point (%v, %v) accepted", x, y)
			}
		}
	}
	// Every point with one coordinate pinned to an edge must be accepted.
	for v := 0.0; v <= 1; v += 0.1 {
		for _, edge := range []float64{0, 1} {
			if !IsValidRelativePosition(edge, v) {
				t.Errorf("edge point (%v, %v) rejected", edge, v)
			}
			if !IsValidRelativePosition(v, edge) {
				t.Errorf("edge point (%v, %v) rejected", v, edge)
			}
		}
	}
}

func TestNewPin(t *testing.T) {
	tests := []struct {
		name    string
		typ     PinType
		x, y    float64
		wantErr bool
	}{
		{"Server", PinServer, 0, 0.5, false},
		{"Client", PinClient, 1, 0, false},
		{"Connector", PinConnector, 0.5, 1, false},
		{"InvalidType", PinInvalid, 0, 0, true},
		{"UnknownType", PinType(42), 0, 0, true},
		{"InteriorPosition", PinServer, 0.5, 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPin(tt.typ, tt.x, tt.y)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPin error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidArgument) {
					t.Errorf("code = %q, want INVALID_ARGUMENT", errors.GetCode(err))
				}
				return
			}
			if p.ID.IsNil() {
				t.Error("pin id is blank")
			}
			if p.Type != tt.typ {
				t.Errorf("type = %v, want %v", p.Type, tt.typ)
			}
		})
	}
}

func TestBindService(t *testing.T) {
	p, err := NewPin(PinServer, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.BindService("HTTP"); err != nil {
		t.Fatalf("BindService: %v", err)
	}
	if p.Service != "HTTP" {
		t.Errorf("service = %q, want HTTP", p.Service)
	}

	// Group on a pin that already has a service must be rejected.
	if err := p.BindServiceGroup("Web"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("BindServiceGroup on bound pin: %v", err)
	}
}

func TestBindServiceGroupExclusive(t *testing.T) {
	p, err := NewPin(PinServer, 1, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.BindServiceGroup("Web"); err != nil {
		t.Fatalf("BindServiceGroup: %v", err)
	}
	if err := p.BindService("HTTP"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("BindService on grouped pin: %v", err)
	}
}

func TestBindServiceNonServer(t *testing.T) {
	p, err := NewPin(PinClient, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.BindService("HTTP"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("BindService on client pin: %v", err)
	}
	if err := p.BindServiceGroup("Web"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("BindServiceGroup on client pin: %v", err)
	}
}

func TestParsePinType(t *testing.T) {
	tests := []struct {
		input   string
		want    PinType
		wantErr bool
	}{
		{"Server", PinServer, false},
		{"Client", PinClient, false},
		{"Connector", PinConnector, false},
		{"Invalid", PinInvalid, true},
		{"server", PinInvalid, true},
		{"", PinInvalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePinType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePinType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePinType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPinTypeStringRoundTrip(t *testing.T) {
	for _, typ := range []PinType{PinServer, PinClient, PinConnector} {
		back, err := ParsePinType(typ.String())
		if err != nil {
			t.Fatalf("ParsePinType(%q): %v", typ.String(), err)
		}
		if back != typ {
			t.Errorf("round trip %v = %v", typ, back)
		}
	}
}

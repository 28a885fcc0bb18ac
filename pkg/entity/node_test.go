package entity

import (
	"testing"

	"github.com/isochrone/isochrone/pkg/errors"
)

func TestNewNodePayloads(t *testing.T) {
	tests := []struct {
		name       string
		typ        NodeType
		wantSystem bool
		wantMulti  bool
		wantErr    bool
	}{
		{"System", NodeSystem, true, false, false},
		{"MultiSystem", NodeMultiSystem, false, true, false},
		{"Boundary", NodeBoundary, false, false, false},
		{"Invalid", NodeInvalid, false, false, true},
		{"Unknown", NodeType(9), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNode(tt.typ, "n")
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewNode error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (n.System != nil) != tt.wantSystem {
				t.Errorf("System payload = %v, want %v", n.System != nil, tt.wantSystem)
			}
			if (n.Multi != nil) != tt.wantMulti {
				t.Errorf("Multi payload = %v, want %v", n.Multi != nil, tt.wantMulti)
			}
		})
	}
}

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		input   string
		want    NodeType
		wantErr bool
	}{
		{"System", NodeSystem, false},
		{"Multi-System", NodeMultiSystem, false},
		{"Boundary", NodeBoundary, false},
		{"MultiSystem", NodeInvalid, true},
		{"system", NodeInvalid, true},
		{"", NodeInvalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNodeType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNodeType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseNodeType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNodePinManagement(t *testing.T) {
	n, err := NewNode(NodeSystem, "Host-A")
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPin(PinServer, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	if err := n.AddPin(p); err != nil {
		t.Fatalf("AddPin: %v", err)
	}
	if n.Pin(p.ID) == nil {
		t.Fatal("pin not found after add")
	}

	if err := n.AddPin(p); !errors.Is(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("duplicate AddPin error = %v", err)
	}

	if err := n.RemovePin(p.ID); err != nil {
		t.Fatalf("RemovePin: %v", err)
	}
	if err := n.RemovePin(p.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second RemovePin error = %v", err)
	}
}

func TestNodeClone(t *testing.T) {
	n, err := NewNode(NodeSystem, "Host-A")
	if err != nil {
		t.Fatal(err)
	}
	n.System.CPUs = append(n.System.CPUs, CPU{Model: "EPYC"})
	n.System.Interfaces = append(n.System.Interfaces, NetworkInterface{
		Name:      "eth0",
		Addresses: []string{"10.0.0.1"},
	})
	p, _ := NewPin(PinClient, 1, 0.5)
	n.Pins = append(n.Pins, p)

	c := n.Clone()
	c.System.CPUs[0].Model = "Xeon"
	c.System.Interfaces[0].Addresses[0] = "10.0.0.2"
	c.Pins[0].Name = "renamed"

	if n.System.CPUs[0].Model != "EPYC" {
		t.Error("clone shares CPU slice")
	}
	if n.System.Interfaces[0].Addresses[0] != "10.0.0.1" {
		t.Error("clone shares interface addresses")
	}
	if n.Pins[0].Name != "" {
		t.Error("clone shares pins")
	}
}

func TestValidAddressFormats(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		input string
		want  bool
	}{
		{"IPv4", ValidIP, "192.168.1.10", true},
		{"IPv6", ValidIP, "fe80::1", true},
		{"BadIP", ValidIP, "192.168.1.300", false},
		{"Hostname", ValidIP, "example.com", false},
		{"CIDR", ValidSubnet, "10.0.0.0/24", true},
		{"BadCIDR", ValidSubnet, "10.0.0.0/33", false},
		{"MAC", ValidMAC, "00:1a:2b:3c:4d:5e", true},
		{"BadMAC", ValidMAC, "00:1a:2b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.input); got != tt.want {
				t.Errorf("%s(%q) = %v, want %v", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

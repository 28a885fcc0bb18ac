package entity

import (
	"testing"

	"github.com/isochrone/isochrone/pkg/errors"
)

func TestSanitizeServiceName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Clean", "HTTP", "HTTP"},
		{"SingleSeparator", "HTTP;S", "HTTP_S"},
		{"ManySeparators", ";a;b;", "_a_b_"},
		{"OnlySeparator", ";", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeServiceName(tt.input); got != tt.want {
				t.Errorf("SanitizeServiceName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewService(t *testing.T) {
	s, err := NewService("HTTP", ProtocolTCP)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if s.ID.IsNil() {
		t.Error("service id is blank")
	}
	if s.Name != "HTTP" {
		t.Errorf("name = %q", s.Name)
	}
}

func TestNewServiceSanitizesBeforeValidation(t *testing.T) {
	s, err := NewService("DNS;alt", ProtocolUDP)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if s.Name != "DNS_alt" {
		t.Errorf("name = %q, want DNS_alt", s.Name)
	}
}

func TestNewServiceInvalid(t *testing.T) {
	if _, err := NewService("", ProtocolTCP); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("empty name error = %v", err)
	}
	if _, err := NewService("HTTP", ProtocolInvalid); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("invalid protocol error = %v", err)
	}
}

func TestClampNumericFields(t *testing.T) {
	tests := []struct {
		name         string
		svc          Service
		wantAdjusted bool
		wantPort     int
		wantPortHigh int
		wantType     int
		wantCode     int
	}{
		{
			name:         "ValidTCPRange",
			svc:          Service{Protocol: ProtocolTCP, Port: 8000, PortHigh: 8080},
			wantAdjusted: false,
			wantPort:     8000,
			wantPortHigh: 8080,
		},
		{
			name:         "PortOutOfRange",
			svc:          Service{Protocol: ProtocolTCP, Port: 70000, PortHigh: 70001},
			wantAdjusted: true,
			wantPort:     0,
			wantPortHigh: 0,
		},
		{
			name:         "HighBelowLowCollapses",
			svc:          Service{Protocol: ProtocolUDP, Port: 500, PortHigh: 100},
			wantAdjusted: true,
			wantPort:     500,
			wantPortHigh: 500,
		},
		{
			name:         "NegativePort",
			svc:          Service{Protocol: ProtocolTCP, Port: -1, PortHigh: -1},
			wantAdjusted: true,
			wantPort:     0,
			wantPortHigh: 0,
		},
		{
			name:         "ICMPValid",
			svc:          Service{Protocol: ProtocolICMP, ICMPType: 8, ICMPCode: 0},
			wantAdjusted: false,
			wantType:     8,
		},
		{
			name:         "ICMPTypeOutOfRange",
			svc:          Service{Protocol: ProtocolICMP, ICMPType: 300, ICMPCode: 5},
			wantAdjusted: true,
			wantType:     0,
			wantCode:     5,
		},
		{
			name:         "ICMPCodeNegative",
			svc:          Service{Protocol: ProtocolICMP, ICMPType: 3, ICMPCode: -2},
			wantAdjusted: true,
			wantType:     3,
			wantCode:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := tt.svc
			adjusted := svc.ClampNumericFields()
			if adjusted != tt.wantAdjusted {
				t.Errorf("adjusted = %v, want %v", adjusted, tt.wantAdjusted)
			}
			if svc.Port != tt.wantPort || svc.PortHigh != tt.wantPortHigh {
				t.Errorf("ports = (%d, %d), want (%d, %d)", svc.Port, svc.PortHigh, tt.wantPort, tt.wantPortHigh)
			}
			if svc.ICMPType != tt.wantType || svc.ICMPCode != tt.wantCode {
				t.Errorf("icmp = (%d, %d), want (%d, %d)", svc.ICMPType, svc.ICMPCode, tt.wantType, tt.wantCode)
			}
		})
	}
}

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		input   string
		want    Protocol
		wantErr bool
	}{
		{"tcp", ProtocolTCP, false},
		{"udp", ProtocolUDP, false},
		{"icmp", ProtocolICMP, false},
		{"TCP", ProtocolInvalid, true},
		{"", ProtocolInvalid, true},
		{"sctp", ProtocolInvalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProtocol(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProtocol(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseProtocol(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestServiceGroupClone(t *testing.T) {
	g, err := NewServiceGroup("Web")
	if err != nil {
		t.Fatal(err)
	}
	g.Services = []string{"HTTP", "HTTPS"}

	c := g.Clone()
	c.Services[0] = "FTP"
	if g.Services[0] != "HTTP" {
		t.Error("clone shares the member slice")
	}
}

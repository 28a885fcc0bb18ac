package entity

import (
	"strings"

	"github.com/isochrone/isochrone/pkg/errors"
)

// Protocol identifies the transport of a service definition.
type Protocol int

const (
	// ProtocolInvalid is the unusable zero value.
	ProtocolInvalid Protocol = iota
	// ProtocolTCP carries a port and an optional inclusive upper port.
	ProtocolTCP
	// ProtocolUDP carries a port and an optional inclusive upper port.
	ProtocolUDP
	// ProtocolICMP carries an ICMP type and code instead of ports.
	ProtocolICMP
)

// String returns the wire-format name of the protocol.
func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "tcp"
	case ProtocolUDP:
		return "udp"
	case ProtocolICMP:
		return "icmp"
	default:
		return "invalid"
	}
}

// ParseProtocol converts a wire-format name to a Protocol.
// Returns an InvalidArgument error for unknown names.
func ParseProtocol(s string) (Protocol, error) {
	switch s {
	case "tcp":
		return ProtocolTCP, nil
	case "udp":
		return ProtocolUDP, nil
	case "icmp":
		return ProtocolICMP, nil
	default:
		return ProtocolInvalid, errors.New(errors.ErrCodeInvalidArgument, "unknown protocol %q", s)
	}
}

// Service is a named network service definition.
//
// The ID exists only for O(1) lookup during the process lifetime; it is never
// persisted, and a fresh one is generated on every load. Uniqueness within a
// workspace is by Name.
//
// For tcp/udp, Port and PortHigh form an optional inclusive range
// (PortHigh == Port means a single port). For icmp, ICMPType and ICMPCode
// apply instead and the port fields are meaningless.
type Service struct {
	ID       ID
	Name     string
	Comment  string
	Protocol Protocol
	Port     int
	PortHigh int
	ICMPType int
	ICMPCode int
}

// ServiceNameSeparator is the field separator used when service names are
// joined into a single attribute value. Names must never contain it.
const ServiceNameSeparator = ";"

// SanitizeServiceName replaces every occurrence of the field separator with
// an underscore. It is applied before any uniqueness check.
func SanitizeServiceName(name string) string {
	return strings.ReplaceAll(name, ServiceNameSeparator, "_")
}

// NewService constructs a service with a fresh runtime identifier and a
// sanitized name. Out-of-range numeric fields are clamped by the caller
// (the persistence engine logs and resets; the API layer rejects).
func NewService(name string, protocol Protocol) (*Service, error) {
	name = SanitizeServiceName(name)
	if err := errors.ValidateEntityName(name); err != nil {
		return nil, err
	}
	if protocol != ProtocolTCP && protocol != ProtocolUDP && protocol != ProtocolICMP {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "protocol must be tcp, udp, or icmp")
	}
	return &Service{ID: NewID(), Name: name, Protocol: protocol}, nil
}

// ClampNumericFields resets out-of-range numeric fields to safe defaults and
// reports whether anything was adjusted. Ports outside 1..65535 become 0,
// a PortHigh below Port collapses to Port, and ICMP type/code outside 0..255
// become 0. The persistence engine calls this instead of rejecting a service.
func (s *Service) ClampNumericFields() bool {
	adjusted := false
	switch s.Protocol {
	case ProtocolTCP, ProtocolUDP:
		if s.Port < 1 || s.Port > 65535 {
			if s.Port != 0 {
				adjusted = true
			}
			s.Port = 0
		}
		if s.PortHigh < s.Port || s.PortHigh > 65535 {
			if s.PortHigh != s.Port {
				adjusted = true
			}
			s.PortHigh = s.Port
		}
		if s.ICMPType != 0 || s.ICMPCode != 0 {
			s.ICMPType, s.ICMPCode = 0, 0
			adjusted = true
		}
	case ProtocolICMP:
		if s.ICMPType < 0 || s.ICMPType > 255 {
			s.ICMPType = 0
			adjusted = true
		}
		if s.ICMPCode < 0 || s.ICMPCode > 255 {
			s.ICMPCode = 0
			adjusted = true
		}
		if s.Port != 0 || s.PortHigh != 0 {
			s.Port, s.PortHigh = 0, 0
			adjusted = true
		}
	}
	return adjusted
}

// Clone returns a deep copy of the service.
func (s *Service) Clone() *Service {
	c := *s
	return &c
}

// ServiceGroup is a named, ordered collection of service names.
//
// Members are stored as names, not ids, to keep the persisted file
// human-readable. Every member must resolve to an existing service when the
// group is added to a workspace. The ID is runtime-only, like Service.ID.
type ServiceGroup struct {
	ID       ID
	Name     string
	Comment  string
	Services []string
}

// NewServiceGroup constructs a group with a fresh runtime identifier and a
// sanitized name.
func NewServiceGroup(name string) (*ServiceGroup, error) {
	name = SanitizeServiceName(name)
	if err := errors.ValidateEntityName(name); err != nil {
		return nil, err
	}
	return &ServiceGroup{ID: NewID(), Name: name}, nil
}

// Clone returns a deep copy of the group.
func (g *ServiceGroup) Clone() *ServiceGroup {
	c := *g
	c.Services = append([]string(nil), g.Services...)
	return &c
}

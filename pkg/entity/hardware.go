package entity

import (
	"net"
	"slices"
)

// SystemInfo is the hardware inventory payload of a System node.
//
// All fields are free text by design: inventory data arrives from humans and
// from scraping tools of wildly varying quality, and the only validation worth
// doing is the IP/MAC format checks on network interfaces.
type SystemInfo struct {
	CPUs        []CPU
	DIMMs       []DIMM
	Disks       []Disk
	GPUs        []GPU
	PSUs        []PSU
	Motherboard Motherboard
	OS          OperatingSystem
	Interfaces  []NetworkInterface
}

// CPU describes one processor.
type CPU struct {
	Model string
	Cores string
	Speed string
}

// DIMM describes one memory module.
type DIMM struct {
	Model string
	Size  string
	Speed string
}

// Disk describes one storage device.
type Disk struct {
	Model string
	Size  string
}

// GPU describes one graphics device.
type GPU struct {
	Model  string
	Memory string
}

// PSU describes one power supply.
type PSU struct {
	Model string
	Watts string
}

// Motherboard describes the single motherboard of a system.
type Motherboard struct {
	Manufacturer string
	Model        string
	BIOS         string
}

// OperatingSystem describes the single installed operating system.
type OperatingSystem struct {
	Name    string
	Version string
	Kernel  string
}

// NetworkInterface describes one network interface with its addresses.
// MAC and Addresses are format-checked (see ValidMAC, ValidIP) but otherwise
// free text like the rest of the inventory.
type NetworkInterface struct {
	Name        string
	MAC         string
	Addresses   []string
	Nameservers []string
}

// Clone returns a deep copy of the interface.
func (i NetworkInterface) Clone() NetworkInterface {
	i.Addresses = slices.Clone(i.Addresses)
	i.Nameservers = slices.Clone(i.Nameservers)
	return i
}

// Clone returns a deep copy of the inventory.
func (s *SystemInfo) Clone() *SystemInfo {
	c := *s
	c.CPUs = slices.Clone(s.CPUs)
	c.DIMMs = slices.Clone(s.DIMMs)
	c.Disks = slices.Clone(s.Disks)
	c.GPUs = slices.Clone(s.GPUs)
	c.PSUs = slices.Clone(s.PSUs)
	c.Interfaces = make([]NetworkInterface, len(s.Interfaces))
	for i, ni := range s.Interfaces {
		c.Interfaces[i] = ni.Clone()
	}
	return &c
}

// MultiSystemInfo is the payload of a Multi-System node: a collection of
// systems identified by name or address rather than modeled individually.
type MultiSystemInfo struct {
	Hostnames []string
	IPs       []string
	IPRanges  []string
	Subnets   []string
}

// Clone returns a deep copy of the payload.
func (m *MultiSystemInfo) Clone() *MultiSystemInfo {
	c := *m
	c.Hostnames = slices.Clone(m.Hostnames)
	c.IPs = slices.Clone(m.IPs)
	c.IPRanges = slices.Clone(m.IPRanges)
	c.Subnets = slices.Clone(m.Subnets)
	return &c
}

// ValidIP reports whether s parses as an IPv4 or IPv6 address.
func ValidIP(s string) bool {
	return net.ParseIP(s) != nil
}

// ValidSubnet reports whether s parses as CIDR notation.
func ValidSubnet(s string) bool {
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

// ValidMAC reports whether s parses as a hardware address.
func ValidMAC(s string) bool {
	_, err := net.ParseMAC(s)
	return err == nil
}

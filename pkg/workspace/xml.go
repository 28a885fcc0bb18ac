package workspace

import (
	"context"
	"encoding/xml"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/isochrone/isochrone/pkg/config"
	"github.com/isochrone/isochrone/pkg/entity"
	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/observability"
	"github.com/isochrone/isochrone/pkg/style"
)

// VersionV1 is the dispatch key of the only file-format version currently in
// existence. The version attribute is a UUID, not a number, so new formats
// can be introduced without implying an ordering.
const VersionV1 = "60e18b8b-b4af-4065-af5e-a17c9cb73a41"

// versionLoaders maps a format-version UUID to its loader. Unknown versions
// fail Load with InvalidArgument; this table is the forward-compatibility
// seam for future formats.
var versionLoaders = map[string]func(*loader, *xmlWorkspace){
	VersionV1: (*loader).loadV1,
}

// =============================================================================
// Wire structures
// =============================================================================

// Numeric attributes are declared as strings and converted by hand. The
// stock decoder aborts the whole document on the first failed field
// conversion; parsing manually keeps a malformed element's blast radius to
// that one element.

type xmlWorkspace struct {
	XMLName  xml.Name          `xml:"workspace"`
	Version  string            `xml:"version,attr"`
	ID       string            `xml:"id,attr"`
	Name     string            `xml:"name,attr"`
	Nodes    []xmlNode         `xml:"nodes>node"`
	Links    []xmlLink         `xml:"links>link"`
	Styles   []xmlNodeStyle    `xml:"node_styles>style"`
	PStyles  []xmlPinStyle     `xml:"pin_styles>style"`
	Services []xmlService      `xml:"services>service"`
	Groups   []xmlServiceGroup `xml:"service_groups>group"`
	Settings []xmlSetting      `xml:"settings>setting"`
}

type xmlNode struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name,attr"`
	Type     string       `xml:"type,attr"`
	Style    string       `xml:"style,attr,omitempty"`
	Position *xmlIntPoint `xml:"position"`
	Size     *xmlIntSize  `xml:"size"`
	Pins     []xmlPin     `xml:"pins>pin"`
	Data     string       `xml:"data,omitempty"`
	System   *xmlSystem   `xml:"system"`
	Elements *xmlElements `xml:"elements"`
}

type xmlIntPoint struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
}

type xmlIntSize struct {
	W string `xml:"w,attr"`
	H string `xml:"h,attr"`
}

type xmlPin struct {
	ID       string         `xml:"id,attr"`
	Type     string         `xml:"type,attr"`
	Name     string         `xml:"name,attr,omitempty"`
	Style    string         `xml:"style,attr,omitempty"`
	Position *xmlRelPoint   `xml:"position"`
	Service  *xmlServiceRef `xml:"service"`
}

type xmlRelPoint struct {
	RelX string `xml:"relx,attr"`
	RelY string `xml:"rely,attr"`
}

type xmlServiceRef struct {
	Name      string `xml:"name,attr,omitempty"`
	GroupName string `xml:"group_name,attr,omitempty"`
}

type xmlLink struct {
	ID     string       `xml:"id,attr"`
	Source xmlIDRef     `xml:"source"`
	Target xmlIDRef     `xml:"target"`
	Text   *xmlLinkText `xml:"text"`
}

type xmlIDRef struct {
	ID string `xml:"id,attr"`
}

type xmlLinkText struct {
	X     string `xml:"x,attr"`
	Y     string `xml:"y,attr"`
	Value string `xml:",chardata"`
}

type xmlNodeStyle struct {
	Name        string    `xml:"name,attr"`
	BorderWidth string    `xml:"border_width,attr,omitempty"`
	Rounding    string    `xml:"rounding,attr,omitempty"`
	Background  *xmlColor `xml:"background"`
	Border      *xmlColor `xml:"border"`
	Text        *xmlColor `xml:"text"`
}

type xmlPinStyle struct {
	Name    string    `xml:"name,attr"`
	Display string    `xml:"display,attr"`
	Radius  string    `xml:"radius,attr,omitempty"`
	Image   string    `xml:"image,attr,omitempty"`
	Fill    *xmlColor `xml:"fill"`
	Outline *xmlColor `xml:"outline"`
}

type xmlColor struct {
	R string `xml:"r,attr"`
	G string `xml:"g,attr"`
	B string `xml:"b,attr"`
	A string `xml:"a,attr"`
}

type xmlService struct {
	Name     string `xml:"name,attr"`
	Protocol string `xml:"protocol,attr"`
	Port     string `xml:"port,attr,omitempty"`
	PortHigh string `xml:"port_high,attr,omitempty"`
	ICMPType string `xml:"type,attr,omitempty"`
	ICMPCode string `xml:"code,attr,omitempty"`
	Comment  string `xml:"comment,attr,omitempty"`
}

type xmlServiceGroup struct {
	Name     string `xml:"name,attr"`
	Comment  string `xml:"comment,attr,omitempty"`
	Services string `xml:"services,attr"`
}

type xmlSetting struct {
	Key   string `xml:"key,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type xmlSystem struct {
	CPUs        []xmlCPU         `xml:"cpu"`
	DIMMs       []xmlDIMM        `xml:"dimm"`
	Disks       []xmlDisk        `xml:"disk"`
	GPUs        []xmlGPU         `xml:"gpu"`
	PSUs        []xmlPSU         `xml:"psu"`
	Motherboard *xmlMotherboard  `xml:"motherboard"`
	OS          *xmlOS           `xml:"os"`
	Interfaces  []xmlInterface   `xml:"interface"`
}

type xmlCPU struct {
	Model string `xml:"model,attr,omitempty"`
	Cores string `xml:"cores,attr,omitempty"`
	Speed string `xml:"speed,attr,omitempty"`
}

type xmlDIMM struct {
	Model string `xml:"model,attr,omitempty"`
	Size  string `xml:"size,attr,omitempty"`
	Speed string `xml:"speed,attr,omitempty"`
}

type xmlDisk struct {
	Model string `xml:"model,attr,omitempty"`
	Size  string `xml:"size,attr,omitempty"`
}

type xmlGPU struct {
	Model  string `xml:"model,attr,omitempty"`
	Memory string `xml:"memory,attr,omitempty"`
}

type xmlPSU struct {
	Model string `xml:"model,attr,omitempty"`
	Watts string `xml:"watts,attr,omitempty"`
}

type xmlMotherboard struct {
	Manufacturer string `xml:"manufacturer,attr,omitempty"`
	Model        string `xml:"model,attr,omitempty"`
	BIOS         string `xml:"bios,attr,omitempty"`
}

type xmlOS struct {
	Name    string `xml:"name,attr,omitempty"`
	Version string `xml:"version,attr,omitempty"`
	Kernel  string `xml:"kernel,attr,omitempty"`
}

type xmlInterface struct {
	Name        string   `xml:"name,attr,omitempty"`
	MAC         string   `xml:"mac,attr,omitempty"`
	Addresses   []string `xml:"address"`
	Nameservers []string `xml:"nameserver"`
}

type xmlElements struct {
	Hostnames []string `xml:"hostname"`
	IPs       []string `xml:"ip"`
	IPRanges  []string `xml:"ip_range"`
	Subnets   []string `xml:"subnet"`
}

// =============================================================================
// Decoding
// =============================================================================

// loader carries the state of one tolerant load: the target container, the
// logger, and the skip counter feeding the persistence hooks.
type loader struct {
	logger  *log.Logger
	wsID    string
	data    *Data
	skipped int
}

// skip logs one dropped element and records it with the persistence hooks.
// Per-element failures never abort a load.
func (ld *loader) skip(kind, reason string) {
	ld.skipped++
	ld.logger.Warn("skipping element", "kind", kind, "reason", reason)
	observability.Persistence().OnElementSkipped(context.Background(), ld.wsID, kind, reason)
}

// decodeWorkspace parses a workspace document. Root-structure problems
// (unparseable XML, missing or malformed id/version, unknown version) fail
// outright; everything below the root degrades element by element.
func decodeWorkspace(cfg *config.Config, logger *log.Logger, raw []byte) (entity.ID, *Data, int, error) {
	var doc xmlWorkspace
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return entity.NilID, nil, 0, errors.Wrap(errors.ErrCodeExternal, err, "parse workspace XML")
	}

	id, err := entity.ParseID(doc.ID)
	if err != nil {
		return entity.NilID, nil, 0, errors.Wrap(errors.ErrCodeInvalidArgument, err, "workspace id attribute")
	}
	version, err := entity.ParseID(doc.Version)
	if err != nil {
		return entity.NilID, nil, 0, errors.Wrap(errors.ErrCodeInvalidArgument, err, "workspace version attribute")
	}
	load, ok := versionLoaders[version.String()]
	if !ok {
		return entity.NilID, nil, 0, errors.New(errors.ErrCodeInvalidArgument, "unknown workspace format version %s", version)
	}

	ld := &loader{
		logger: logger,
		wsID:   id.String(),
		data:   NewData(cfg, doc.Name),
	}
	load(ld, &doc)
	return id, ld.data, ld.skipped, nil
}

// loadV1 populates the container from a version-1 document. Sections are
// processed in dependency order regardless of their order in the file:
// services before groups, all nodes and pins before any link. Violating this
// order would turn valid references into spurious lookup misses that the
// tolerant skipping would then hide.
func (ld *loader) loadV1(doc *xmlWorkspace) {
	for i := range doc.Services {
		ld.loadService(&doc.Services[i])
	}
	for i := range doc.Groups {
		ld.loadServiceGroup(&doc.Groups[i])
	}
	for i := range doc.Nodes {
		ld.loadNode(&doc.Nodes[i])
	}
	for i := range doc.Links {
		ld.loadLink(&doc.Links[i])
	}
	for i := range doc.Styles {
		ld.loadNodeStyle(&doc.Styles[i])
	}
	for i := range doc.PStyles {
		ld.loadPinStyle(&doc.PStyles[i])
	}
	for i := range doc.Settings {
		ld.loadSetting(&doc.Settings[i])
	}
}

func (ld *loader) loadService(x *xmlService) {
	proto, err := entity.ParseProtocol(x.Protocol)
	if err != nil {
		ld.skip("service", "service "+x.Name+": "+err.Error())
		return
	}
	svc, err := entity.NewService(x.Name, proto)
	if err != nil {
		ld.skip("service", err.Error())
		return
	}
	svc.Comment = x.Comment
	svc.Port = ld.lenientInt(x.Port, "service "+svc.Name+" port")
	svc.PortHigh = ld.lenientInt(x.PortHigh, "service "+svc.Name+" port_high")
	svc.ICMPType = ld.lenientInt(x.ICMPType, "service "+svc.Name+" icmp type")
	svc.ICMPCode = ld.lenientInt(x.ICMPCode, "service "+svc.Name+" icmp code")
	if svc.ClampNumericFields() {
		ld.logger.Warn("service fields out of range, reset", "service", svc.Name)
	}
	if err := ld.data.AddService(svc); err != nil {
		ld.skip("service", err.Error())
	}
}

func (ld *loader) loadServiceGroup(x *xmlServiceGroup) {
	g, err := entity.NewServiceGroup(x.Name)
	if err != nil {
		ld.skip("service_group", err.Error())
		return
	}
	g.Comment = x.Comment
	sep := ld.data.Config().Services.GroupSeparator
	for _, member := range strings.Split(x.Services, sep) {
		if member != "" {
			g.Services = append(g.Services, member)
		}
	}
	if err := ld.data.AddServiceGroup(g); err != nil {
		ld.skip("service_group", err.Error())
	}
}

func (ld *loader) loadNode(x *xmlNode) {
	id, err := entity.ParseID(x.ID)
	if err != nil {
		ld.skip("node", "node "+x.Name+": bad id: "+err.Error())
		return
	}
	t, err := entity.ParseNodeType(x.Type)
	if err != nil {
		ld.skip("node", "node "+x.Name+": "+err.Error())
		return
	}

	n := &entity.Node{ID: id, Name: x.Name, Type: t, Style: x.Style, Data: x.Data}
	switch t {
	case entity.NodeSystem:
		n.System = decodeSystem(x.System)
	case entity.NodeMultiSystem:
		n.Multi = decodeElements(x.Elements)
	}

	// Positions and sizes are integers on the wire, floats in memory. The
	// conversion goes through a clamp to int32 range so later arithmetic
	// cannot hit float truncation surprises on save.
	if x.Position != nil {
		px, errX := parseClampedInt(x.Position.X)
		py, errY := parseClampedInt(x.Position.Y)
		if errX != nil || errY != nil {
			ld.skip("node", "node "+x.Name+": malformed position")
			return
		}
		n.X, n.Y = float64(px), float64(py)
	}
	if x.Size != nil {
		w, errW := parseClampedInt(x.Size.W)
		h, errH := parseClampedInt(x.Size.H)
		if errW != nil || errH != nil {
			ld.logger.Warn("malformed node size ignored", "node", x.Name)
		} else {
			n.W, n.H = float64(w), float64(h)
			n.StaticSize = true
		}
	}

	if err := ld.loadPins(n, x.Pins); err != nil {
		ld.logger.Warn("pin batch incomplete", "node", x.Name, "err", err)
	}
	if err := ld.data.AddNode(n); err != nil {
		ld.skip("node", err.Error())
	}
}

// loadPins attaches a node's pins, skipping malformed ones. The return
// distinguishes a partly-loaded batch (PartialFailure) from a batch where
// nothing survived (TotalFailure); the node itself loads either way.
func (ld *loader) loadPins(n *entity.Node, pins []xmlPin) error {
	failed := 0
	for i := range pins {
		if !ld.loadPin(n, &pins[i]) {
			failed++
		}
	}
	switch {
	case failed == 0:
		return nil
	case failed == len(pins):
		return errors.New(errors.ErrCodeTotalFailure, "all %d pins failed to load", failed)
	default:
		return errors.New(errors.ErrCodePartialFailure, "%d of %d pins failed to load", failed, len(pins))
	}
}

func (ld *loader) loadPin(n *entity.Node, x *xmlPin) bool {
	id, err := entity.ParseID(x.ID)
	if err != nil {
		ld.skip("pin", "pin on node "+n.Name+": bad id: "+err.Error())
		return false
	}
	t, err := entity.ParsePinType(x.Type)
	if err != nil {
		ld.skip("pin", "pin on node "+n.Name+": "+err.Error())
		return false
	}

	p := &entity.Pin{ID: id, Name: x.Name, Style: x.Style, Type: t}
	if x.Position != nil {
		rx, errX := strconv.ParseFloat(x.Position.RelX, 64)
		ry, errY := strconv.ParseFloat(x.Position.RelY, 64)
		if errX != nil || errY != nil {
			ld.skip("pin", "pin on node "+n.Name+": malformed relative position")
			return false
		}
		// An axis beyond 1.0 resets to 0; the boundary invariant itself is
		// re-established at save time, not here.
		if rx > 1 {
			ld.logger.Warn("pin relx out of range, reset", "node", n.Name)
			rx = 0
		}
		if ry > 1 {
			ld.logger.Warn("pin rely out of range, reset", "node", n.Name)
			ry = 0
		}
		p.RelX, p.RelY = rx, ry
	}

	if x.Service != nil {
		if t != entity.PinServer {
			ld.logger.Warn("service reference on non-server pin ignored", "node", n.Name, "pin", id)
		} else {
			switch {
			case x.Service.GroupName != "":
				if x.Service.Name != "" {
					ld.logger.Warn("pin references both service and group, keeping group", "node", n.Name, "pin", id)
				}
				p.Group = x.Service.GroupName
				if _, ok := ld.data.ServiceGroup(p.Group); !ok {
					ld.logger.Warn("pin references unknown service group", "node", n.Name, "group", p.Group)
				}
			case x.Service.Name != "":
				p.Service = x.Service.Name
				if _, ok := ld.data.Service(p.Service); !ok {
					ld.logger.Warn("pin references unknown service", "node", n.Name, "service", p.Service)
				}
			}
		}
	}

	if err := n.AddPin(p); err != nil {
		ld.skip("pin", err.Error())
		return false
	}
	return true
}

func (ld *loader) loadLink(x *xmlLink) {
	id, err := entity.ParseID(x.ID)
	if err != nil {
		ld.skip("link", "bad link id: "+err.Error())
		return
	}
	src, err := entity.ParseID(x.Source.ID)
	if err != nil {
		ld.skip("link", "link "+id.String()+": bad source id: "+err.Error())
		return
	}
	dst, err := entity.ParseID(x.Target.ID)
	if err != nil {
		ld.skip("link", "link "+id.String()+": bad target id: "+err.Error())
		return
	}

	l := &entity.Link{ID: id, Source: src, Target: dst}
	if x.Text != nil {
		l.Text = x.Text.Value
		l.TextX = ld.lenientFloat(x.Text.X, "link text x offset")
		l.TextY = ld.lenientFloat(x.Text.Y, "link text y offset")
	}
	if err := ld.data.AddLink(l); err != nil {
		ld.skip("link", err.Error())
	}
}

func (ld *loader) loadNodeStyle(x *xmlNodeStyle) {
	if ld.data.Config().IsReservedStyle(x.Name) {
		ld.skip("node_style", "reserved style "+x.Name+" in file")
		return
	}
	s := style.NodeStyle{
		BorderWidth: ld.lenientFloat(x.BorderWidth, "style "+x.Name+" border_width"),
		Rounding:    ld.lenientFloat(x.Rounding, "style "+x.Name+" rounding"),
	}
	var err error
	if s.Background, err = decodeColor(x.Background); err != nil {
		ld.skip("node_style", "style "+x.Name+": "+err.Error())
		return
	}
	if s.Border, err = decodeColor(x.Border); err != nil {
		ld.skip("node_style", "style "+x.Name+": "+err.Error())
		return
	}
	if s.Text, err = decodeColor(x.Text); err != nil {
		ld.skip("node_style", "style "+x.Name+": "+err.Error())
		return
	}
	if err := ld.data.AddNodeStyle(x.Name, s); err != nil {
		ld.skip("node_style", err.Error())
	}
}

func (ld *loader) loadPinStyle(x *xmlPinStyle) {
	if ld.data.Config().IsReservedStyle(x.Name) {
		ld.skip("pin_style", "reserved style "+x.Name+" in file")
		return
	}
	s := style.PinStyle{
		Display: style.ParsePinDisplay(x.Display),
		Radius:  ld.lenientFloat(x.Radius, "style "+x.Name+" radius"),
		Image:   x.Image,
	}
	var err error
	if s.Fill, err = decodeColor(x.Fill); err != nil {
		ld.skip("pin_style", "style "+x.Name+": "+err.Error())
		return
	}
	if s.Outline, err = decodeColor(x.Outline); err != nil {
		ld.skip("pin_style", "style "+x.Name+": "+err.Error())
		return
	}
	if err := ld.data.AddPinStyle(x.Name, s); err != nil {
		ld.skip("pin_style", err.Error())
	}
}

func (ld *loader) loadSetting(x *xmlSetting) {
	spec, ok := ld.data.Config().Settings[x.Key]
	if !ok {
		ld.skip("setting", "unknown setting key "+x.Key)
		return
	}
	if x.Type != spec.Type {
		ld.skip("setting", "setting "+x.Key+" declares type "+x.Type+", expected "+spec.Type)
		return
	}
	if err := ld.data.SetSetting(x.Key, x.Value); err != nil {
		// Dropped settings fall back to the built-in default for the key.
		ld.skip("setting", err.Error())
	}
}

func decodeSystem(x *xmlSystem) *entity.SystemInfo {
	s := &entity.SystemInfo{}
	if x == nil {
		return s
	}
	for _, c := range x.CPUs {
		s.CPUs = append(s.CPUs, entity.CPU{Model: c.Model, Cores: c.Cores, Speed: c.Speed})
	}
	for _, d := range x.DIMMs {
		s.DIMMs = append(s.DIMMs, entity.DIMM{Model: d.Model, Size: d.Size, Speed: d.Speed})
	}
	for _, d := range x.Disks {
		s.Disks = append(s.Disks, entity.Disk{Model: d.Model, Size: d.Size})
	}
	for _, g := range x.GPUs {
		s.GPUs = append(s.GPUs, entity.GPU{Model: g.Model, Memory: g.Memory})
	}
	for _, p := range x.PSUs {
		s.PSUs = append(s.PSUs, entity.PSU{Model: p.Model, Watts: p.Watts})
	}
	if x.Motherboard != nil {
		s.Motherboard = entity.Motherboard{
			Manufacturer: x.Motherboard.Manufacturer,
			Model:        x.Motherboard.Model,
			BIOS:         x.Motherboard.BIOS,
		}
	}
	if x.OS != nil {
		s.OS = entity.OperatingSystem{Name: x.OS.Name, Version: x.OS.Version, Kernel: x.OS.Kernel}
	}
	for _, ni := range x.Interfaces {
		s.Interfaces = append(s.Interfaces, entity.NetworkInterface{
			Name:        ni.Name,
			MAC:         ni.MAC,
			Addresses:   ni.Addresses,
			Nameservers: ni.Nameservers,
		})
	}
	return s
}

func decodeElements(x *xmlElements) *entity.MultiSystemInfo {
	m := &entity.MultiSystemInfo{}
	if x == nil {
		return m
	}
	m.Hostnames = x.Hostnames
	m.IPs = x.IPs
	m.IPRanges = x.IPRanges
	m.Subnets = x.Subnets
	return m
}

func decodeColor(x *xmlColor) (style.Color, error) {
	if x == nil {
		return style.Color{}, nil
	}
	r, errR := strconv.Atoi(x.R)
	g, errG := strconv.Atoi(x.G)
	b, errB := strconv.Atoi(x.B)
	a, errA := strconv.Atoi(x.A)
	if errR != nil || errG != nil || errB != nil || errA != nil {
		return style.Color{}, errors.New(errors.ErrCodeInvalidArgument, "malformed color channel")
	}
	return style.FromRGBA8(r, g, b, a), nil
}

// lenientInt parses an optional integer attribute. Malformed values reset to
// 0 with a warning rather than failing their element; the numeric-range
// clamp downstream treats 0 as "unset".
func (ld *loader) lenientInt(s, what string) int {
	if s == "" {
		return 0
	}
	n, err := parseClampedInt(s)
	if err != nil {
		ld.logger.Warn("malformed integer reset to 0", "field", what, "value", s)
		return 0
	}
	return n
}

func (ld *loader) lenientFloat(s, what string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		ld.logger.Warn("malformed number reset to 0", "field", what, "value", s)
		return 0
	}
	return f
}

func parseClampedInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	if n < math.MinInt32 {
		n = math.MinInt32
	}
	return int(n), nil
}

// =============================================================================
// Encoding
// =============================================================================

// encodeWorkspace regenerates the whole document from scratch. There is no
// incremental writing: hand edits and comments in the file are lost on every
// save.
func encodeWorkspace(id entity.ID, d *Data) ([]byte, error) {
	doc := xmlWorkspace{
		Version: VersionV1,
		ID:      id.String(),
		Name:    d.Name,
	}

	for _, n := range d.Nodes() {
		doc.Nodes = append(doc.Nodes, encodeNode(n))
	}
	for _, l := range d.Links() {
		doc.Links = append(doc.Links, encodeLink(l))
	}
	for _, e := range d.NodeStyles().Entries() {
		// Reserved styles are recreated programmatically on load and never
		// written to the file.
		if d.Config().IsReservedStyle(e.Name) {
			continue
		}
		doc.Styles = append(doc.Styles, encodeNodeStyle(e.Name, e.Style))
	}
	for _, e := range d.PinStyles().Entries() {
		if d.Config().IsReservedStyle(e.Name) {
			continue
		}
		doc.PStyles = append(doc.PStyles, encodePinStyle(e.Name, e.Style))
	}
	for _, s := range d.Services() {
		doc.Services = append(doc.Services, encodeService(s))
	}
	sep := d.Config().Services.GroupSeparator
	for _, g := range d.ServiceGroups() {
		doc.Groups = append(doc.Groups, xmlServiceGroup{
			Name:     g.Name,
			Comment:  g.Comment,
			Services: strings.Join(g.Services, sep),
		})
	}

	settings := d.Settings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		spec, ok := d.Config().Settings[k]
		if !ok {
			continue
		}
		doc.Settings = append(doc.Settings, xmlSetting{Key: k, Type: spec.Type, Value: settings[k]})
	}

	raw, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternal, err, "serialize workspace")
	}
	return append([]byte(xml.Header), raw...), nil
}

func encodeNode(n *entity.Node) xmlNode {
	x := xmlNode{
		ID:    n.ID.String(),
		Name:  n.Name,
		Type:  n.Type.String(),
		Style: n.Style,
		Data:  n.Data,
		Position: &xmlIntPoint{
			X: formatCoord(n.X),
			Y: formatCoord(n.Y),
		},
	}
	if n.StaticSize {
		x.Size = &xmlIntSize{W: formatCoord(n.W), H: formatCoord(n.H)}
	}
	for _, p := range n.Pins {
		x.Pins = append(x.Pins, encodePin(p))
	}
	switch n.Type {
	case entity.NodeSystem:
		x.System = encodeSystem(n.System)
	case entity.NodeMultiSystem:
		x.Elements = encodeElements(n.Multi)
	}
	return x
}

func encodePin(p *entity.Pin) xmlPin {
	rx, ry := p.RelX, p.RelY
	// The boundary invariant is re-established at write time. An invalid
	// relative position resets to (0,0) rather than failing the save.
	if !entity.IsValidRelativePosition(rx, ry) {
		rx, ry = 0, 0
	}
	x := xmlPin{
		ID:    p.ID.String(),
		Type:  p.Type.String(),
		Name:  p.Name,
		Style: p.Style,
		Position: &xmlRelPoint{
			RelX: formatFloat(rx),
			RelY: formatFloat(ry),
		},
	}
	switch {
	case p.Group != "":
		x.Service = &xmlServiceRef{GroupName: p.Group}
	case p.Service != "":
		x.Service = &xmlServiceRef{Name: p.Service}
	}
	return x
}

func encodeLink(l *entity.Link) xmlLink {
	x := xmlLink{
		ID:     l.ID.String(),
		Source: xmlIDRef{ID: l.Source.String()},
		Target: xmlIDRef{ID: l.Target.String()},
	}
	// The offset persists only inside the text element. A link with empty
	// text loses its offset on save; this lossiness is intentional.
	if l.Text != "" {
		x.Text = &xmlLinkText{
			X:     formatFloat(l.TextX),
			Y:     formatFloat(l.TextY),
			Value: l.Text,
		}
	}
	return x
}

func encodeNodeStyle(name string, s style.NodeStyle) xmlNodeStyle {
	return xmlNodeStyle{
		Name:        name,
		BorderWidth: formatFloat(s.BorderWidth),
		Rounding:    formatFloat(s.Rounding),
		Background:  encodeColor(s.Background),
		Border:      encodeColor(s.Border),
		Text:        encodeColor(s.Text),
	}
}

func encodePinStyle(name string, s style.PinStyle) xmlPinStyle {
	x := xmlPinStyle{
		Name:    name,
		Display: s.Display.String(),
		Radius:  formatFloat(s.Radius),
		Fill:    encodeColor(s.Fill),
		Outline: encodeColor(s.Outline),
	}
	if s.Display == style.PinDisplayImage {
		x.Image = s.Image
	}
	return x
}

func encodeColor(c style.Color) *xmlColor {
	r, g, b, a := c.RGBA8()
	return &xmlColor{
		R: strconv.Itoa(r),
		G: strconv.Itoa(g),
		B: strconv.Itoa(b),
		A: strconv.Itoa(a),
	}
}

func encodeService(s *entity.Service) xmlService {
	x := xmlService{
		Name:     s.Name,
		Protocol: s.Protocol.String(),
		Comment:  s.Comment,
	}
	switch s.Protocol {
	case entity.ProtocolTCP, entity.ProtocolUDP:
		if s.Port != 0 {
			x.Port = strconv.Itoa(s.Port)
		}
		if s.PortHigh > s.Port {
			x.PortHigh = strconv.Itoa(s.PortHigh)
		}
	case entity.ProtocolICMP:
		x.ICMPType = strconv.Itoa(s.ICMPType)
		x.ICMPCode = strconv.Itoa(s.ICMPCode)
	}
	return x
}

func encodeSystem(s *entity.SystemInfo) *xmlSystem {
	if s == nil {
		return nil
	}
	x := &xmlSystem{}
	for _, c := range s.CPUs {
		x.CPUs = append(x.CPUs, xmlCPU{Model: c.Model, Cores: c.Cores, Speed: c.Speed})
	}
	for _, d := range s.DIMMs {
		x.DIMMs = append(x.DIMMs, xmlDIMM{Model: d.Model, Size: d.Size, Speed: d.Speed})
	}
	for _, d := range s.Disks {
		x.Disks = append(x.Disks, xmlDisk{Model: d.Model, Size: d.Size})
	}
	for _, g := range s.GPUs {
		x.GPUs = append(x.GPUs, xmlGPU{Model: g.Model, Memory: g.Memory})
	}
	for _, p := range s.PSUs {
		x.PSUs = append(x.PSUs, xmlPSU{Model: p.Model, Watts: p.Watts})
	}
	if s.Motherboard != (entity.Motherboard{}) {
		x.Motherboard = &xmlMotherboard{
			Manufacturer: s.Motherboard.Manufacturer,
			Model:        s.Motherboard.Model,
			BIOS:         s.Motherboard.BIOS,
		}
	}
	if s.OS != (entity.OperatingSystem{}) {
		x.OS = &xmlOS{Name: s.OS.Name, Version: s.OS.Version, Kernel: s.OS.Kernel}
	}
	for _, ni := range s.Interfaces {
		x.Interfaces = append(x.Interfaces, xmlInterface{
			Name:        ni.Name,
			MAC:         ni.MAC,
			Addresses:   ni.Addresses,
			Nameservers: ni.Nameservers,
		})
	}
	return x
}

func encodeElements(m *entity.MultiSystemInfo) *xmlElements {
	if m == nil {
		return nil
	}
	return &xmlElements{
		Hostnames: m.Hostnames,
		IPs:       m.IPs,
		IPRanges:  m.IPRanges,
		Subnets:   m.Subnets,
	}
}

// formatCoord rounds a stored float back to its wire integer form.
func formatCoord(v float64) string {
	n := int64(math.Round(v))
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	if n < math.MinInt32 {
		n = math.MinInt32
	}
	return strconv.FormatInt(n, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

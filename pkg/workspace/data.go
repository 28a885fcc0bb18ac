// Package workspace implements the canonical workspace data container and
// the XML persistence engine around it.
//
// A Workspace owns the long-lived canonical Data for one opened file. The
// live graph adapter (package live) duplicates that Data into a working
// draft, mutates it through structural edits, and commits it back through
// Save. Closing without saving simply discards the draft.
package workspace

import (
	"slices"
	"sort"

	"github.com/isochrone/isochrone/pkg/config"
	"github.com/isochrone/isochrone/pkg/entity"
	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/style"
)

// Data aggregates every entity of one workspace: nodes, links, style lists,
// services, service groups, and the free-form settings map.
//
// Nodes and links are unordered sets keyed by id. Services and groups are
// kept sorted by name after every mutation. Style lists keep insertion order
// for UI presentation.
type Data struct {
	Name string

	cfg        *config.Config
	nodes      map[entity.ID]*entity.Node
	links      map[entity.ID]*entity.Link
	nodeStyles *style.List[style.NodeStyle]
	pinStyles  *style.List[style.PinStyle]
	services   []*entity.Service
	groups     []*entity.ServiceGroup
	settings   map[string]string
}

// NewData creates an empty container with the reserved default styles
// installed.
func NewData(cfg *config.Config, name string) *Data {
	return &Data{
		Name:       name,
		cfg:        cfg,
		nodes:      make(map[entity.ID]*entity.Node),
		links:      make(map[entity.ID]*entity.Link),
		nodeStyles: style.DefaultNodeStyles(cfg),
		pinStyles:  style.DefaultPinStyles(cfg),
		settings:   make(map[string]string),
	}
}

// Config returns the defaults table the container was built with.
func (d *Data) Config() *config.Config { return d.cfg }

// =============================================================================
// Nodes
// =============================================================================

// Node returns the node with the given id.
func (d *Data) Node(id entity.ID) (*entity.Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Nodes returns all nodes ordered by id. The ordering makes serialization
// and iteration deterministic; storage itself is unordered.
func (d *Data) Nodes() []*entity.Node {
	nodes := make([]*entity.Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID.Less(nodes[j].ID) })
	return nodes
}

// NodeCount returns the number of nodes.
func (d *Data) NodeCount() int { return len(d.nodes) }

// AddNode inserts a node.
// Fails with InvalidArgument for a blank id or invalid type, and
// AlreadyExists for a duplicate id.
func (d *Data) AddNode(n *entity.Node) error {
	if n == nil || n.ID.IsNil() {
		return errors.New(errors.ErrCodeInvalidArgument, "node id must be set")
	}
	if n.Type != entity.NodeSystem && n.Type != entity.NodeMultiSystem && n.Type != entity.NodeBoundary {
		return errors.New(errors.ErrCodeInvalidArgument, "node %q has invalid type", n.Name)
	}
	if _, exists := d.nodes[n.ID]; exists {
		return errors.New(errors.ErrCodeAlreadyExists, "node %s already exists", n.ID)
	}
	d.nodes[n.ID] = n
	return nil
}

// RemoveNode deletes a node along with every link touching one of its pins.
// Fails with NotFound for a missing id.
func (d *Data) RemoveNode(id entity.ID) error {
	n, ok := d.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %s not found", id)
	}
	pinIDs := make(map[entity.ID]bool, len(n.Pins))
	for _, p := range n.Pins {
		pinIDs[p.ID] = true
	}
	for linkID, l := range d.links {
		if pinIDs[l.Source] || pinIDs[l.Target] {
			delete(d.links, linkID)
		}
	}
	delete(d.nodes, id)
	return nil
}

// FindPin locates a pin by id across all nodes and returns it with its host.
func (d *Data) FindPin(id entity.ID) (*entity.Pin, *entity.Node, bool) {
	for _, n := range d.nodes {
		if p := n.Pin(id); p != nil {
			return p, n, true
		}
	}
	return nil, nil, false
}

// =============================================================================
// Links
// =============================================================================

// Link returns the link with the given id.
func (d *Data) Link(id entity.ID) (*entity.Link, bool) {
	l, ok := d.links[id]
	return l, ok
}

// Links returns all links ordered by id.
func (d *Data) Links() []*entity.Link {
	links := make([]*entity.Link, 0, len(d.links))
	for _, l := range d.links {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID.Less(links[j].ID) })
	return links
}

// LinkCount returns the number of links.
func (d *Data) LinkCount() int { return len(d.links) }

// AddLink inserts a link after validating it at insertion time:
// both endpoint pins must exist somewhere in the node set, the endpoints
// must differ, and the pin-type pairing rules must hold
// (see entity.ValidateLinkEndpoints). Fails with AlreadyExists for a
// duplicate id and NotFound for a missing endpoint pin.
func (d *Data) AddLink(l *entity.Link) error {
	if l == nil || l.ID.IsNil() {
		return errors.New(errors.ErrCodeInvalidArgument, "link id must be set")
	}
	if _, exists := d.links[l.ID]; exists {
		return errors.New(errors.ErrCodeAlreadyExists, "link %s already exists", l.ID)
	}
	if l.Source == l.Target {
		return errors.New(errors.ErrCodeInvalidArgument, "link cannot connect a pin to itself")
	}
	src, _, ok := d.FindPin(l.Source)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "source pin %s not found", l.Source)
	}
	dst, _, ok := d.FindPin(l.Target)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "target pin %s not found", l.Target)
	}
	if err := entity.ValidateLinkEndpoints(src.Type, dst.Type); err != nil {
		return err
	}
	d.links[l.ID] = l
	return nil
}

// RemoveLink deletes a link. Fails with NotFound for a missing id.
func (d *Data) RemoveLink(id entity.ID) error {
	if _, ok := d.links[id]; !ok {
		return errors.New(errors.ErrCodeNotFound, "link %s not found", id)
	}
	delete(d.links, id)
	return nil
}

// =============================================================================
// Services
// =============================================================================

// Service returns the service with the given name.
func (d *Data) Service(name string) (*entity.Service, bool) {
	for _, s := range d.services {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Services returns the services sorted by name.
func (d *Data) Services() []*entity.Service {
	return slices.Clone(d.services)
}

// AddService inserts a service. The name is sanitized (separator characters
// replaced with underscores) before the uniqueness check; a duplicate name
// fails with AlreadyExists. The list stays sorted by name.
func (d *Data) AddService(s *entity.Service) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "service must not be nil")
	}
	s.Name = entity.SanitizeServiceName(s.Name)
	if err := errors.ValidateEntityName(s.Name); err != nil {
		return err
	}
	if _, exists := d.Service(s.Name); exists {
		return errors.New(errors.ErrCodeAlreadyExists, "service %q already exists", s.Name)
	}
	if s.ID.IsNil() {
		s.ID = entity.NewID()
	}
	d.services = append(d.services, s)
	d.sortServices()
	return nil
}

// RemoveService deletes a service by name.
// Fails with InUse while any server pin or service group references it,
// and NotFound for a missing name.
func (d *Data) RemoveService(name string) error {
	if _, ok := d.Service(name); !ok {
		return errors.New(errors.ErrCodeNotFound, "service %q not found", name)
	}
	if d.ServiceInUse(name) {
		return errors.New(errors.ErrCodeInUse, "service %q is referenced by a pin or group", name)
	}
	d.services = slices.DeleteFunc(d.services, func(s *entity.Service) bool { return s.Name == name })
	return nil
}

// ServiceInUse reports whether any server pin or service group references
// the named service. Styles and services are referenced by name, so this is
// a deliberate scan rather than a reference-count side effect.
func (d *Data) ServiceInUse(name string) bool {
	for _, n := range d.nodes {
		for _, p := range n.Pins {
			if p.Service == name {
				return true
			}
		}
	}
	for _, g := range d.groups {
		if slices.Contains(g.Services, name) {
			return true
		}
	}
	return false
}

// =============================================================================
// Service groups
// =============================================================================

// ServiceGroup returns the group with the given name.
func (d *Data) ServiceGroup(name string) (*entity.ServiceGroup, bool) {
	for _, g := range d.groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// ServiceGroups returns the groups sorted by name.
func (d *Data) ServiceGroups() []*entity.ServiceGroup {
	return slices.Clone(d.groups)
}

// AddServiceGroup inserts a group. Every member name must resolve to an
// existing service or the add fails with NotFound. A duplicate group name
// fails with AlreadyExists. The list stays sorted by name.
func (d *Data) AddServiceGroup(g *entity.ServiceGroup) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "service group must not be nil")
	}
	g.Name = entity.SanitizeServiceName(g.Name)
	if err := errors.ValidateEntityName(g.Name); err != nil {
		return err
	}
	if _, exists := d.ServiceGroup(g.Name); exists {
		return errors.New(errors.ErrCodeAlreadyExists, "service group %q already exists", g.Name)
	}
	for _, member := range g.Services {
		if _, ok := d.Service(member); !ok {
			return errors.New(errors.ErrCodeNotFound, "service group %q references unknown service %q", g.Name, member)
		}
	}
	if g.ID.IsNil() {
		g.ID = entity.NewID()
	}
	d.groups = append(d.groups, g)
	d.sortGroups()
	return nil
}

// RemoveServiceGroup deletes a group by name.
// Fails with InUse while any server pin references it, and NotFound for a
// missing name.
func (d *Data) RemoveServiceGroup(name string) error {
	if _, ok := d.ServiceGroup(name); !ok {
		return errors.New(errors.ErrCodeNotFound, "service group %q not found", name)
	}
	if d.GroupInUse(name) {
		return errors.New(errors.ErrCodeInUse, "service group %q is referenced by a pin", name)
	}
	d.groups = slices.DeleteFunc(d.groups, func(g *entity.ServiceGroup) bool { return g.Name == name })
	return nil
}

// GroupInUse reports whether any server pin references the named group.
func (d *Data) GroupInUse(name string) bool {
	for _, n := range d.nodes {
		for _, p := range n.Pins {
			if p.Group == name {
				return true
			}
		}
	}
	return false
}

// =============================================================================
// Styles
// =============================================================================

// NodeStyles returns the node style list.
func (d *Data) NodeStyles() *style.List[style.NodeStyle] { return d.nodeStyles }

// PinStyles returns the pin style list.
func (d *Data) PinStyles() *style.List[style.PinStyle] { return d.pinStyles }

// AddNodeStyle appends a named node style.
func (d *Data) AddNodeStyle(name string, s style.NodeStyle) error {
	return d.nodeStyles.Add(name, s)
}

// RemoveNodeStyle deletes a node style.
// Fails with AccessDenied for reserved names and InUse while any node
// references the name. The reference is by string, so the container scans
// its node set to decide.
func (d *Data) RemoveNodeStyle(name string) error {
	if d.nodeStyles.IsReserved(name) {
		return errors.New(errors.ErrCodeAccessDenied, "style %q is inbuilt and cannot be removed", name)
	}
	if d.NodeStyleInUse(name) {
		return errors.New(errors.ErrCodeInUse, "style %q is referenced by a node", name)
	}
	return d.nodeStyles.Remove(name)
}

// RenameNodeStyle renames a node style. Referencing nodes keep the old name
// string; their lookups degrade to the default visual until updated.
func (d *Data) RenameNodeStyle(oldName, newName string) error {
	return d.nodeStyles.Rename(oldName, newName)
}

// NodeStyleInUse reports whether any node references the named style.
func (d *Data) NodeStyleInUse(name string) bool {
	for _, n := range d.nodes {
		if n.Style == name {
			return true
		}
	}
	return false
}

// AddPinStyle appends a named pin style.
func (d *Data) AddPinStyle(name string, s style.PinStyle) error {
	return d.pinStyles.Add(name, s)
}

// RemovePinStyle deletes a pin style.
// Fails with AccessDenied for reserved names and InUse while any pin
// references the name.
func (d *Data) RemovePinStyle(name string) error {
	if d.pinStyles.IsReserved(name) {
		return errors.New(errors.ErrCodeAccessDenied, "style %q is inbuilt and cannot be removed", name)
	}
	if d.PinStyleInUse(name) {
		return errors.New(errors.ErrCodeInUse, "style %q is referenced by a pin", name)
	}
	return d.pinStyles.Remove(name)
}

// RenamePinStyle renames a pin style.
func (d *Data) RenamePinStyle(oldName, newName string) error {
	return d.pinStyles.Rename(oldName, newName)
}

// PinStyleInUse reports whether any pin references the named style.
func (d *Data) PinStyleInUse(name string) bool {
	for _, n := range d.nodes {
		for _, p := range n.Pins {
			if p.Style == name {
				return true
			}
		}
	}
	return false
}

// =============================================================================
// Settings
// =============================================================================

// Setting returns the stored value for a key, falling back to the built-in
// default from the configuration table when unset.
func (d *Data) Setting(key string) (string, bool) {
	if v, ok := d.settings[key]; ok {
		return v, true
	}
	if spec, ok := d.cfg.Settings[key]; ok {
		return spec.Default, true
	}
	return "", false
}

// SetSetting stores a raw setting value. The value must convert under the
// key's declared type from the configuration table; unknown keys fail with
// InvalidArgument.
func (d *Data) SetSetting(key, value string) error {
	spec, ok := d.cfg.Settings[key]
	if !ok {
		return errors.New(errors.ErrCodeInvalidArgument, "unknown setting %q", key)
	}
	if err := validateSettingValue(spec.Type, value); err != nil {
		return err
	}
	d.settings[key] = value
	return nil
}

// Settings returns a copy of the explicitly-stored settings.
func (d *Data) Settings() map[string]string {
	out := make(map[string]string, len(d.settings))
	for k, v := range d.settings {
		out[k] = v
	}
	return out
}

// =============================================================================
// Copying
// =============================================================================

// Clone returns a deep copy of the container. The live graph adapter works
// on a clone so an abandoned editing session never touches the canonical
// data.
func (d *Data) Clone() *Data {
	c := &Data{
		Name:       d.Name,
		cfg:        d.cfg,
		nodes:      make(map[entity.ID]*entity.Node, len(d.nodes)),
		links:      make(map[entity.ID]*entity.Link, len(d.links)),
		nodeStyles: d.nodeStyles.Clone(),
		pinStyles:  d.pinStyles.Clone(),
		services:   make([]*entity.Service, len(d.services)),
		groups:     make([]*entity.ServiceGroup, len(d.groups)),
		settings:   make(map[string]string, len(d.settings)),
	}
	for id, n := range d.nodes {
		c.nodes[id] = n.Clone()
	}
	for id, l := range d.links {
		c.links[id] = l.Clone()
	}
	for i, s := range d.services {
		c.services[i] = s.Clone()
	}
	for i, g := range d.groups {
		c.groups[i] = g.Clone()
	}
	for k, v := range d.settings {
		c.settings[k] = v
	}
	return c
}

func (d *Data) sortServices() {
	sort.Slice(d.services, func(i, j int) bool { return d.services[i].Name < d.services[j].Name })
}

func (d *Data) sortGroups() {
	sort.Slice(d.groups, func(i, j int) bool { return d.groups[i].Name < d.groups[j].Name })
}

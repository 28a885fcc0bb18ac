package live

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/isochrone/isochrone/pkg/entity"
	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/observability"
	"github.com/isochrone/isochrone/pkg/style"
	"github.com/isochrone/isochrone/pkg/workspace"
)

// Graph is the live adapter between the visual graph and a workspace's
// canonical data.
//
// Structural edits go through Graph methods and mutate both representations
// in the same call; there is no separate commit step, so a Save can happen
// at any moment. Node position/size and pin add/remove are the exception:
// the visual node mutates locally and the change reaches the draft through
// the notification handler.
type Graph struct {
	logger *log.Logger

	ws    *workspace.Workspace
	data  *workspace.Data
	nodes map[entity.ID]*Node
	links map[entity.ID]*Link

	// omitted tracks pins that exist in the data model but could not be
	// shown (unresolvable service reference at load time). They must survive
	// pin syncs and later saves untouched.
	omitted map[entity.ID]bool
}

// NewGraph creates an empty adapter.
func NewGraph(logger *log.Logger) *Graph {
	if logger == nil {
		logger = log.Default()
	}
	return &Graph{
		logger:  logger,
		nodes:   make(map[entity.ID]*Node),
		links:   make(map[entity.ID]*Link),
		omitted: make(map[entity.ID]bool),
	}
}

// SetWorkspace adopts a workspace, duplicating its canonical data into a
// working draft and rebuilding the visual graph from it. The draft can be
// discarded by simply never saving.
//
// A server pin naming a service or group that does not exist is logged and
// omitted from the visual graph; it stays in the draft and round-trips
// through saves. A link whose endpoint pin is missing or omitted is likewise
// visual-only skipped.
func (g *Graph) SetWorkspace(ws *workspace.Workspace) error {
	if ws == nil || ws.Data() == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "workspace must hold data")
	}
	g.ws = ws
	g.data = ws.Data().Clone()
	g.nodes = make(map[entity.ID]*Node)
	g.links = make(map[entity.ID]*Link)
	g.omitted = make(map[entity.ID]bool)

	for _, n := range g.data.Nodes() {
		g.nodes[n.ID] = g.buildVisualNode(n)
	}
	for _, l := range g.data.Links() {
		src := g.findVisualPin(l.Source)
		dst := g.findVisualPin(l.Target)
		if src == nil || dst == nil {
			g.logger.Warn("link endpoint not in visual graph, link not shown", "link", l.ID)
			continue
		}
		vl := &Link{id: l.ID, source: src, target: dst, text: l.Text}
		src.attachLink(vl)
		dst.attachLink(vl)
		g.links[l.ID] = vl
	}
	return nil
}

// buildVisualNode constructs the visual counterpart of a data node,
// dispatching on the concrete variant and resolving pin service references.
func (g *Graph) buildVisualNode(n *entity.Node) *Node {
	vn := &Node{
		id:       n.ID,
		nodeType: n.Type,
		name:     n.Name,
		style:    n.Style,
		data:     n.Data,
		x:        n.X,
		y:        n.Y,
		w:        n.W,
		h:        n.H,
		static:   n.StaticSize,
		notify:   g.handleNodeChange,
	}
	for _, p := range n.Pins {
		vp := &Pin{
			id:      p.ID,
			pinType: p.Type,
			name:    p.Name,
			style:   p.Style,
			relX:    p.RelX,
			relY:    p.RelY,
			host:    vn,
		}
		if p.Type == entity.PinServer {
			switch {
			case p.Group != "":
				grp, ok := g.data.ServiceGroup(p.Group)
				if !ok {
					g.logger.Warn("pin references unknown service group, pin not shown", "node", n.Name, "group", p.Group)
					g.omitted[p.ID] = true
					continue
				}
				vp.group = grp
			case p.Service != "":
				svc, ok := g.data.Service(p.Service)
				if !ok {
					g.logger.Warn("pin references unknown service, pin not shown", "node", n.Name, "service", p.Service)
					g.omitted[p.ID] = true
					continue
				}
				vp.service = svc
			}
		}
		vn.pins = append(vn.pins, vp)
	}
	return vn
}

// Workspace returns the adopted workspace.
func (g *Graph) Workspace() *workspace.Workspace { return g.ws }

// Data returns the working draft.
func (g *Graph) Data() *workspace.Data { return g.data }

// Node returns the visual node with the given id, or nil.
func (g *Graph) Node(id entity.ID) *Node { return g.nodes[id] }

// Nodes returns the visual nodes ordered by id.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id.Less(nodes[j].id) })
	return nodes
}

// Link returns the visual link with the given id, or nil.
func (g *Graph) Link(id entity.ID) *Link { return g.links[id] }

// Links returns the visual links ordered by id.
func (g *Graph) Links() []*Link {
	links := make([]*Link, 0, len(g.links))
	for _, l := range g.links {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].id.Less(links[j].id) })
	return links
}

// errNoWorkspace guards operations that need an adopted draft.
func (g *Graph) errNoWorkspace() error {
	if g.ws == nil || g.data == nil {
		return errors.New(errors.ErrCodeFailed, "no workspace adopted")
	}
	return nil
}

// Save commits the working draft to the workspace and writes it to disk.
// Pass "" to reuse the workspace's bound path.
func (g *Graph) Save(path string) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	return g.ws.Save(path, g.data)
}

// =============================================================================
// Structural edits
// =============================================================================

// CreateNode adds a node of the given variant to both representations.
func (g *Graph) CreateNode(t entity.NodeType, name string) (*Node, error) {
	if err := g.errNoWorkspace(); err != nil {
		return nil, err
	}
	n, err := entity.NewNode(t, name)
	if err != nil {
		return nil, err
	}
	if err := g.data.AddNode(n); err != nil {
		return nil, err
	}
	vn := g.buildVisualNode(n)
	g.nodes[n.ID] = vn
	return vn, nil
}

// RemoveNode deletes a node from both representations, cascading every link
// that touches one of its pins.
func (g *Graph) RemoveNode(id entity.ID) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	vn, ok := g.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %s not found", id)
	}
	if err := g.data.RemoveNode(id); err != nil {
		return err
	}
	for _, p := range vn.pins {
		g.dropVisualLinksAt(p.id)
		delete(g.omitted, p.id)
	}
	delete(g.nodes, id)
	return nil
}

// CreateLink connects two pins, validating the endpoint pairing rules, and
// updates both representations.
func (g *Graph) CreateLink(sourcePin, targetPin entity.ID) (*Link, error) {
	if err := g.errNoWorkspace(); err != nil {
		return nil, err
	}
	src := g.findVisualPin(sourcePin)
	dst := g.findVisualPin(targetPin)
	if src == nil || dst == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "link endpoint pin not found")
	}
	l, err := entity.NewLink(sourcePin, targetPin)
	if err != nil {
		return nil, err
	}
	if err := g.data.AddLink(l); err != nil {
		return nil, err
	}
	vl := &Link{id: l.ID, source: src, target: dst}
	src.attachLink(vl)
	dst.attachLink(vl)
	g.links[l.ID] = vl
	observability.Graph().OnLinkCreated(context.Background(), g.workspaceID(), l.ID.String())
	return vl, nil
}

// RemoveLink deletes a link from both representations.
func (g *Graph) RemoveLink(id entity.ID) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	vl, ok := g.links[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "link %s not found", id)
	}
	if err := g.data.RemoveLink(id); err != nil {
		return err
	}
	vl.source.detachLink(id)
	vl.target.detachLink(id)
	delete(g.links, id)
	observability.Graph().OnLinkRemoved(context.Background(), g.workspaceID(), id.String())
	return nil
}

// BindPinService binds a server pin to a service by name in both
// representations. Fails with NotFound for an unknown service.
func (g *Graph) BindPinService(pinID entity.ID, serviceName string) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	vp := g.findVisualPin(pinID)
	if vp == nil {
		return errors.New(errors.ErrCodeNotFound, "pin %s not found", pinID)
	}
	svc, ok := g.data.Service(serviceName)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "service %q not found", serviceName)
	}
	dp, _, ok := g.data.FindPin(pinID)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "pin %s not in data model", pinID)
	}
	if err := dp.BindService(serviceName); err != nil {
		return err
	}
	vp.service = svc
	return nil
}

// BindPinServiceGroup binds a server pin to a service group by name in both
// representations. Fails with NotFound for an unknown group.
func (g *Graph) BindPinServiceGroup(pinID entity.ID, groupName string) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	vp := g.findVisualPin(pinID)
	if vp == nil {
		return errors.New(errors.ErrCodeNotFound, "pin %s not found", pinID)
	}
	grp, ok := g.data.ServiceGroup(groupName)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "service group %q not found", groupName)
	}
	dp, _, ok := g.data.FindPin(pinID)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "pin %s not in data model", pinID)
	}
	if err := dp.BindServiceGroup(groupName); err != nil {
		return err
	}
	vp.group = grp
	return nil
}

// =============================================================================
// Style edits
// =============================================================================

// AddNodeStyle adds a named node style to the draft.
func (g *Graph) AddNodeStyle(name string, s style.NodeStyle) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	return g.data.AddNodeStyle(name, s)
}

// RemoveNodeStyle deletes a node style. The adapter is the authority for the
// in-use check even though the UI is expected to check first.
func (g *Graph) RemoveNodeStyle(name string) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	return g.data.RemoveNodeStyle(name)
}

// RenameNodeStyle renames a node style.
func (g *Graph) RenameNodeStyle(oldName, newName string) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	return g.data.RenameNodeStyle(oldName, newName)
}

// AddPinStyle adds a named pin style to the draft.
func (g *Graph) AddPinStyle(name string, s style.PinStyle) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	return g.data.AddPinStyle(name, s)
}

// RemovePinStyle deletes a pin style, enforcing the in-use check.
func (g *Graph) RemovePinStyle(name string) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	return g.data.RemovePinStyle(name)
}

// RenamePinStyle renames a pin style.
func (g *Graph) RenamePinStyle(oldName, newName string) error {
	if err := g.errNoWorkspace(); err != nil {
		return err
	}
	return g.data.RenamePinStyle(oldName, newName)
}

// =============================================================================
// Notification handling
// =============================================================================

// handleNodeChange syncs a visual node mutation back into the draft. This is
// the only path by which drag, resize, and pin add/remove reach the data
// model.
func (g *Graph) handleNodeChange(vn *Node, mask UpdateKind) {
	dn, ok := g.data.Node(vn.id)
	if !ok {
		g.logger.Error("notification for node missing from draft", "node", vn.id)
		return
	}

	if mask.Has(UpdatePosition) {
		dn.X, dn.Y = vn.x, vn.y
	}
	if mask.Has(UpdateSize) {
		dn.W, dn.H = vn.w, vn.h
		dn.StaticSize = vn.static
	}
	if mask.Has(UpdateName) {
		dn.Name = vn.name
	}
	if mask.Has(UpdateStyle) {
		dn.Style = vn.style
		g.syncPinFields(dn, vn)
	}
	if mask.Has(UpdateData) {
		dn.Data = vn.data
	}
	if mask.Has(UpdatePinAdded) || mask.Has(UpdatePinRemoved) {
		g.syncPins(dn, vn)
	}

	// Selection never touches the draft, but observers (a properties panel,
	// for one) still want the event.
	observability.Graph().OnNodeChanged(context.Background(), g.workspaceID(), vn.id.String(), uint32(mask))
}

// syncPins reconciles a node's data pins with its visual pins. Pins in the
// omitted set never count as removed: they are invisible, not deleted.
func (g *Graph) syncPins(dn *entity.Node, vn *Node) {
	next := make([]*entity.Pin, 0, len(vn.pins))
	for _, vp := range vn.pins {
		next = append(next, visualPinToEntity(vp))
	}
	added, removed := entity.DiffPins(dn.Pins, next)

	for _, p := range removed {
		if g.omitted[p.ID] {
			continue
		}
		if err := dn.RemovePin(p.ID); err != nil {
			g.logger.Error("pin sync removal failed", "pin", p.ID, "err", err)
			continue
		}
		g.dropLinksAt(p.ID)
	}
	for _, p := range added {
		if err := dn.AddPin(p); err != nil {
			g.logger.Error("pin sync addition failed", "pin", p.ID, "err", err)
		}
	}
	g.syncPinFields(dn, vn)
}

// syncPinFields copies the mutable fields of surviving pins from the visual
// graph into the draft.
func (g *Graph) syncPinFields(dn *entity.Node, vn *Node) {
	for _, vp := range vn.pins {
		if dp := dn.Pin(vp.id); dp != nil {
			dp.Name = vp.name
			dp.Style = vp.style
			dp.RelX, dp.RelY = vp.relX, vp.relY
		}
	}
}

// dropLinksAt removes every link touching the given pin from both
// representations.
func (g *Graph) dropLinksAt(pinID entity.ID) {
	for _, l := range g.data.Links() {
		if l.Source == pinID || l.Target == pinID {
			if err := g.data.RemoveLink(l.ID); err != nil {
				g.logger.Error("cascading link removal failed", "link", l.ID, "err", err)
			}
		}
	}
	g.dropVisualLinksAt(pinID)
}

func (g *Graph) dropVisualLinksAt(pinID entity.ID) {
	for id, vl := range g.links {
		if vl.source.id == pinID || vl.target.id == pinID {
			vl.source.detachLink(id)
			vl.target.detachLink(id)
			delete(g.links, id)
			observability.Graph().OnLinkRemoved(context.Background(), g.workspaceID(), id.String())
		}
	}
}

// findVisualPin locates a pin across all visual nodes. Linear in the total
// pin count, which is fine at diagram scale.
func (g *Graph) findVisualPin(id entity.ID) *Pin {
	for _, n := range g.nodes {
		if p := n.Pin(id); p != nil {
			return p
		}
	}
	return nil
}

func (g *Graph) workspaceID() string {
	if g.ws == nil {
		return ""
	}
	return g.ws.ID().String()
}

func visualPinToEntity(vp *Pin) *entity.Pin {
	p := &entity.Pin{
		ID:    vp.id,
		Name:  vp.name,
		Style: vp.style,
		Type:  vp.pinType,
		RelX:  vp.relX,
		RelY:  vp.relY,
	}
	if vp.service != nil {
		p.Service = vp.service.Name
	}
	if vp.group != nil {
		p.Group = vp.group.Name
	}
	return p
}

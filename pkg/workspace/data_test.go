package workspace

import (
	"testing"

	"github.com/isochrone/isochrone/pkg/config"
	"github.com/isochrone/isochrone/pkg/entity"
	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/style"
)

func newTestData(t *testing.T) *Data {
	t.Helper()
	return NewData(config.Default(), "test")
}

func mustNode(t *testing.T, typ entity.NodeType, name string) *entity.Node {
	t.Helper()
	n, err := entity.NewNode(typ, name)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	return n
}

func mustPin(t *testing.T, typ entity.PinType, relX, relY float64) *entity.Pin {
	t.Helper()
	p, err := entity.NewPin(typ, relX, relY)
	if err != nil {
		t.Fatalf("NewPin: %v", err)
	}
	return p
}

func mustService(t *testing.T, name string, proto entity.Protocol) *entity.Service {
	t.Helper()
	s, err := entity.NewService(name, proto)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

// clientServerPair wires a client pin on one node to a server pin on another
// and returns both pins.
func clientServerPair(t *testing.T, d *Data) (client, server *entity.Pin) {
	t.Helper()
	a := mustNode(t, entity.NodeSystem, "a")
	b := mustNode(t, entity.NodeSystem, "b")
	client = mustPin(t, entity.PinClient, 1, 0.5)
	server = mustPin(t, entity.PinServer, 0, 0.5)
	if err := a.AddPin(client); err != nil {
		t.Fatal(err)
	}
	if err := b.AddPin(server); err != nil {
		t.Fatal(err)
	}
	if err := d.AddNode(a); err != nil {
		t.Fatal(err)
	}
	if err := d.AddNode(b); err != nil {
		t.Fatal(err)
	}
	return client, server
}

func TestAddNode(t *testing.T) {
	d := newTestData(t)
	n := mustNode(t, entity.NodeSystem, "host")

	if err := d.AddNode(n); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := d.AddNode(n); !errors.Is(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("duplicate AddNode = %v, want ALREADY_EXISTS", err)
	}
	if err := d.AddNode(&entity.Node{ID: entity.NewID()}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("typeless AddNode = %v, want INVALID_ARGUMENT", err)
	}
	if err := d.AddNode(nil); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("nil AddNode = %v, want INVALID_ARGUMENT", err)
	}
}

func TestRemoveNodeCascadesLinks(t *testing.T) {
	d := newTestData(t)
	client, server := clientServerPair(t, d)

	l, err := entity.NewLink(client.ID, server.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AddLink(l); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	_, host, ok := d.FindPin(server.ID)
	if !ok {
		t.Fatal("server pin not found")
	}
	if err := d.RemoveNode(host.ID); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if d.LinkCount() != 0 {
		t.Error("link touching removed node survived")
	}
	if err := d.RemoveNode(host.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second RemoveNode = %v, want NOT_FOUND", err)
	}
}

func TestAddLinkValidation(t *testing.T) {
	d := newTestData(t)
	client, server := clientServerPair(t, d)

	// Connector on a third node: pairing with client or server must fail.
	c := mustNode(t, entity.NodeBoundary, "edge")
	connector := mustPin(t, entity.PinConnector, 0, 0)
	if err := c.AddPin(connector); err != nil {
		t.Fatal(err)
	}
	if err := d.AddNode(c); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		src, dst entity.ID
		wantCode errors.Code
	}{
		{"ClientToServer", client.ID, server.ID, ""},
		{"SelfLink", client.ID, client.ID, errors.ErrCodeInvalidArgument},
		{"ClientToConnector", client.ID, connector.ID, errors.ErrCodeInvalidArgument},
		{"MissingEndpoint", client.ID, entity.NewID(), errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &entity.Link{ID: entity.NewID(), Source: tt.src, Target: tt.dst}
			err := d.AddLink(l)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("AddLink: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("AddLink = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestServiceUniquenessAndSanitize(t *testing.T) {
	d := newTestData(t)

	if err := d.AddService(mustService(t, "HTTP", entity.ProtocolTCP)); err != nil {
		t.Fatalf("AddService: %v", err)
	}
	if err := d.AddService(mustService(t, "HTTP", entity.ProtocolUDP)); !errors.Is(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("duplicate AddService = %v, want ALREADY_EXISTS", err)
	}

	// Separator characters are replaced before the uniqueness check runs.
	if err := d.AddService(mustService(t, "HT;TP", entity.ProtocolTCP)); err != nil {
		t.Fatalf("AddService sanitized: %v", err)
	}
	if _, ok := d.Service("HT_TP"); !ok {
		t.Error("sanitized service name not found")
	}
}

func TestRemoveServiceInUse(t *testing.T) {
	d := newTestData(t)
	_, server := clientServerPair(t, d)

	if err := d.AddService(mustService(t, "HTTP", entity.ProtocolTCP)); err != nil {
		t.Fatal(err)
	}
	if err := server.BindService("HTTP"); err != nil {
		t.Fatal(err)
	}

	if err := d.RemoveService("HTTP"); !errors.Is(err, errors.ErrCodeInUse) {
		t.Errorf("RemoveService referenced = %v, want IN_USE", err)
	}
	server.Service = ""
	if err := d.RemoveService("HTTP"); err != nil {
		t.Errorf("RemoveService unreferenced: %v", err)
	}
	if err := d.RemoveService("HTTP"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("RemoveService missing = %v, want NOT_FOUND", err)
	}
}

func TestRemoveServiceBlockedByGroup(t *testing.T) {
	d := newTestData(t)
	if err := d.AddService(mustService(t, "DNS", entity.ProtocolUDP)); err != nil {
		t.Fatal(err)
	}
	g, err := entity.NewServiceGroup("Infra")
	if err != nil {
		t.Fatal(err)
	}
	g.Services = []string{"DNS"}
	if err := d.AddServiceGroup(g); err != nil {
		t.Fatal(err)
	}

	if err := d.RemoveService("DNS"); !errors.Is(err, errors.ErrCodeInUse) {
		t.Errorf("RemoveService group member = %v, want IN_USE", err)
	}
}

func TestAddServiceGroupUnknownMember(t *testing.T) {
	d := newTestData(t)
	g, err := entity.NewServiceGroup("Infra")
	if err != nil {
		t.Fatal(err)
	}
	g.Services = []string{"Ghost"}
	if err := d.AddServiceGroup(g); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("AddServiceGroup unknown member = %v, want NOT_FOUND", err)
	}
}

func TestServicesSorted(t *testing.T) {
	d := newTestData(t)
	for _, name := range []string{"ssh", "dns", "http"} {
		if err := d.AddService(mustService(t, name, entity.ProtocolTCP)); err != nil {
			t.Fatal(err)
		}
	}
	svcs := d.Services()
	for i := 1; i < len(svcs); i++ {
		if svcs[i-1].Name > svcs[i].Name {
			t.Fatalf("services out of order: %q before %q", svcs[i-1].Name, svcs[i].Name)
		}
	}
}

func TestRemoveNodeStyleProtection(t *testing.T) {
	d := newTestData(t)

	if err := d.RemoveNodeStyle("Default:System"); !errors.Is(err, errors.ErrCodeAccessDenied) {
		t.Errorf("remove reserved = %v, want ACCESS_DENIED", err)
	}

	if err := d.AddNodeStyle("CustomStyle", style.NodeStyle{}); err != nil {
		t.Fatal(err)
	}
	n := mustNode(t, entity.NodeSystem, "host")
	n.Style = "CustomStyle"
	if err := d.AddNode(n); err != nil {
		t.Fatal(err)
	}

	if err := d.RemoveNodeStyle("CustomStyle"); !errors.Is(err, errors.ErrCodeInUse) {
		t.Errorf("remove referenced = %v, want IN_USE", err)
	}
	if err := d.RemoveNode(n.ID); err != nil {
		t.Fatal(err)
	}
	if err := d.RemoveNodeStyle("CustomStyle"); err != nil {
		t.Errorf("remove after node gone: %v", err)
	}
}

func TestRemovePinStyleInUse(t *testing.T) {
	d := newTestData(t)
	_, server := clientServerPair(t, d)

	if err := d.AddPinStyle("Glow", style.PinStyle{}); err != nil {
		t.Fatal(err)
	}
	server.Style = "Glow"
	if err := d.RemovePinStyle("Glow"); !errors.Is(err, errors.ErrCodeInUse) {
		t.Errorf("remove referenced pin style = %v, want IN_USE", err)
	}
}

func TestSettings(t *testing.T) {
	d := newTestData(t)

	// Unset keys fall back to the built-in default.
	if v, ok := d.Setting("grid.spacing"); !ok || v != "24" {
		t.Errorf("default grid.spacing = %q, %v", v, ok)
	}

	if err := d.SetSetting("grid.spacing", "32"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if n, err := d.UintSetting("grid.spacing"); err != nil || n != 32 {
		t.Errorf("UintSetting = %d, %v", n, err)
	}

	if err := d.SetSetting("grid.spacing", "not-a-number"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("bad value = %v, want INVALID_ARGUMENT", err)
	}
	if err := d.SetSetting("no.such.key", "1"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("unknown key = %v, want INVALID_ARGUMENT", err)
	}
	if err := d.SetSetting("panel.styles", "sideways"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("bad dock location = %v, want INVALID_ARGUMENT", err)
	}
	if err := d.SetSetting("grid.visible", "false"); err != nil {
		t.Fatal(err)
	}
	if v, err := d.BoolSetting("grid.visible"); err != nil || v {
		t.Errorf("BoolSetting = %v, %v", v, err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := newTestData(t)
	client, server := clientServerPair(t, d)
	if err := d.AddService(mustService(t, "HTTP", entity.ProtocolTCP)); err != nil {
		t.Fatal(err)
	}
	l, err := entity.NewLink(client.ID, server.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AddLink(l); err != nil {
		t.Fatal(err)
	}

	c := d.Clone()
	_, host, _ := c.FindPin(client.ID)
	if err := c.RemoveNode(host.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveService("HTTP"); err != nil {
		t.Fatal(err)
	}

	if d.NodeCount() != 2 || d.LinkCount() != 1 {
		t.Error("mutating the clone changed the original graph")
	}
	if _, ok := d.Service("HTTP"); !ok {
		t.Error("mutating the clone removed the original's service")
	}
}

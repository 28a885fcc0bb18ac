package workspace

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/isochrone/isochrone/pkg/config"
	"github.com/isochrone/isochrone/pkg/entity"
	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/observability"
	"github.com/isochrone/isochrone/pkg/style"
)

// state tracks the one-shot lifecycle of a Workspace instance.
type state int

const (
	// stateUnloaded is the initial state of a shell built with New. The only
	// valid transition out of it is Load.
	stateUnloaded state = iota
	// stateNew is a brand-new unsaved workspace built with Create.
	stateNew
	// stateLoaded holds a deserialized file. Load never runs twice on one
	// instance; opening another file means constructing another Workspace.
	stateLoaded
)

// Workspace is the persistence engine for one workspace file. It owns the
// canonical Data, the workspace identity, and the file path the workspace is
// bound to.
//
// An instance is either created fresh (Create) or populated exactly once from
// a file (New followed by Load). The path is established by the first Load or
// Save and reused by later saves unless an explicit path overrides it.
type Workspace struct {
	cfg    *config.Config
	logger *log.Logger

	state state
	id    entity.ID
	path  string
	data  *Data
}

// New returns an unloaded workspace shell ready for Load.
func New(cfg *config.Config, logger *log.Logger) *Workspace {
	if logger == nil {
		logger = log.Default()
	}
	return &Workspace{cfg: cfg, logger: logger}
}

// Create returns a brand-new unsaved workspace with a generated identifier
// and the inbuilt default styles installed.
func Create(cfg *config.Config, logger *log.Logger, name string) *Workspace {
	w := New(cfg, logger)
	w.state = stateNew
	w.id = entity.NewID()
	w.data = NewData(cfg, name)
	return w
}

// ID returns the workspace identifier. Nil until Create or Load.
func (w *Workspace) ID() entity.ID { return w.id }

// Name returns the workspace name. Empty until Create or Load.
func (w *Workspace) Name() string {
	if w.data == nil {
		return ""
	}
	return w.data.Name
}

// Path returns the file path the workspace is bound to, or "" while unsaved.
func (w *Workspace) Path() string { return w.path }

// Data returns the canonical data container. Nil until Create or Load.
func (w *Workspace) Data() *Data { return w.data }

// errNoData guards the mutation delegates below against use before Create
// or Load.
func (w *Workspace) errNoData() error {
	if w.data == nil {
		return errors.New(errors.ErrCodeFailed, "workspace holds no data yet")
	}
	return nil
}

// AddNode inserts a node into the canonical data.
func (w *Workspace) AddNode(n *entity.Node) error {
	if err := w.errNoData(); err != nil {
		return err
	}
	return w.data.AddNode(n)
}

// AddLink inserts a link into the canonical data.
func (w *Workspace) AddLink(l *entity.Link) error {
	if err := w.errNoData(); err != nil {
		return err
	}
	return w.data.AddLink(l)
}

// AddService inserts a service into the canonical data.
func (w *Workspace) AddService(s *entity.Service) error {
	if err := w.errNoData(); err != nil {
		return err
	}
	return w.data.AddService(s)
}

// AddServiceGroup inserts a service group into the canonical data.
func (w *Workspace) AddServiceGroup(g *entity.ServiceGroup) error {
	if err := w.errNoData(); err != nil {
		return err
	}
	return w.data.AddServiceGroup(g)
}

// AddNodeStyle adds a named node style to the canonical data.
func (w *Workspace) AddNodeStyle(name string, s style.NodeStyle) error {
	if err := w.errNoData(); err != nil {
		return err
	}
	return w.data.AddNodeStyle(name, s)
}

// AddPinStyle adds a named pin style to the canonical data.
func (w *Workspace) AddPinStyle(name string, s style.PinStyle) error {
	if err := w.errNoData(); err != nil {
		return err
	}
	return w.data.AddPinStyle(name, s)
}

// Load deserializes a workspace file into this instance. It is one-shot:
// calling it on an instance that already holds data fails with AlreadyExists.
//
// Malformed elements inside the file are logged and skipped rather than
// failing the load; only an unreadable file, unparseable XML, a missing or
// malformed root, or an unknown format version fail outright.
func (w *Workspace) Load(path string) error {
	if w.state != stateUnloaded {
		return errors.New(errors.ErrCodeAlreadyExists, "workspace already holds data; open files into a fresh instance")
	}
	if err := errors.ValidateWorkspacePath(path); err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFailed, err, "read workspace %s", path)
	}

	id, data, skipped, err := decodeWorkspace(w.cfg, w.logger, raw)
	if err != nil {
		return err
	}

	w.state = stateLoaded
	w.id = id
	w.data = data
	w.path = path
	observability.Persistence().OnLoaded(context.Background(), w.id.String(), path, skipped)
	w.logger.Info("workspace loaded", "path", path, "nodes", data.NodeCount(), "links", data.LinkCount(), "skipped", skipped)
	return nil
}

// Save serializes the workspace to disk.
//
// The data argument is optional: pass nil to save the canonical data, or an
// edited draft (from the live adapter) to commit it. A committed draft
// replaces the canonical data.
//
// The path argument is optional once the workspace is bound to a file: pass
// "" to reuse the bound path. A non-empty path (re)binds the workspace.
// The destination is opened for writing before serialization starts so
// permission problems surface before any work is done.
func (w *Workspace) Save(path string, data *Data) error {
	if w.data == nil && data == nil {
		return errors.New(errors.ErrCodeFailed, "workspace has no data to save")
	}
	if path == "" {
		path = w.path
	}
	if err := errors.ValidateWorkspacePath(path); err != nil {
		return err
	}
	if data == nil {
		data = w.data
	}
	if w.id.IsNil() {
		w.id = entity.NewID()
	}

	// Touch the destination first. A file we cannot open for writing must
	// fail before serialization, not after.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFailed, err, "open %s for writing", path)
	}
	f.Close()

	raw, err := encodeWorkspace(w.id, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFailed, err, "write workspace %s", path)
	}

	w.data = data
	w.path = path
	observability.Persistence().OnSaved(context.Background(), w.id.String(), path)
	w.logger.Info("workspace saved", "path", path, "nodes", data.NodeCount(), "links", data.LinkCount())
	return nil
}

// Package observability provides hooks for broadcasting workspace events.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific consumers. The UI layer (or any other external
// collaborator, such as a properties panel) registers hooks at startup to
// receive events about live-graph mutations and persistence operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library free of UI dependencies
//   - Allows different consumers (properties panels, loggers, test probes)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGraphHooks(&myPanelRefresher{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Graph().OnNodeChanged(ctx, wsID, nodeID, mask)
package observability

import (
	"context"
	"sync"
)

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from live-graph mutations.
//
// Identifiers are passed in canonical string form and the change mask is the
// raw bitmask from the notification protocol, so consumers do not need to
// import the graph packages.
type GraphHooks interface {
	// OnNodeChanged records a mutation of one node. The mask is a bitwise OR
	// of the update kinds that occurred.
	OnNodeChanged(ctx context.Context, workspaceID, nodeID string, mask uint32)

	// OnLinkCreated records a new link between two pins.
	OnLinkCreated(ctx context.Context, workspaceID, linkID string)

	// OnLinkRemoved records a removed link.
	OnLinkRemoved(ctx context.Context, workspaceID, linkID string)
}

// =============================================================================
// Persistence Hooks
// =============================================================================

// PersistenceHooks receives events from workspace load/save operations.
type PersistenceHooks interface {
	// OnElementSkipped records one malformed element dropped during a
	// tolerant load. kind names the element class (node, pin, link, service,
	// group, style, setting).
	OnElementSkipped(ctx context.Context, workspaceID, kind, reason string)

	// OnLoaded records a completed load.
	OnLoaded(ctx context.Context, workspaceID, path string, skipped int)

	// OnSaved records a completed save.
	OnSaved(ctx context.Context, workspaceID, path string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnNodeChanged(context.Context, string, string, uint32) {}
func (NoopGraphHooks) OnLinkCreated(context.Context, string, string)         {}
func (NoopGraphHooks) OnLinkRemoved(context.Context, string, string)         {}

// NoopPersistenceHooks is a no-op implementation of PersistenceHooks.
type NoopPersistenceHooks struct{}

func (NoopPersistenceHooks) OnElementSkipped(context.Context, string, string, string) {}
func (NoopPersistenceHooks) OnLoaded(context.Context, string, string, int)            {}
func (NoopPersistenceHooks) OnSaved(context.Context, string, string)                  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	graphHooks       GraphHooks       = NoopGraphHooks{}
	persistenceHooks PersistenceHooks = NoopPersistenceHooks{}
	hooksMu          sync.RWMutex
)

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any graph operations.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetPersistenceHooks registers custom persistence hooks.
// This should be called once at application startup before any load/save.
func SetPersistenceHooks(h PersistenceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		persistenceHooks = h
	}
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Persistence returns the registered persistence hooks.
func Persistence() PersistenceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return persistenceHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	persistenceHooks = NoopPersistenceHooks{}
}

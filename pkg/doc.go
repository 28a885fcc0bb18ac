// Package pkg provides the core libraries of the isochrone workspace engine.
//
// # Overview
//
// Isochrone edits network-topology diagrams: nodes representing systems and
// boundaries, pins representing service endpoints, and links representing
// connections, persisted as versioned XML workspace files. The pkg directory
// is organized around that flow:
//
//  1. [entity] - Graph entities (nodes, pins, links, services, groups)
//  2. [workspace] - Canonical data container and XML persistence engine
//  3. [live] - Mutable visual graph and the notification/sync protocol
//  4. [style] - Visual style values and reserved-name-protected style lists
//  5. [config] - Process-wide defaults table (reserved names, settings types)
//  6. [render] - Graphviz DOT/SVG topology export
//  7. [errors] - Structured error codes shared by every layer
//  8. [observability] - Optional hooks for UI panels and instrumentation
//
// # Architecture
//
// The typical flow during an editing session:
//
//	workspace file (XML)
//	         ↓ Load
//	    [workspace] canonical Data
//	         ↓ SetWorkspace (clone)
//	    [live] visual graph  ←→  UI edits
//	         ↓ Save (commit draft)
//	    [workspace] Save → XML
//
// Structural edits mutate the draft and the visuals in the same call;
// per-frame mutations (drag, resize, pin add/remove) reach the draft through
// the live package's notification protocol. Loading is tolerant: malformed
// elements are logged and skipped so a damaged file still opens with its
// valid majority intact.
package pkg

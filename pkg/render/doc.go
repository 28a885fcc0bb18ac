// Package render exports workspace topology as Graphviz DOT and SVG.
//
// The export is a read-only view over workspace data: nodes become boxes,
// links become undirected edges between the pins' host systems. It exists for
// sharing and documentation; the interactive canvas has its own renderer
// outside this module.
package render

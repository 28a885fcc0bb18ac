package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/isochrone/isochrone/pkg/entity"
	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/workspace"
)

// Options configures topology export.
type Options struct {
	// Detailed adds node types and server-pin service bindings to labels.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts workspace data to Graphviz DOT for an undirected topology
// view. Links are drawn between the endpoint pins' host nodes; a link whose
// endpoint pin cannot be located is silently left out, matching the tolerant
// posture of the rest of the engine.
func ToDOT(d *workspace.Data, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph topology {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes() {
		attrs := nodeAttrs(d, n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range d.Links() {
		_, srcHost, okSrc := d.FindPin(l.Source)
		_, dstHost, okDst := d.FindPin(l.Target)
		if !okSrc || !okDst {
			continue
		}
		if l.Text != "" {
			fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", srcHost.ID.String(), dstHost.ID.String(), l.Text)
		} else {
			fmt.Fprintf(&buf, "  %q -- %q;\n", srcHost.ID.String(), dstHost.ID.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(d *workspace.Data, n *entity.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(d, n, detailed))}
	switch n.Type {
	case entity.NodeBoundary:
		attrs = append(attrs, "style=\"rounded,dashed\"")
	case entity.NodeMultiSystem:
		attrs = append(attrs, "shape=box3d")
	}
	return attrs
}

func nodeLabel(d *workspace.Data, n *entity.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name, n.Type.String()}
	for _, p := range n.Pins {
		if p.Type != entity.PinServer {
			continue
		}
		switch {
		case p.Service != "":
			if svc, ok := d.Service(p.Service); ok {
				parts = append(parts, serviceLabel(svc))
			} else {
				parts = append(parts, p.Service)
			}
		case p.Group != "":
			parts = append(parts, p.Group+" (group)")
		}
	}
	return strings.Join(parts, "\n")
}

func serviceLabel(s *entity.Service) string {
	switch s.Protocol {
	case entity.ProtocolICMP:
		return fmt.Sprintf("%s icmp %d/%d", s.Name, s.ICMPType, s.ICMPCode)
	default:
		if s.PortHigh > s.Port {
			return fmt.Sprintf("%s %s %d-%d", s.Name, s.Protocol, s.Port, s.PortHigh)
		}
		return fmt.Sprintf("%s %s %d", s.Name, s.Protocol, s.Port)
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg element so the viewBox starts at the
// origin and the width/height match it, which keeps downstream viewers from
// clipping the diagram.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	repl := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(repl))
}

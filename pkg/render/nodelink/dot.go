package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Relayout drops snapshot positions and lets Graphviz lay the graph out with dot.
	Relayout bool
	// FullLabels uses the untruncated node text as label.
	FullLabels bool
	// Marked outlines the node with this id, if set.
	Marked *int
}

// ToDOT converts the nodes and edges of snap to Graphviz DOT. Node styling comes
// from g; nodes of snap that g does not know are skipped.
func ToDOT(g *cfg.Graph, snap layout.Snapshot, opts Options) string {
	attrs := render.GraphAttributes(g)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", strconv.Quote(g.Name()))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Relayout {
		buf.WriteString("  rankdir=TB;\n  ranksep=0.5;\n  nodesep=0.3;\n")
	} else {
		// Positions are given in points.
		buf.WriteString("  inputscale=72;\n  splines=line;\n  overlap=true;\n")
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", penwidth=2];\n")
	buf.WriteString("  edge [arrowsize=0.8];\n\n")

	known := make(map[int]bool, len(snap.Nodes))
	for _, n := range snap.Nodes {
		a, ok := attrs[n.ID]
		if !ok {
			continue
		}
		known[n.ID] = true
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(nodeAttrs(n, a, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e.Kind), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n layout.NodePosition, a render.Attributes, opts Options) []string {
	label := a.Short
	if opts.FullLabels {
		label = a.Label
	}
	if a.Badge != "" {
		label = a.Badge + "\n" + label
	}
	stroke := a.Stroke
	if opts.Marked != nil && *opts.Marked == n.ID {
		stroke = render.HighlightStroke
	}
	out := []string{
		fmt.Sprintf("label=%s", strconv.Quote(label)),
		fmt.Sprintf("fillcolor=%q", a.Fill),
		fmt.Sprintf("color=%q", stroke),
		fmt.Sprintf("fontcolor=%q", a.TextColor),
		fmt.Sprintf("fontsize=%g", a.FontSize),
		fmt.Sprintf("width=%.3f", a.Width/72),
		fmt.Sprintf("height=%.3f", a.Height/72),
		"fixedsize=true",
	}
	if !opts.Relayout {
		// Graphviz's y axis points up.
		out = append(out, fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, -n.Y))
	}
	return out
}

func edgeAttrs(k cfg.EdgeKind) []string {
	st := render.StyleForEdge(k)
	out := []string{fmt.Sprintf("color=%q", st.Color), fmt.Sprintf("penwidth=%g", st.Width)}
	switch k {
	case cfg.EdgeTrue:
		out = append(out, `label="T"`, fmt.Sprintf("fontcolor=%q", st.LabelFill))
	case cfg.EdgeFalse:
		out = append(out, `label="F"`, fmt.Sprintf("fontcolor=%q", st.LabelFill))
	case cfg.EdgeDetail:
		out = append(out, `style=dashed`, `arrowhead=none`)
	}
	return out
}

// RenderSVG renders DOT source to SVG using Graphviz. Pinned sources are drawn with
// neato, others with dot.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Parse(err, "parse DOT")
	}
	defer g.Close()

	if strings.Contains(dot, "!\"") {
		gv.SetLayout(graphviz.NEATO)
	} else {
		gv.SetLayout(graphviz.DOT)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a unitless one so
// the SVG scales in browsers and in rsvg-convert.
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
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Render renders the DOT export of snap straight to f (svg, pdf, png or dot).
func Render(ctx context.Context, g *cfg.Graph, snap layout.Snapshot, opts Options, f render.Format, scale float64) ([]byte, error) {
	dot := ToDOT(g, snap, opts)
	if f == render.FormatDOT {
		return []byte(dot), nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, f, scale)
}

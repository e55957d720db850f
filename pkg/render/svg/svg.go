// Package svg draws layout snapshots as standalone SVG documents.
//
// The drawing mirrors the interactive canvas: rounded boxes colored by role, START
// and END badges, arrowheads per branch kind, dashed detail edges and T/F labels at
// the midpoints of branch edges.
//
//	attrs := render.GraphAttributes(g)
//	doc := svg.Render(sim.Snapshot(), attrs, svg.WithMarked(3))
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/render"
)

const fontFamily = `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif`

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	width, height float64
	fit           bool
	padding       float64
	title         string
	marked        int
	hasMark       bool
	tooltips      map[int]string
}

// WithCanvas sets the viewBox to a fixed canvas, normally the layout canvas.
func WithCanvas(width, height float64) Option {
	return func(r *renderer) { r.width, r.height, r.fit = width, height, false }
}

// WithFit sizes the viewBox to the drawn boxes plus padding instead of the canvas.
func WithFit(padding float64) Option {
	return func(r *renderer) { r.fit, r.padding = true, padding }
}

// WithTitle adds a document title.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithMarked outlines node id as selected.
func WithMarked(id int) Option { return func(r *renderer) { r.marked, r.hasMark = id, true } }

// WithTooltips attaches a hover title to each node that has an entry.
func WithTooltips(tips map[int]string) Option { return func(r *renderer) { r.tooltips = tips } }

// Render draws snap. attrs must hold an entry for every node of the snapshot;
// nodes without one are skipped.
func Render(snap layout.Snapshot, attrs map[int]render.Attributes, opts ...Option) []byte {
	d := layout.DefaultOptions()
	r := renderer{width: d.Width, height: d.Height}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, w, h := 0.0, 0.0, r.width, r.height
	if r.fit {
		minX, minY, w, h = fitBox(snap, attrs, r.padding)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f" preserveAspectRatio="xMidYMid meet">`+"\n",
		minX, minY, w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	writeDefs(&buf)

	buf.WriteString(`  <g class="links">` + "\n")
	for _, e := range snap.Edges {
		writeEdge(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="edge-labels">` + "\n")
	for _, l := range snap.Labels {
		fill := render.StyleForEdge(cfg.EdgeTrue).LabelFill
		if l.Text == "F" {
			fill = render.StyleForEdge(cfg.EdgeFalse).LabelFill
		}
		fmt.Fprintf(&buf, `    <text class="edge-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family='%s' font-size="12px" font-weight="bold" fill="%s">%s</text>`+"\n",
			l.X, l.Y, fontFamily, fill, escape(l.Text))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range snap.Nodes {
		a, ok := attrs[n.ID]
		if !ok {
			continue
		}
		r.writeNode(&buf, n, a)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, k := range []cfg.EdgeKind{cfg.EdgeSequential, cfg.EdgeTrue, cfg.EdgeFalse} {
		st := render.StyleForEdge(k)
		refX := 14
		if k == cfg.EdgeSequential {
			refX = 36
		}
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 -5 10 10" refX="%d" refY="0" markerWidth="12" markerHeight="12" orient="auto"><path d="M 0,-5 L 10,0 L 0,5" fill="%s"/></marker>`+"\n",
			st.Marker, refX, st.Color)
	}
	buf.WriteString("  </defs>\n")
}

func writeEdge(buf *bytes.Buffer, e layout.EdgeSegment) {
	st := render.StyleForEdge(e.Kind)
	fmt.Fprintf(buf, `    <line id="edge-%d" class="link %s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g"`,
		e.ID, kindClass(e.Kind), e.X1, e.Y1, e.X2, e.Y2, st.Color, st.Width)
	if st.Dash != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, st.Dash)
	}
	if st.Marker != "" {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, st.Marker)
	}
	buf.WriteString("/>\n")
}

func (r *renderer) writeNode(buf *bytes.Buffer, n layout.NodePosition, a render.Attributes) {
	class := "node " + a.Role.String()
	stroke, strokeWidth := a.Stroke, 2
	if r.hasMark && r.marked == n.ID {
		class += " highlighted"
		stroke, strokeWidth = render.HighlightStroke, 4
	}
	fmt.Fprintf(buf, `    <g id="node-%d" class="%s" transform="translate(%.2f,%.2f)">`+"\n", n.ID, class, n.X, n.Y)
	if tip, ok := r.tooltips[n.ID]; ok {
		fmt.Fprintf(buf, "      <title>%s</title>\n", escape(tip))
	}
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="5" ry="5" fill="%s" stroke="%s" stroke-width="%d"/>`+"\n",
		-a.Width/2, -a.Height/2, a.Width, a.Height, a.Fill, stroke, strokeWidth)
	fmt.Fprintf(buf, `      <text text-anchor="middle" dominant-baseline="middle" font-family='%s' font-size="%gpx" font-weight="500" fill="%s">%s</text>`+"\n",
		fontFamily, a.FontSize, a.TextColor, escape(a.Short))
	if a.Badge != "" {
		fmt.Fprintf(buf, `      <text class="badge" text-anchor="middle" y="%.1f" font-family='%s' font-size="10px" font-weight="bold" fill="#fff">%s</text>`+"\n",
			-(a.Height/2)-8, fontFamily, a.Badge)
	}
	buf.WriteString("    </g>\n")
}

func fitBox(snap layout.Snapshot, attrs map[int]render.Attributes, padding float64) (x, y, w, h float64) {
	if len(snap.Nodes) == 0 {
		return 0, 0, 2 * padding, 2 * padding
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range snap.Nodes {
		a := attrs[n.ID]
		// Badges sit above the box.
		top := a.Height/2 + 20
		minX = math.Min(minX, n.X-a.Width/2)
		maxX = math.Max(maxX, n.X+a.Width/2)
		minY = math.Min(minY, n.Y-top)
		maxY = math.Max(maxY, n.Y+a.Height/2)
	}
	return minX - padding, minY - padding, maxX - minX + 2*padding, maxY - minY + 2*padding
}

func kindClass(k cfg.EdgeKind) string {
	switch k {
	case cfg.EdgeTrue:
		return "true"
	case cfg.EdgeFalse:
		return "false"
	case cfg.EdgeDetail:
		return "detail"
	default:
		return "sequential"
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

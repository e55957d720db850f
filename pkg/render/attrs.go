package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

// Box sizes and label limits. Main-graph nodes are drawn larger than detail nodes.
const (
	charWidth = 8

	MainMinWidth   = 120
	MainHeight     = 50
	MainMaxLabel   = 14
	DetailMinWidth = 80
	DetailHeight   = 35
	DetailMaxLabel = 10

	ellipsis = "..."
)

// Attributes are the static drawing properties of a node. They depend only on the
// node's text and role and are computed once per graph.
type Attributes struct {
	ID         int      `json:"id"`
	Role       cfg.Role `json:"role"`
	Label      string   `json:"label"` // full text
	Short      string   `json:"short"` // text truncated for the box
	Expandable bool     `json:"expandable"`
	Badge      string   `json:"badge,omitempty"` // "START" or "END"
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Fill       string   `json:"fill"`
	Stroke     string   `json:"stroke"`
	TextColor  string   `json:"textColor"`
	FontSize   float64  `json:"fontSize"`
}

type palette struct{ fill, stroke, text string }

var rolePalette = map[cfg.Role]palette{
	cfg.RoleStart:  {fill: "#1D7A86", stroke: "#1A6B75", text: "#ffffff"},
	cfg.RoleEnd:    {fill: "#9333ea", stroke: "#7c3aed", text: "#ffffff"},
	cfg.RoleMain:   {fill: "#218385", stroke: "#1D7A86", text: "#ffffff"},
	cfg.RoleDetail: {fill: "#f3f4f6", stroke: "#d1d5db", text: "#374151"},
}

// NodeAttributes computes the drawing properties of n.
func NodeAttributes(n *cfg.Node) Attributes {
	detail := n.Role == cfg.RoleDetail
	minWidth, height, maxLabel, fontSize := float64(MainMinWidth), float64(MainHeight), MainMaxLabel, 12.0
	if detail {
		minWidth, height, maxLabel, fontSize = DetailMinWidth, DetailHeight, DetailMaxLabel, 10
	}

	p := rolePalette[n.Role]
	a := Attributes{
		ID:        n.ID,
		Role:      n.Role,
		Label:     n.Text,
		Short:     n.Text,
		Width:     max(minWidth, float64(utf8.RuneCountInString(n.Text)*charWidth)),
		Height:    height,
		Fill:      p.fill,
		Stroke:    p.stroke,
		TextColor: p.text,
		FontSize:  fontSize,
	}
	if short, cut := Truncate(n.Text, maxLabel); cut {
		a.Short, a.Expandable = short, true
	}
	switch n.Role {
	case cfg.RoleStart:
		a.Badge = "START"
	case cfg.RoleEnd:
		a.Badge = "END"
	}
	return a
}

// GraphAttributes computes attributes for every node of g.
func GraphAttributes(g *cfg.Graph) map[int]Attributes {
	out := make(map[int]Attributes, g.NodeCount())
	for _, n := range g.Nodes() {
		out[n.ID] = NodeAttributes(n)
	}
	return out
}

// Truncate shortens s to limit runes followed by "..." and reports whether it did.
func Truncate(s string, limit int) (string, bool) {
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:limit]) + ellipsis, true
}

// maxTitle is the number of runes of a graph name shown as a title.
const maxTitle = 120

// Title prepares a graph name for display on one line: control characters become
// spaces, runs of whitespace collapse and long names are truncated.
func Title(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name, _ = Truncate(strings.Join(strings.Fields(name), " "), maxTitle)
	return name
}

// EdgeStyle holds the stroke properties of an edge kind.
type EdgeStyle struct {
	Color     string
	Width     float64
	Dash      string // SVG dasharray, empty for solid
	Marker    string // arrowhead marker id, empty for none
	LabelFill string // color of the T/F badge
}

// StyleForEdge returns how edges of kind k are stroked.
func StyleForEdge(k cfg.EdgeKind) EdgeStyle {
	switch k {
	case cfg.EdgeTrue:
		return EdgeStyle{Color: "#f97316", Width: 2, Marker: "arrowhead-true", LabelFill: "#ea580c"}
	case cfg.EdgeFalse:
		return EdgeStyle{Color: "#C0152F", Width: 2, Marker: "arrowhead-false", LabelFill: "#dc2626"}
	case cfg.EdgeDetail:
		return EdgeStyle{Color: "#ccc", Width: 1, Dash: "3,3"}
	default:
		return EdgeStyle{Color: "#218385", Width: 2, Marker: "arrowhead-sequential"}
	}
}

// HighlightStroke outlines the selected node.
const HighlightStroke = "#fbbf24"

package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/render"
)

// canvas rasterizes a layout frame into terminal cells.
type canvas struct {
	w, h    int
	runes   [][]rune
	styles  [][]int // index into palette, 0 = unstyled
	palette []lipgloss.Style

	lo, hi layout.Point
}

func newCanvas(w, h int, snap layout.Snapshot) *canvas {
	c := &canvas{w: max(w, 1), h: max(h, 1), palette: []lipgloss.Style{lipgloss.NewStyle()}}
	c.runes = make([][]rune, c.h)
	c.styles = make([][]int, c.h)
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", c.w))
		c.styles[y] = make([]int, c.w)
	}
	c.lo, c.hi = snap.Bounds()
	return c
}

// cell maps a layout point to a cell, keeping a one-cell margin.
func (c *canvas) cell(p layout.Point) (int, int) {
	fit := func(v, lo, hi float64, n int) int {
		if n <= 2 || hi-lo < 1e-9 {
			return n / 2
		}
		return 1 + int(math.Round((v-lo)/(hi-lo)*float64(n-3)))
	}
	return fit(p.X, c.lo.X, c.hi.X, c.w), fit(p.Y, c.lo.Y, c.hi.Y, c.h)
}

func (c *canvas) style(s lipgloss.Style) int {
	c.palette = append(c.palette, s)
	return len(c.palette) - 1
}

func (c *canvas) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.runes[y][x] = r
	c.styles[y][x] = style
}

func (c *canvas) text(x, y int, s string, style int) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, style)
	}
}

// line draws a segment with Bresenham's algorithm, leaving the end cells free for
// the node labels.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, style int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for x, y := x0, y0; ; {
		if (x != x0 || y != y0) && (x != x1 || y != y1) {
			c.set(x, y, r, style)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := range c.runes {
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.styles[y][x] == c.styles[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if s := c.styles[y][start]; s != 0 {
				run = c.palette[s].Render(run)
			}
			b.WriteString(run)
			start = x
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// drawFrame renders snap into a w×h block. cursor and marked are node ids, or -1.
func drawFrame(snap layout.Snapshot, attrs map[int]render.Attributes, w, h, cursor, marked int) string {
	c := newCanvas(w, h, snap)

	edgeStyles := make(map[cfg.EdgeKind]int)
	for _, e := range snap.Edges {
		st, ok := edgeStyles[e.Kind]
		if !ok {
			st = c.style(lipgloss.NewStyle().Foreground(lipgloss.Color(render.StyleForEdge(e.Kind).Color)))
			edgeStyles[e.Kind] = st
		}
		ch := '·'
		if e.Kind == cfg.EdgeDetail {
			ch = '.'
		}
		x0, y0 := c.cell(layout.Point{X: e.X1, Y: e.Y1})
		x1, y1 := c.cell(layout.Point{X: e.X2, Y: e.Y2})
		c.line(x0, y0, x1, y1, ch, st)
	}
	for _, l := range snap.Labels {
		kind := cfg.EdgeTrue
		if l.Text == "F" {
			kind = cfg.EdgeFalse
		}
		x, y := c.cell(layout.Point{X: l.X, Y: l.Y})
		c.text(x, y, l.Text, c.style(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(render.StyleForEdge(kind).LabelFill))))
	}

	for _, n := range snap.Nodes {
		a, ok := attrs[n.ID]
		if !ok {
			continue
		}
		label := a.Short
		if a.Badge != "" {
			label = a.Badge + " " + label
		}
		if n.Pinned {
			label = "*" + label
		}
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(a.TextColor)).Background(lipgloss.Color(a.Fill))
		switch {
		case n.ID == marked:
			st = st.Bold(true).Foreground(lipgloss.Color(render.HighlightStroke))
		case a.Role == cfg.RoleDetail:
			st = st.Faint(true)
		}
		if n.ID == cursor {
			st = st.Reverse(true)
		}
		x, y := c.cell(layout.Point{X: n.X, Y: n.Y})
		c.text(x-len([]rune(label))/2, y, label, c.style(st))
	}
	return c.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

package layout

import (
	"math"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

type link struct {
	edge     cfg.Edge
	source   int // index into the simulation slices
	target   int
	distance float64
	strength float64
	bias     float64 // share of the correction applied to the target
}

func (s *Simulation) buildLinks(edges []cfg.Edge) []link {
	links := make([]link, 0, len(edges))
	count := make([]int, len(s.ids))
	for _, e := range edges {
		si, ok := s.index[e.Source]
		if !ok {
			continue
		}
		ti, ok := s.index[e.Target]
		if !ok {
			continue
		}
		dist := s.opts.LinkDistance
		if e.Kind == cfg.EdgeDetail {
			dist = s.opts.DetailLinkDistance
		}
		links = append(links, link{edge: e, source: si, target: ti, distance: dist, strength: s.opts.LinkStrength})
		count[si]++
		count[ti]++
	}
	for i := range links {
		l := &links[i]
		l.bias = float64(count[l.source]) / float64(count[l.source]+count[l.target])
	}
	return links
}

// applyLinks pulls linked nodes toward their rest distance. The correction is split
// between the endpoints by degree so that hubs move less than leaves.
func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		dx := s.x[l.target] + s.vx[l.target] - s.x[l.source] - s.vx[l.source]
		if dx == 0 {
			dx = s.rng.jiggle()
		}
		dy := s.y[l.target] + s.vy[l.target] - s.y[l.source] - s.vy[l.source]
		if dy == 0 {
			dy = s.rng.jiggle()
		}
		d := math.Sqrt(dx*dx + dy*dy)
		k := (d - l.distance) / d * s.alpha * l.strength
		dx *= k
		dy *= k
		s.vx[l.target] -= dx * l.bias
		s.vy[l.target] -= dy * l.bias
		s.vx[l.source] += dx * (1 - l.bias)
		s.vy[l.source] += dy * (1 - l.bias)
	}
}

// applyCharge applies pairwise repulsion. Graphs here are method bodies with tens of
// nodes, so the exact O(n²) sum is used instead of a Barnes-Hut approximation.
func (s *Simulation) applyCharge() {
	n := len(s.ids)
	w := s.opts.ChargeStrength * s.alpha
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dx := s.x[j] - s.x[i]
			dy := s.y[j] - s.y[i]
			l := dx*dx + dy*dy
			if dx == 0 {
				dx = s.rng.jiggle()
				l += dx * dx
			}
			if dy == 0 {
				dy = s.rng.jiggle()
				l += dy * dy
			}
			if l < 1 {
				l = math.Sqrt(l)
			}
			s.vx[i] += dx * w / l
			s.vy[i] += dy * w / l
		}
	}
}

// applyCenter translates all nodes so their mean sits on the canvas center.
func (s *Simulation) applyCenter() {
	n := len(s.ids)
	if n == 0 {
		return
	}
	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += s.x[i]
		sy += s.y[i]
	}
	c := s.opts.Center()
	sx = sx/float64(n) - c.X
	sy = sy/float64(n) - c.Y
	for i := 0; i < n; i++ {
		s.x[i] -= sx
		s.y[i] -= sy
	}
}

// applyCollide separates overlapping circles in one relaxation pass, weighting the
// push by the squared radii.
func (s *Simulation) applyCollide() {
	n := len(s.ids)
	for i := 0; i < n; i++ {
		ri := s.radius[i]
		ri2 := ri * ri
		xi := s.x[i] + s.vx[i]
		yi := s.y[i] + s.vy[i]
		for j := i + 1; j < n; j++ {
			rj := s.radius[j]
			r := ri + rj
			dx := xi - s.x[j] - s.vx[j]
			dy := yi - s.y[j] - s.vy[j]
			l := dx*dx + dy*dy
			if l >= r*r {
				continue
			}
			if dx == 0 {
				dx = s.rng.jiggle()
				l += dx * dx
			}
			if dy == 0 {
				dy = s.rng.jiggle()
				l += dy * dy
			}
			l = math.Sqrt(l)
			k := (r - l) / l * s.opts.CollideStrength
			dx *= k
			dy *= k
			rj2 := rj * rj
			share := rj2 / (ri2 + rj2)
			s.vx[i] += dx * share
			s.vy[i] += dy * share
			s.vx[j] -= dx * (1 - share)
			s.vy[j] -= dy * (1 - share)
		}
	}
}

// lcg is a linear congruential generator used to break exact ties
// deterministically.
type lcg struct{ state uint32 }

func newLCG() lcg { return lcg{state: 1} }

func (g *lcg) next() float64 {
	g.state = 1664525*g.state + 1013904223
	return float64(g.state) / 4294967296
}

func (g *lcg) jiggle() float64 { return (g.next() - 0.5) * 1e-6 }

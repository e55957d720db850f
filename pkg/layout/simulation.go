package layout

import (
	"math"
	"time"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

// initialAngle is the golden angle used for phyllotaxis placement.
var initialAngle = math.Pi * (3 - math.Sqrt(5))

const initialRadius = 10

// Simulation is a velocity-Verlet force simulation over one visible subgraph.
//
// State is kept as parallel slices indexed by the node's position in the view. The
// simulation owns positions and velocities; callers only pin and unpin nodes.
// A Simulation is not safe for concurrent use.
type Simulation struct {
	opts  Options
	view  *cfg.View
	ids   []int
	index map[int]int
	roles []cfg.Role

	x, y, vx, vy []float64
	fx, fy       []float64
	pinned       []bool
	radius       []float64

	links []link

	alpha       float64
	alphaTarget float64
	stopped     bool
	ticks       int
	acc         time.Duration
	rng         lcg
}

// NewSimulation creates a simulation over view at alpha 1.
//
// Nodes listed in the Seeds option start at the seeded position; the rest are placed
// on a phyllotaxis spiral around the canvas center, so two simulations built with the
// same view and options evolve identically.
func NewSimulation(view *cfg.View, opts ...Option) *Simulation {
	o := buildOptions(opts)
	nodes := view.Nodes()
	n := len(nodes)

	s := &Simulation{
		opts:   o,
		view:   view,
		ids:    make([]int, n),
		index:  make(map[int]int, n),
		roles:  make([]cfg.Role, n),
		x:      make([]float64, n),
		y:      make([]float64, n),
		vx:     make([]float64, n),
		vy:     make([]float64, n),
		fx:     make([]float64, n),
		fy:     make([]float64, n),
		pinned: make([]bool, n),
		radius: make([]float64, n),
		alpha:  1,
		rng:    newLCG(),
	}

	center := o.Center()
	for i, node := range nodes {
		s.ids[i] = node.ID
		s.index[node.ID] = i
		s.roles[i] = node.Role
		s.radius[i] = o.NodeRadius
		if node.Role == cfg.RoleDetail {
			s.radius[i] = o.DetailRadius
		}
		if p, ok := o.Seeds[node.ID]; ok {
			s.x[i], s.y[i] = p.X, p.Y
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		s.x[i] = center.X + r*math.Cos(a)
		s.y[i] = center.Y + r*math.Sin(a)
	}

	s.links = s.buildLinks(view.Edges())
	return s
}

// View returns the subgraph being laid out.
func (s *Simulation) View() *cfg.View { return s.view }

// Options returns the options the simulation was built with.
func (s *Simulation) Options() Options { return s.opts }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the temperature alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the temperature alpha decays toward. It does not resume a
// stopped simulation; call [Simulation.Reheat] for that.
func (s *Simulation) SetAlphaTarget(t float64) { s.alphaTarget = t }

// SetAlpha sets the current temperature.
func (s *Simulation) SetAlpha(a float64) { s.alpha = a }

// Reheat resumes ticking after the simulation stopped on cooling.
func (s *Simulation) Reheat() { s.stopped = false }

// Settled reports whether alpha has cooled below the minimum temperature.
func (s *Simulation) Settled() bool { return s.alpha < s.opts.AlphaMin }

// Stopped reports whether Advance has stopped ticking because the simulation cooled.
// Step still ticks a stopped simulation.
func (s *Simulation) Stopped() bool { return s.stopped }

// Ticks returns the number of ticks run so far.
func (s *Simulation) Ticks() int { return s.ticks }

// Len returns the number of simulated nodes.
func (s *Simulation) Len() int { return len(s.ids) }

// Has reports whether the node takes part in the simulation.
func (s *Simulation) Has(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Position returns the current position of a node.
func (s *Simulation) Position(id int) (Point, bool) {
	i, ok := s.index[id]
	if !ok {
		return Point{}, false
	}
	return Point{X: s.x[i], Y: s.y[i]}, true
}

// Positions returns the current position of every node, keyed by id.
func (s *Simulation) Positions() map[int]Point {
	out := make(map[int]Point, len(s.ids))
	for i, id := range s.ids {
		out[id] = Point{X: s.x[i], Y: s.y[i]}
	}
	return out
}

// Pin fixes a node at p. The node is moved there immediately, its velocity is
// cleared, and every subsequent tick keeps it at p until [Simulation.Unpin].
// Pin reports false when the node is not part of the simulation.
func (s *Simulation) Pin(id int, p Point) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.pinned[i] = true
	s.fx[i], s.fy[i] = p.X, p.Y
	s.x[i], s.y[i] = p.X, p.Y
	s.vx[i], s.vy[i] = 0, 0
	return true
}

// Unpin releases a pinned node so forces move it again.
func (s *Simulation) Unpin(id int) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.pinned[i] = false
	return true
}

// Pinned reports whether the node is pinned.
func (s *Simulation) Pinned(id int) bool {
	i, ok := s.index[id]
	return ok && s.pinned[i]
}

// Step runs exactly one tick and returns the resulting snapshot.
func (s *Simulation) Step() Snapshot {
	s.tick()
	return s.Snapshot()
}

// Advance converts elapsed frame time into ticks. It runs one tick per accumulated
// TickInterval, at most MaxStepsPerFrame of them, and stops ticking once the
// simulation cools below AlphaMin until [Simulation.Reheat] is called.
func (s *Simulation) Advance(dt time.Duration) Snapshot {
	steps := 1
	if s.opts.TickInterval > 0 {
		if dt > 0 {
			s.acc += dt
		}
		steps = int(s.acc / s.opts.TickInterval)
		s.acc -= time.Duration(steps) * s.opts.TickInterval
	}
	if steps > s.opts.MaxStepsPerFrame {
		steps = s.opts.MaxStepsPerFrame
		s.acc = 0
	}
	for i := 0; i < steps && !s.stopped; i++ {
		s.tick()
		if s.Settled() {
			s.stopped = true
		}
	}
	return s.Snapshot()
}

func (s *Simulation) tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.opts.AlphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	s.applyCollide()

	decay := 1 - s.opts.VelocityDecay
	for i := range s.x {
		if s.pinned[i] {
			s.x[i], s.vx[i] = s.fx[i], 0
			s.y[i], s.vy[i] = s.fy[i], 0
			continue
		}
		s.vx[i] *= decay
		s.vy[i] *= decay
		s.x[i] += s.vx[i]
		s.y[i] += s.vy[i]
	}
	s.ticks++
}

// Snapshot returns the current positions without ticking.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    s.ticks,
		Alpha:   s.alpha,
		Settled: s.Settled(),
		Nodes:   make([]NodePosition, len(s.ids)),
		Edges:   make([]EdgeSegment, 0, len(s.links)),
	}
	for i, id := range s.ids {
		snap.Nodes[i] = NodePosition{ID: id, X: s.x[i], Y: s.y[i], Pinned: s.pinned[i]}
		if !s.pinned[i] {
			snap.Energy += 0.5 * (s.vx[i]*s.vx[i] + s.vy[i]*s.vy[i])
		}
	}
	for _, l := range s.links {
		seg := EdgeSegment{
			ID:     l.edge.ID,
			Kind:   l.edge.Kind,
			Source: l.edge.Source,
			Target: l.edge.Target,
			X1:     s.x[l.source],
			Y1:     s.y[l.source],
			X2:     s.x[l.target],
			Y2:     s.y[l.target],
		}
		snap.Edges = append(snap.Edges, seg)
		if text := branchLabel(l.edge.Kind); text != "" {
			mid := seg.Midpoint()
			snap.Labels = append(snap.Labels, EdgeLabel{EdgeID: l.edge.ID, Text: text, X: mid.X, Y: mid.Y})
		}
	}
	return snap
}

func branchLabel(k cfg.EdgeKind) string {
	switch k {
	case cfg.EdgeTrue:
		return "T"
	case cfg.EdgeFalse:
		return "F"
	default:
		return ""
	}
}

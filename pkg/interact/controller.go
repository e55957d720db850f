// Package interact translates pointer gestures and the detail toggle into changes
// of the running layout.
package interact

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
)

// Controller owns the pins of the current layout run and the detail setting.
//
// It is the only writer of pins. Dragging follows the usual force-graph gesture:
// the first active drag raises the alpha target so the graph follows the pointer,
// the dragged node is pinned under the pointer while it moves, and releasing the last
// dragged node returns the target to zero and unpins it.
// A Controller is not safe for concurrent use.
type Controller struct {
	runner      *layout.Runner
	logger      *log.Logger
	showDetails bool

	graph    *cfg.Graph
	view     *cfg.View
	dragging map[int]bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithShowDetails sets the initial detail setting.
func WithShowDetails(show bool) Option { return func(c *Controller) { c.showDetails = show } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// New returns a Controller restarting layouts on runner.
func New(runner *layout.Runner, opts ...Option) *Controller {
	c := &Controller{runner: runner, dragging: make(map[int]bool)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Load lays out g from scratch with the current detail setting.
func (c *Controller) Load(g *cfg.Graph) {
	c.graph = g
	c.restart(nil)
}

// Clear stops the current run and forgets the graph.
func (c *Controller) Clear() {
	c.runner.Stop()
	c.graph = nil
	c.view = nil
	clear(c.dragging)
}

// Graph returns the loaded graph, or nil.
func (c *Controller) Graph() *cfg.Graph { return c.graph }

// View returns the visible subgraph, or nil when no graph is loaded.
func (c *Controller) View() *cfg.View { return c.view }

// ShowDetails reports whether detail nodes are visible.
func (c *Controller) ShowDetails() bool { return c.showDetails }

// Simulation returns the live simulation, or nil.
func (c *Controller) Simulation() *layout.Simulation {
	if c.graph == nil {
		return nil
	}
	return c.runner.Simulation()
}

// ToggleDetails flips the detail setting and returns the new value. With a graph
// loaded, the visible subgraph is recomputed and the layout restarts at full
// temperature; nodes visible before and after keep their positions as seeds.
// Active drags are dropped.
func (c *Controller) ToggleDetails() bool {
	c.showDetails = !c.showDetails
	if c.graph != nil {
		var seeds map[int]layout.Point
		if sim := c.runner.Simulation(); sim != nil {
			seeds = sim.Positions()
		}
		c.restart(seeds)
	}
	c.logger.Debug("details toggled", "show", c.showDetails)
	return c.showDetails
}

func (c *Controller) restart(seeds map[int]layout.Point) {
	clear(c.dragging)
	c.view = c.graph.View(c.showDetails)
	c.runner.Run(c.view, seeds)
}

// DragStart pins node id at p. The first active drag raises the alpha target and
// resumes a stopped simulation.
func (c *Controller) DragStart(id int, p layout.Point) error {
	sim, err := c.visible(id)
	if err != nil {
		return err
	}
	if len(c.dragging) == 0 {
		sim.SetAlphaTarget(sim.Options().DragAlphaTarget)
		sim.Reheat()
	}
	c.dragging[id] = true
	sim.Pin(id, p)
	c.runner.Flush()
	c.logger.Debug("drag started", "id", id, "x", p.X, "y", p.Y)
	return nil
}

// Drag moves the pin of node id to p. Dragging a node without a prior DragStart
// starts the drag.
func (c *Controller) Drag(id int, p layout.Point) error {
	if !c.dragging[id] {
		return c.DragStart(id, p)
	}
	sim, err := c.visible(id)
	if err != nil {
		return err
	}
	sim.Pin(id, p)
	return nil
}

// DragEnd releases node id. Releasing the last dragged node returns the alpha target
// to zero so the simulation cools again. Ending a drag that never started is a no-op.
func (c *Controller) DragEnd(id int) error {
	sim, err := c.visible(id)
	if err != nil {
		return err
	}
	if !c.dragging[id] {
		return nil
	}
	delete(c.dragging, id)
	sim.Unpin(id)
	if len(c.dragging) == 0 {
		sim.SetAlphaTarget(0)
	}
	c.logger.Debug("drag ended", "id", id)
	return nil
}

// Dragging returns the ids of nodes currently being dragged, sorted.
func (c *Controller) Dragging() []int {
	ids := make([]int, 0, len(c.dragging))
	for id := range c.dragging {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *Controller) visible(id int) (*layout.Simulation, error) {
	if c.graph == nil {
		return nil, errors.New(errors.ErrCodeNoGraph, "no graph loaded")
	}
	if !c.view.Has(id) {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %d is not visible", id)
	}
	return c.runner.Simulation(), nil
}

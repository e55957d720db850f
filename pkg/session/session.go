// Package session ties the viewer's components together for one loaded graph.
//
// A [Session] owns everything one viewer needs: the loaded graph and its raw
// input, a manual frame clock, the layout runner streaming frames to a rendering
// surface, the interaction controller and the selection service. Outer surfaces
// (terminal viewer, HTTP API) translate their events into Session calls and drive
// the clock with [Session.Advance].
//
// # Usage
//
//	sess := session.New(session.WithLogger(logger))
//	if err := sess.LoadBytes(ctx, "input.json", data); err != nil {
//	    return err // previous graph, if any, is kept
//	}
//	snap := sess.Advance(16 * time.Millisecond)
//	view, err := sess.Click(3)
//
// # Persistence
//
// Sessions are not serialized. The [store] subpackage persists a [Record] holding
// the raw input and the detail setting; [Restore] rebuilds a Session from it and
// lays the graph out again.
//
// A Session is not safe for concurrent use. Callers sharing one across goroutines
// serialize access themselves.
package session

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/interact"
	pkgio "github.com/matzehuels/cfgview/pkg/io"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/observability"
	"github.com/matzehuels/cfgview/pkg/render"
	"github.com/matzehuels/cfgview/pkg/selection"
)

// DefaultTTL is how long a persisted session outlives its last change.
const DefaultTTL = 24 * time.Hour

// Session is one viewer over one graph at a time.
type Session struct {
	id        string
	createdAt time.Time
	logger    *log.Logger

	clock      *layout.ManualClock
	runner     *layout.Runner
	recorder   *render.Recorder
	controller *interact.Controller
	selection  *selection.Service

	input *cfg.Input
	raw   []byte
	attrs map[int]render.Attributes
}

// Option configures a Session.
type Option func(*config)

type config struct {
	id          string
	logger      *log.Logger
	showDetails bool
	preview     int
	layout      []layout.Option
	surfaces    []render.Surface
}

// WithID sets the session id. Without it a random UUID is used.
func WithID(id string) Option { return func(c *config) { c.id = id } }

// WithLogger sets the logger shared by the session's components.
func WithLogger(l *log.Logger) Option { return func(c *config) { c.logger = l } }

// WithShowDetails sets the initial detail setting.
func WithShowDetails(show bool) Option { return func(c *config) { c.showDetails = show } }

// WithPreview sets the details-panel preview length.
func WithPreview(n int) Option { return func(c *config) { c.preview = n } }

// WithLayoutOptions passes options to every layout run.
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(c *config) { c.layout = append(c.layout, opts...) }
}

// WithSurface adds a rendering surface that receives frames and marks next to the
// session's own recorder.
func WithSurface(s render.Surface) Option {
	return func(c *config) { c.surfaces = append(c.surfaces, s) }
}

// New returns an empty Session with no graph loaded.
func New(opts ...Option) *Session {
	c := config{preview: selection.DefaultPreview}
	for _, opt := range opts {
		opt(&c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}

	rec := render.NewRecorder()
	var surface render.Surface = rec
	if len(c.surfaces) > 0 {
		surface = append(render.Multi{rec}, c.surfaces...)
	}

	clock := layout.NewManualClock()
	layoutOpts := append([]layout.Option{layout.WithLogger(c.logger)}, c.layout...)
	runner := layout.NewRunner(clock, surface, layoutOpts...)

	controller := interact.New(runner, interact.WithShowDetails(c.showDetails), interact.WithLogger(c.logger))
	visible := func(id int) bool {
		v := controller.View()
		return v != nil && v.Has(id)
	}

	return &Session{
		id:         c.id,
		createdAt:  time.Now(),
		logger:     c.logger,
		clock:      clock,
		runner:     runner,
		recorder:   rec,
		controller: controller,
		selection: selection.New(surface,
			selection.WithPreview(c.preview),
			selection.WithLogger(c.logger),
			selection.WithVisibility(visible)),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LoadBytes decodes and loads raw input JSON. source names the input in logs and
// hooks. On failure the previously loaded graph stays in place.
func (s *Session) LoadBytes(ctx context.Context, source string, data []byte) error {
	in, err := pkgio.ParseInput(data)
	if err != nil {
		observability.Build().OnBuildComplete(ctx, source, 0, 0, 0, err)
		return err
	}
	if err := s.Load(ctx, source, in); err != nil {
		return err
	}
	s.raw = append([]byte(nil), data...)
	return nil
}

// Load builds and lays out in. On failure the previously loaded graph stays in
// place.
func (s *Session) Load(ctx context.Context, source string, in *cfg.Input) error {
	start := time.Now()
	observability.Build().OnBuildStart(ctx, source)

	g, err := cfg.Build(in)
	if err != nil {
		observability.Build().OnBuildComplete(ctx, source, 0, 0, time.Since(start), err)
		s.logger.Debug("load rejected", "source", source, "err", err)
		return err
	}

	s.input = in
	s.raw = nil
	s.attrs = render.GraphAttributes(g)
	s.selection.Load(g)
	s.controller.Load(g)

	observability.Build().OnBuildComplete(ctx, source, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	s.logger.Info("graph loaded", "source", source, "name", g.Name(), "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// Close stops the layout run. The session can be loaded again afterwards.
func (s *Session) Close() { s.runner.Stop() }

// Graph returns the loaded graph, or nil.
func (s *Session) Graph() *cfg.Graph { return s.controller.Graph() }

// View returns the visible subgraph, or nil.
func (s *Session) View() *cfg.View { return s.controller.View() }

// Input returns the input of the loaded graph as it was received.
func (s *Session) Input() *cfg.Input { return s.input }

// RawInput returns the input JSON of the loaded graph. Inputs loaded from bytes are
// returned verbatim; others are re-encoded.
func (s *Session) RawInput() ([]byte, error) {
	if s.input == nil {
		return nil, errors.New(errors.ErrCodeNoGraph, "no graph loaded")
	}
	if s.raw != nil {
		return s.raw, nil
	}
	data, err := json.Marshal(s.input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode input")
	}
	return data, nil
}

// Attributes returns the static drawing attributes of every node.
func (s *Session) Attributes() map[int]render.Attributes { return s.attrs }

// ShowDetails reports whether detail nodes are visible.
func (s *Session) ShowDetails() bool { return s.controller.ShowDetails() }

// Simulation returns the live simulation, or nil.
func (s *Session) Simulation() *layout.Simulation { return s.controller.Simulation() }

// Advance moves the frame clock by dt and returns the latest frame.
func (s *Session) Advance(dt time.Duration) layout.Snapshot {
	s.clock.Tick(dt)
	return s.recorder.Last()
}

// Frame returns the latest frame without advancing the clock.
func (s *Session) Frame() layout.Snapshot { return s.recorder.Last() }

// Settle advances the clock in steps of dt until the layout stops or maxFrames
// frames have passed, and returns the final frame.
func (s *Session) Settle(dt time.Duration, maxFrames int) layout.Snapshot {
	for i := 0; i < maxFrames; i++ {
		sim := s.Simulation()
		if sim == nil || sim.Stopped() {
			break
		}
		s.clock.Tick(dt)
	}
	return s.recorder.Last()
}

// Marked returns the node marked on the surface.
func (s *Session) Marked() (int, bool) { return s.recorder.Marked() }

// ToggleDetails flips detail visibility, restarts the layout and re-applies the
// selection mark when the selected node is still visible.
func (s *Session) ToggleDetails() bool {
	show := s.controller.ToggleDetails()
	s.selection.Remark(s.controller.View())
	return show
}

// DragStart pins node id under the pointer.
func (s *Session) DragStart(id int, p layout.Point) error { return s.controller.DragStart(id, p) }

// Drag moves the pin of node id.
func (s *Session) Drag(id int, p layout.Point) error { return s.controller.Drag(id, p) }

// DragEnd releases node id.
func (s *Session) DragEnd(id int) error { return s.controller.DragEnd(id) }

// Click selects node id and returns its details view. A node hidden by the detail
// setting is selected but not marked until it becomes visible.
func (s *Session) Click(id int) (*selection.View, error) { return s.selection.Select(id) }

// Deselect clears the selection.
func (s *Session) Deselect() { s.selection.Deselect() }

// Selected returns the details view of the selected node, or nil.
func (s *Session) Selected() *selection.View { return s.selection.Selected() }

// Hover returns the tooltip of node id.
func (s *Session) Hover(id int) (*selection.Tooltip, error) { return s.selection.Hover(id) }

// Unhover clears the tooltip.
func (s *Session) Unhover() { s.selection.Unhover() }

// Hovered returns the current tooltip, or nil.
func (s *Session) Hovered() *selection.Tooltip { return s.selection.Hovered() }

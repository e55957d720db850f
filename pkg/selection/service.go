package selection

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
)

// Marker is the part of the rendering surface that shows which node is selected.
type Marker interface {
	MarkNode(id int)
	ClearMarks()
}

// Service tracks the selected and hovered node of one loaded graph.
//
// At most one node is selected. Selecting another node replaces the selection;
// loading a new graph clears it. The selected node is the only node marked on the
// Marker, and only while it is visible. A Service is not safe for concurrent use.
type Service struct {
	marker  Marker
	preview int
	logger  *log.Logger
	visible func(id int) bool

	graph    *cfg.Graph
	selected *View
	hovered  *Tooltip
}

// Option configures a Service.
type Option func(*Service)

// WithPreview sets how many heap and type entries are shown before overflowing.
func WithPreview(n int) Option { return func(s *Service) { s.preview = n } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option { return func(s *Service) { s.logger = l } }

// WithVisibility sets the test for whether a node is currently drawn. Hidden nodes can
// be selected but are not marked. Without it every node counts as visible.
func WithVisibility(fn func(id int) bool) Option { return func(s *Service) { s.visible = fn } }

// New returns a Service marking selections on marker, which may be nil.
func New(marker Marker, opts ...Option) *Service {
	s := &Service{marker: marker, preview: DefaultPreview}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Load switches to a new graph, clearing any selection, hover and mark.
func (s *Service) Load(g *cfg.Graph) {
	s.graph = g
	s.selected = nil
	s.hovered = nil
	s.clearMarks()
}

// Select makes id the selected node and returns its details view.
func (s *Service) Select(id int) (*View, error) {
	n, err := s.node(id)
	if err != nil {
		return nil, err
	}
	v := Describe(n, s.preview)
	s.selected = v
	s.clearMarks()
	if s.marker != nil && (s.visible == nil || s.visible(id)) {
		s.marker.MarkNode(id)
	}
	s.logger.Debug("node selected", "id", id, "role", n.Role, "described", v.HasDescription)
	return v, nil
}

// Deselect clears the selection and its mark.
func (s *Service) Deselect() {
	if s.selected == nil {
		return
	}
	s.logger.Debug("node deselected", "id", s.selected.NodeID)
	s.selected = nil
	s.clearMarks()
}

// Selected returns the details view of the selected node, or nil.
func (s *Service) Selected() *View { return s.selected }

// SelectedID returns the id of the selected node.
func (s *Service) SelectedID() (int, bool) {
	if s.selected == nil {
		return 0, false
	}
	return s.selected.NodeID, true
}

// Hover returns the tooltip for id and remembers it as hovered.
func (s *Service) Hover(id int) (*Tooltip, error) {
	n, err := s.node(id)
	if err != nil {
		return nil, err
	}
	s.hovered = NewTooltip(n)
	return s.hovered, nil
}

// Unhover forgets the hovered node.
func (s *Service) Unhover() { s.hovered = nil }

// Hovered returns the current tooltip, or nil.
func (s *Service) Hovered() *Tooltip { return s.hovered }

// Remark re-applies the selection mark after the surface was redrawn for view. The
// mark is applied only when the selected node is visible.
func (s *Service) Remark(view *cfg.View) {
	s.clearMarks()
	if s.selected == nil || s.marker == nil {
		return
	}
	if view != nil && view.Has(s.selected.NodeID) {
		s.marker.MarkNode(s.selected.NodeID)
	}
}

func (s *Service) node(id int) (*cfg.Node, error) {
	if s.graph == nil {
		return nil, errors.New(errors.ErrCodeNoGraph, "no graph loaded")
	}
	n, ok := s.graph.Node(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id)
	}
	return n, nil
}

func (s *Service) clearMarks() {
	if s.marker != nil {
		s.marker.ClearMarks()
	}
}

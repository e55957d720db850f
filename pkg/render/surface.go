package render

import (
	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/selection"
)

// Surface is a rendering collaborator: it draws layout frames and shows which node
// is selected.
type Surface interface {
	layout.Sink
	selection.Marker
}

// Recorder is a Surface that keeps the latest frame and mark in memory. Outer
// surfaces (terminal viewer, HTTP API, CLI exports) read from it to draw.
type Recorder struct {
	view   *cfg.View
	last   layout.Snapshot
	frames int
	marked int
	mark   bool
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Begin implements layout.Sink.
func (r *Recorder) Begin(view *cfg.View) {
	r.view = view
	r.last = layout.Snapshot{}
	r.frames = 0
}

// Frame implements layout.Sink.
func (r *Recorder) Frame(snap layout.Snapshot) {
	r.last = snap
	r.frames++
}

// MarkNode implements selection.Marker.
func (r *Recorder) MarkNode(id int) { r.marked, r.mark = id, true }

// ClearMarks implements selection.Marker.
func (r *Recorder) ClearMarks() { r.mark = false }

// View returns the subgraph of the current run, or nil.
func (r *Recorder) View() *cfg.View { return r.view }

// Last returns the latest frame.
func (r *Recorder) Last() layout.Snapshot { return r.last }

// Frames returns how many frames the current run delivered.
func (r *Recorder) Frames() int { return r.frames }

// Marked returns the marked node.
func (r *Recorder) Marked() (int, bool) { return r.marked, r.mark }

// Multi fans frames and marks out to several surfaces.
type Multi []Surface

func (m Multi) Begin(view *cfg.View) {
	for _, s := range m {
		s.Begin(view)
	}
}

func (m Multi) Frame(snap layout.Snapshot) {
	for _, s := range m {
		s.Frame(snap)
	}
}

func (m Multi) MarkNode(id int) {
	for _, s := range m {
		s.MarkNode(id)
	}
}

func (m Multi) ClearMarks() {
	for _, s := range m {
		s.ClearMarks()
	}
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/observability"
	"github.com/matzehuels/cfgview/pkg/render"
)

const frame = 16 * time.Millisecond

func loaded(t *testing.T, name string, opts ...Option) *Session {
	t.Helper()
	data, err := cfg.SampleJSON(name)
	if err != nil {
		t.Fatal(err)
	}
	s := New(opts...)
	if err := s.LoadBytes(context.Background(), name, data); err != nil {
		t.Fatal(err)
	}
	return s
}

type countingBuildHooks struct {
	starts, completes, failures int
}

func (h *countingBuildHooks) OnBuildStart(context.Context, string) { h.starts++ }
func (h *countingBuildHooks) OnBuildComplete(_ context.Context, _ string, _, _ int, _ time.Duration, err error) {
	h.completes++
	if err != nil {
		h.failures++
	}
}

func TestLoad(t *testing.T) {
	hooks := &countingBuildHooks{}
	observability.SetBuildHooks(hooks)
	defer observability.Reset()

	s := loaded(t, "sequential")
	if s.ID() == "" {
		t.Error("empty session id")
	}
	if s.Graph() == nil || s.Graph().NodeCount() != 9 {
		t.Fatal("graph not loaded")
	}
	if s.View().Len() != 3 {
		t.Errorf("visible = %d, want 3", s.View().Len())
	}
	if len(s.Attributes()) != 9 {
		t.Errorf("attributes = %d, want 9", len(s.Attributes()))
	}
	if f := s.Frame(); len(f.Nodes) != 3 || f.Tick != 0 {
		t.Errorf("initial frame = %+v", f)
	}
	if hooks.starts != 1 || hooks.completes != 1 || hooks.failures != 0 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestLoadFailureKeepsGraph(t *testing.T) {
	hooks := &countingBuildHooks{}
	observability.SetBuildHooks(hooks)
	defer observability.Reset()

	s := loaded(t, "sequential")
	g := s.Graph()

	err := s.LoadBytes(context.Background(), "bad", []byte(`{"nodes":[{"id":0,"text":"a"}],"edges":[{"sourceId":0,"destId":9}]}`))
	if !errors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if err := s.LoadBytes(context.Background(), "garbage", []byte(`{`)); !errors.IsParse(err) {
		t.Fatalf("err = %v, want parse error", err)
	}
	if s.Graph() != g {
		t.Error("failed load replaced the graph")
	}
	if hooks.failures != 2 {
		t.Errorf("failed builds reported = %d, want 2", hooks.failures)
	}
	raw, err := s.RawInput()
	if err != nil {
		t.Fatal(err)
	}
	want, _ := cfg.SampleJSON("sequential")
	if string(raw) != string(want) {
		t.Error("raw input changed by failed load")
	}
}

func TestAdvanceAndSettle(t *testing.T) {
	s := loaded(t, "conditional")
	f := s.Advance(frame)
	if f.Tick == 0 {
		t.Error("Advance did not tick")
	}
	f = s.Settle(frame, 5000)
	if !f.Settled {
		t.Errorf("layout not settled after %d ticks", f.Tick)
	}
}

func TestClickAndToggle(t *testing.T) {
	s := loaded(t, "sequential")

	v, err := s.Click(1)
	if err != nil {
		t.Fatal(err)
	}
	if v.Text != "b1" {
		t.Errorf("selected text = %q", v.Text)
	}
	if id, ok := s.Marked(); ok {
		t.Errorf("hidden detail node %d marked on the surface", id)
	}

	if !s.ToggleDetails() {
		t.Fatal("toggle returned false")
	}
	if id, ok := s.Marked(); !ok || id != 1 {
		t.Error("selection not marked once its node became visible")
	}
	s.ToggleDetails()
	if _, ok := s.Marked(); ok {
		t.Error("hidden selected node still marked")
	}
	if s.Selected() == nil {
		t.Error("toggle dropped the selection")
	}

	s.Deselect()
	if s.Selected() != nil {
		t.Error("Deselect kept selection")
	}
}

func TestClickMarksVisibleNode(t *testing.T) {
	s := loaded(t, "sequential")
	if _, err := s.Click(1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Click(4); err != nil {
		t.Fatal(err)
	}
	if id, ok := s.Marked(); !ok || id != 4 {
		t.Errorf("Marked = %d, %v; want 4", id, ok)
	}
	if _, err := s.Click(2); err != nil {
		t.Fatal(err)
	}
	if id, ok := s.Marked(); ok {
		t.Errorf("hidden node %d marked after replacing a visible selection", id)
	}
	if s.Selected().NodeID != 2 {
		t.Errorf("selected %d, want 2", s.Selected().NodeID)
	}
}

func TestDrag(t *testing.T) {
	s := loaded(t, "sequential")
	p := layout.Point{X: 100, Y: 100}
	if err := s.DragStart(4, p); err != nil {
		t.Fatal(err)
	}
	f := s.Advance(frame)
	if got, _ := f.Position(4); got != p {
		t.Errorf("dragged node at %v, want %v", got, p)
	}
	if err := s.Drag(4, layout.Point{X: 120, Y: 90}); err != nil {
		t.Fatal(err)
	}
	if err := s.DragEnd(4); err != nil {
		t.Fatal(err)
	}
	if err := s.DragStart(2, p); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("drag of hidden node err = %v", err)
	}
}

func TestHover(t *testing.T) {
	s := loaded(t, "conditional")
	tip, err := s.Hover(0)
	if err != nil {
		t.Fatal(err)
	}
	if tip.Text != "==(1, 0)" || s.Hovered() != tip {
		t.Errorf("tooltip = %+v", tip)
	}
	s.Unhover()
	if s.Hovered() != nil {
		t.Error("Unhover kept tooltip")
	}
}

func TestEmptySession(t *testing.T) {
	s := New()
	if _, err := s.Click(0); !errors.Is(err, errors.ErrCodeNoGraph) {
		t.Errorf("Click err = %v", err)
	}
	if _, err := s.RawInput(); !errors.Is(err, errors.ErrCodeNoGraph) {
		t.Errorf("RawInput err = %v", err)
	}
	if f := s.Advance(frame); len(f.Nodes) != 0 {
		t.Error("empty session produced a frame")
	}
	if _, err := s.Record(time.Hour); err == nil {
		t.Error("Record of empty session succeeded")
	}
}

func TestExtraSurface(t *testing.T) {
	rec := render.NewRecorder()
	s := loaded(t, "sequential", WithSurface(rec))
	s.Advance(frame)
	if rec.Frames() != 2 {
		t.Errorf("extra surface frames = %d, want 2", rec.Frames())
	}
	_, _ = s.Click(0)
	if _, ok := rec.Marked(); !ok {
		t.Error("extra surface not marked")
	}
}

func TestRecordRestore(t *testing.T) {
	s := loaded(t, "conditional", WithID("abc"))
	s.ToggleDetails()
	rec, err := s.Record(time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "abc" || !rec.ShowDetails || rec.Name != "void Main::emptyStructure()" {
		t.Errorf("record = %+v", rec)
	}

	r, err := Restore(context.Background(), rec)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.ID() != "abc" || !r.ShowDetails() || r.View().Len() != 9 {
		t.Errorf("restored id=%s details=%v visible=%d", r.ID(), r.ShowDetails(), r.View().Len())
	}
}

func TestRawInputReencodes(t *testing.T) {
	in, _ := cfg.Sample("sequential")
	s := New()
	if err := s.Load(context.Background(), "sample", in); err != nil {
		t.Fatal(err)
	}
	raw, err := s.RawInput()
	if err != nil {
		t.Fatal(err)
	}
	if err := New().LoadBytes(context.Background(), "again", raw); err != nil {
		t.Errorf("re-encoded input does not load: %v", err)
	}
}

package selection

import (
	"reflect"
	"testing"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
)

type recordingMarker struct {
	marked  []int
	clears  int
	current int
	has     bool
}

func (m *recordingMarker) MarkNode(id int) {
	m.marked = append(m.marked, id)
	m.current, m.has = id, true
}

func (m *recordingMarker) ClearMarks() {
	m.clears++
	m.has = false
}

func sampleGraph(t *testing.T, name string) *cfg.Graph {
	t.Helper()
	in, err := cfg.Sample(name)
	if err != nil {
		t.Fatal(err)
	}
	g, err := cfg.Build(in)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestHighlighted(t *testing.T) {
	tests := []struct {
		key   string
		exprs []string
		want  bool
	}{
		{"b1", []string{"b1"}, true},
		{"heap[s]:pp@'Main.java':3:15[c]", []string{"b1"}, false},
		{"b10", []string{"b1"}, true},
		{"x", nil, false},
		{"x", []string{"y", "x"}, true},
		{"anything", []string{""}, true},
	}
	for _, tt := range tests {
		if got := Highlighted(tt.key, tt.exprs); got != tt.want {
			t.Errorf("Highlighted(%q, %q) = %v, want %v", tt.key, tt.exprs, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	g := sampleGraph(t, "sequential")
	n, _ := g.Node(0)
	v := Describe(n, DefaultPreview)

	if !v.HasDescription {
		t.Fatal("HasDescription = false")
	}
	if v.RoleLabel != "(START)" {
		t.Errorf("RoleLabel = %q", v.RoleLabel)
	}
	if !reflect.DeepEqual(v.Expressions, []string{"b1"}) {
		t.Errorf("Expressions = %v", v.Expressions)
	}

	heap, ok := v.Section(SectionHeap)
	if !ok {
		t.Fatal("no heap section")
	}
	if heap.Title != "Heap State" || len(heap.Entries) != 3 || heap.Overflow != 0 {
		t.Errorf("heap = %+v", heap)
	}
	if heap.Highlights() != 1 || !heap.Entries[1].Highlighted {
		t.Errorf("heap highlights = %d, want entry b1 only", heap.Highlights())
	}
	if got := heap.Entries[0].Display; got != `["heap[s]:pp@'Main.java':2:28"]` {
		t.Errorf("heap display = %s", got)
	}

	typ, _ := v.Section(SectionType)
	if len(typ.Entries) != 10 || typ.Preview != 5 || typ.Overflow != 5 {
		t.Errorf("type section entries=%d preview=%d overflow=%d", len(typ.Entries), typ.Preview, typ.Overflow)
	}
	if len(typ.Visible()) != 5 || len(typ.Collapsed()) != 5 {
		t.Errorf("visible=%d collapsed=%d", len(typ.Visible()), len(typ.Collapsed()))
	}

	val, _ := v.Section(SectionValue)
	if val.Overflow != 0 || len(val.Visible()) != 4 {
		t.Errorf("value section = %+v", val)
	}
	if got := val.Entries[0].Display; got != "[8, 8]" {
		t.Errorf("value display = %q, want unquoted interval", got)
	}
}

func TestDescribeWithoutDescription(t *testing.T) {
	g := sampleGraph(t, "conditional")
	n, _ := g.Node(3)
	v := Describe(n, DefaultPreview)
	if v.HasDescription || len(v.Sections) != 0 || len(v.Expressions) != 0 {
		t.Errorf("view = %+v, want text and role only", v)
	}
	if v.Text != "EMPTY_BLOCK()" || v.RoleLabel != "(CFG Node)" {
		t.Errorf("view = %+v", v)
	}
}

func TestDescribeNoPreviewLimit(t *testing.T) {
	g := sampleGraph(t, "sequential")
	n, _ := g.Node(4)
	v := Describe(n, 0)
	typ, _ := v.Section(SectionType)
	if typ.Overflow != 0 || len(typ.Visible()) != len(typ.Entries) {
		t.Errorf("preview 0 collapsed entries: %+v", typ)
	}
}

func TestServiceSelect(t *testing.T) {
	marker := &recordingMarker{}
	s := New(marker)

	if _, err := s.Select(0); !errors.Is(err, errors.ErrCodeNoGraph) {
		t.Errorf("Select before Load: err = %v, want NO_GRAPH", err)
	}

	s.Load(sampleGraph(t, "sequential"))
	v, err := s.Select(0)
	if err != nil {
		t.Fatal(err)
	}
	if v.NodeID != 0 {
		t.Errorf("selected %d", v.NodeID)
	}
	if !marker.has || marker.current != 0 {
		t.Errorf("marker = %+v, want node 0 marked", marker)
	}

	if _, err := s.Select(4); err != nil {
		t.Fatal(err)
	}
	if id, _ := s.SelectedID(); id != 4 {
		t.Errorf("SelectedID = %d, want 4", id)
	}
	if marker.current != 4 {
		t.Errorf("marked %d, want 4", marker.current)
	}

	if _, err := s.Select(77); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Select(77) err = %v, want NOT_FOUND_NODE", err)
	}
	if id, _ := s.SelectedID(); id != 4 {
		t.Error("failed select replaced the selection")
	}

	s.Deselect()
	if s.Selected() != nil || marker.has {
		t.Error("Deselect left a selection or mark")
	}
}

func TestServiceLoadClearsSelection(t *testing.T) {
	marker := &recordingMarker{}
	s := New(marker)
	s.Load(sampleGraph(t, "sequential"))
	if _, err := s.Select(8); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Hover(8); err != nil {
		t.Fatal(err)
	}

	s.Load(sampleGraph(t, "conditional"))
	if s.Selected() != nil || s.Hovered() != nil || marker.has {
		t.Error("Load did not clear selection, hover and marks")
	}
}

func TestServiceRemark(t *testing.T) {
	marker := &recordingMarker{}
	s := New(marker)
	g := sampleGraph(t, "sequential")
	s.Load(g)
	if _, err := s.Select(1); err != nil {
		t.Fatal(err)
	}

	s.Remark(g.View(false))
	if marker.has {
		t.Error("hidden selected node was marked")
	}
	s.Remark(g.View(true))
	if !marker.has || marker.current != 1 {
		t.Error("visible selected node was not re-marked")
	}
}

func TestServiceSelectHidden(t *testing.T) {
	marker := &recordingMarker{}
	g := sampleGraph(t, "sequential")
	view := g.View(false)
	s := New(marker, WithVisibility(view.Has))
	s.Load(g)

	if _, err := s.Select(2); err != nil {
		t.Fatal(err)
	}
	if marker.has {
		t.Errorf("hidden node %d marked", marker.current)
	}
	if id, ok := s.SelectedID(); !ok || id != 2 {
		t.Errorf("SelectedID = %d, %v; want 2", id, ok)
	}
	if _, err := s.Select(8); err != nil {
		t.Fatal(err)
	}
	if !marker.has || marker.current != 8 {
		t.Errorf("visible node not marked: %+v", marker)
	}
}

func TestServiceHover(t *testing.T) {
	s := New(nil)
	s.Load(sampleGraph(t, "sequential"))
	tip, err := s.Hover(0)
	if err != nil {
		t.Fatal(err)
	}
	want := "Node 0\nb1 = B(8)\nType: start node\nExpressions: b1"
	if got := tip.String(); got != want {
		t.Errorf("tooltip = %q, want %q", got, want)
	}
	s.Unhover()
	if s.Hovered() != nil {
		t.Error("Unhover kept tooltip")
	}
}

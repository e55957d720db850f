package cfg

import (
	"reflect"
	"testing"
)

func TestView(t *testing.T) {
	g := mustSample(t, "sequential")

	hidden := g.View(false)
	if got := hidden.NodeIDs(); !reflect.DeepEqual(got, []int{0, 4, 8}) {
		t.Errorf("hidden nodes = %v", got)
	}
	if got := hidden.EdgeIDs(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("hidden edges = %v", got)
	}
	if hidden.Has(1) {
		t.Error("detail node 1 visible with details hidden")
	}

	shown := g.View(true)
	if shown.Len() != 9 {
		t.Errorf("shown nodes = %d, want 9", shown.Len())
	}
	if got := len(shown.Edges()); got != 8 {
		t.Errorf("shown edges = %d, want 8", got)
	}
	if !shown.ShowDetails() || hidden.ShowDetails() {
		t.Error("ShowDetails flag mismatch")
	}
}

func TestViewToggleRestores(t *testing.T) {
	g := mustSample(t, "conditional")
	a := g.View(false)
	b := g.View(true)
	c := g.View(false)

	if !reflect.DeepEqual(a.NodeIDs(), c.NodeIDs()) || !reflect.DeepEqual(a.EdgeIDs(), c.EdgeIDs()) {
		t.Error("toggling twice did not restore the visible sets")
	}
	if len(b.NodeIDs()) <= len(a.NodeIDs()) {
		t.Error("showing details did not add nodes")
	}
}

func TestViewEmpty(t *testing.T) {
	g, err := Build(&Input{Nodes: []RawNode{}, Edges: []RawEdge{}})
	if err != nil {
		t.Fatal(err)
	}
	v := g.View(true)
	if v.Len() != 0 || len(v.Edges()) != 0 {
		t.Errorf("empty view has %d nodes, %d edges", v.Len(), len(v.Edges()))
	}
}

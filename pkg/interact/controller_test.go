package interact

import (
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
)

func setup(t *testing.T, sample string) (*Controller, *layout.ManualClock) {
	t.Helper()
	in, err := cfg.Sample(sample)
	if err != nil {
		t.Fatal(err)
	}
	g, err := cfg.Build(in)
	if err != nil {
		t.Fatal(err)
	}
	clock := layout.NewManualClock()
	c := New(layout.NewRunner(clock, nil, layout.WithTickInterval(0)))
	c.Load(g)
	return c, clock
}

func TestDragLifecycle(t *testing.T) {
	c, clock := setup(t, "conditional")
	sim := c.Simulation()

	if err := c.DragStart(5, layout.Point{X: 10, Y: 20}); err != nil {
		t.Fatal(err)
	}
	if sim.AlphaTarget() != 0.3 {
		t.Errorf("alpha target = %v, want 0.3", sim.AlphaTarget())
	}
	if err := c.Drag(5, layout.Point{X: 30, Y: 40}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		clock.Tick(time.Millisecond)
	}
	if p, _ := sim.Position(5); p != (layout.Point{X: 30, Y: 40}) {
		t.Errorf("dragged node at %v, want (30, 40)", p)
	}
	// Only the dragged node is pinned.
	for _, id := range c.View().NodeIDs() {
		if sim.Pinned(id) != (id == 5) {
			t.Errorf("node %d pinned = %v", id, sim.Pinned(id))
		}
	}

	if err := c.DragEnd(5); err != nil {
		t.Fatal(err)
	}
	if sim.Pinned(5) {
		t.Error("node still pinned after DragEnd")
	}
	if sim.AlphaTarget() != 0 {
		t.Errorf("alpha target = %v after last DragEnd, want 0", sim.AlphaTarget())
	}
	clock.Tick(time.Millisecond)
	clock.Tick(time.Millisecond)
	if p, _ := sim.Position(5); p == (layout.Point{X: 30, Y: 40}) {
		t.Error("released node did not move")
	}
}

func TestDragMultipleNodes(t *testing.T) {
	c, _ := setup(t, "conditional")
	sim := c.Simulation()

	_ = c.DragStart(3, layout.Point{})
	_ = c.DragStart(4, layout.Point{X: 1})
	if got := c.Dragging(); !reflect.DeepEqual(got, []int{3, 4}) {
		t.Errorf("Dragging = %v", got)
	}
	_ = c.DragEnd(3)
	if sim.AlphaTarget() != 0.3 {
		t.Error("alpha target dropped while a drag is still active")
	}
	_ = c.DragEnd(4)
	if sim.AlphaTarget() != 0 {
		t.Error("alpha target not reset after last drag")
	}
}

func TestDragReheatsSettledLayout(t *testing.T) {
	c, clock := setup(t, "sequential")
	sim := c.Simulation()
	for i := 0; i < 1000 && !sim.Stopped(); i++ {
		clock.Tick(time.Millisecond)
	}
	if !sim.Stopped() {
		t.Fatal("layout did not settle")
	}
	ticks := sim.Ticks()

	if err := c.DragStart(0, layout.Point{X: 5, Y: 5}); err != nil {
		t.Fatal(err)
	}
	clock.Tick(time.Millisecond)
	if sim.Ticks() != ticks+1 {
		t.Error("drag did not resume the simulation")
	}
}

func TestDragHiddenNode(t *testing.T) {
	c, _ := setup(t, "sequential")
	for _, fn := range []func() error{
		func() error { return c.DragStart(1, layout.Point{}) },
		func() error { return c.Drag(1, layout.Point{}) },
		func() error { return c.DragEnd(1) },
	} {
		if err := fn(); !errors.Is(err, errors.ErrCodeNodeNotFound) {
			t.Errorf("err = %v, want NOT_FOUND_NODE", err)
		}
	}
}

func TestDragWithoutGraph(t *testing.T) {
	c := New(layout.NewRunner(layout.NewManualClock(), nil))
	if err := c.DragStart(0, layout.Point{}); !errors.Is(err, errors.ErrCodeNoGraph) {
		t.Errorf("err = %v, want NO_GRAPH", err)
	}
}

func TestToggleDetails(t *testing.T) {
	c, clock := setup(t, "sequential")
	before := c.View().NodeIDs()
	for i := 0; i < 20; i++ {
		clock.Tick(time.Millisecond)
	}
	old := c.Simulation()
	p0, _ := old.Position(0)

	if !c.ToggleDetails() {
		t.Fatal("ToggleDetails() = false, want true")
	}
	sim := c.Simulation()
	if sim == old {
		t.Fatal("toggle did not restart the layout")
	}
	if sim.Alpha() != 1 {
		t.Errorf("alpha = %v after toggle, want 1", sim.Alpha())
	}
	if got := c.View().Len(); got != 9 {
		t.Errorf("visible nodes = %d, want 9", got)
	}
	if p, _ := sim.Position(0); p != p0 {
		t.Errorf("node 0 at %v, want seeded %v", p, p0)
	}
	if clock.Subscribers() != 1 {
		t.Errorf("subscribers = %d, want 1", clock.Subscribers())
	}

	if c.ToggleDetails() {
		t.Fatal("second ToggleDetails() = true")
	}
	if got := c.View().NodeIDs(); !reflect.DeepEqual(got, before) {
		t.Errorf("visible after two toggles = %v, want %v", got, before)
	}
}

func TestToggleWithoutGraph(t *testing.T) {
	c := New(layout.NewRunner(layout.NewManualClock(), nil))
	if !c.ToggleDetails() {
		t.Error("toggle did not flip the flag")
	}
	if c.View() != nil {
		t.Error("view computed without a graph")
	}
}

func TestClear(t *testing.T) {
	c, clock := setup(t, "sequential")
	c.Clear()
	if c.Graph() != nil || c.View() != nil || c.Simulation() != nil {
		t.Error("Clear kept state")
	}
	if clock.Subscribers() != 0 {
		t.Error("Clear did not stop the run")
	}
}

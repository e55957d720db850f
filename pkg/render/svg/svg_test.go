package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/render"
)

func sample(t *testing.T, name string, details bool) (*cfg.Graph, layout.Snapshot) {
	t.Helper()
	in, err := cfg.Sample(name)
	if err != nil {
		t.Fatal(err)
	}
	g, err := cfg.Build(in)
	if err != nil {
		t.Fatal(err)
	}
	sim := layout.NewSimulation(g.View(details))
	for i := 0; i < 50; i++ {
		sim.Step()
	}
	return g, sim.Snapshot()
}

func TestRenderWellFormed(t *testing.T) {
	g, snap := sample(t, "conditional", true)
	out := Render(snap, render.GraphAttributes(g), WithTitle("a < b & c"))

	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v", err)
		}
	}
	s := string(out)
	if !strings.Contains(s, `viewBox="0.0 0.0 900.0 700.0"`) {
		t.Error("default canvas viewBox missing")
	}
	if !strings.Contains(s, "a &lt; b &amp; c") {
		t.Error("title not escaped")
	}
}

func TestRenderElements(t *testing.T) {
	g, snap := sample(t, "conditional", true)
	s := string(Render(snap, render.GraphAttributes(g)))

	for _, want := range []string{
		`id="arrowhead-sequential"`, `id="arrowhead-true"`, `id="arrowhead-false"`,
		`marker-end="url(#arrowhead-true)"`,
		`stroke-dasharray="3,3"`,
		`>START</text>`, `>END</text>`,
		`fill="#ea580c">T</text>`, `fill="#dc2626">F</text>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s", want)
		}
	}
	if got := strings.Count(s, `<g id="node-`); got != 9 {
		t.Errorf("nodes drawn = %d, want 9", got)
	}
	if got := strings.Count(s, `class="link `); got != 11 {
		t.Errorf("edges drawn = %d, want 11", got)
	}
	if strings.Contains(s, "highlighted") {
		t.Error("node highlighted without a mark")
	}
}

func TestRenderMarked(t *testing.T) {
	g, snap := sample(t, "sequential", false)
	s := string(Render(snap, render.GraphAttributes(g), WithMarked(4)))
	if !strings.Contains(s, `id="node-4" class="node main highlighted"`) {
		t.Error("marked node not highlighted")
	}
	if strings.Count(s, render.HighlightStroke) != 1 {
		t.Error("highlight stroke should appear once")
	}
}

func TestRenderTooltipsAndFit(t *testing.T) {
	g, snap := sample(t, "sequential", false)
	s := string(Render(snap, render.GraphAttributes(g),
		WithFit(10), WithTooltips(map[int]string{0: "Node 0\nb1"})))
	if !strings.Contains(s, "<title>Node 0&#xA;b1</title>") {
		t.Error("tooltip missing")
	}
	if strings.Contains(s, `viewBox="0.0 0.0 900.0 700.0"`) {
		t.Error("fit kept the canvas viewBox")
	}
}

func TestRenderEmpty(t *testing.T) {
	s := string(Render(layout.Snapshot{}, nil, WithFit(5)))
	if !strings.Contains(s, `viewBox="0.0 0.0 10.0 10.0"`) {
		t.Errorf("empty fit viewBox wrong: %s", s)
	}
}

package nodelink

import (
	"context"
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
	return g, layout.NewSimulation(g.View(details)).Snapshot()
}

func TestToDOT_Basic(t *testing.T) {
	g, snap := sample(t, "sequential", false)
	dot := ToDOT(g, snap, Options{})

	if !strings.HasPrefix(dot, `digraph "void Main::main(String*[] args)" {`) {
		t.Errorf("ToDOT() header = %q", strings.SplitN(dot, "\n", 2)[0])
	}
	for _, want := range []string{"n0 [", "n4 [", "n8 [", "n0 -> n4", "n4 -> n8", "inputscale=72", `!"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, "n1 [") {
		t.Error("hidden detail node exported")
	}
	if !strings.Contains(dot, `label="START\nb1 = B(8)"`) {
		t.Error("start badge missing from label")
	}
}

func TestToDOT_Branches(t *testing.T) {
	g, snap := sample(t, "conditional", true)
	dot := ToDOT(g, snap, Options{})
	if !strings.Contains(dot, `n0 -> n3 [color="#f97316", penwidth=2, label="T"`) {
		t.Error("true edge not styled")
	}
	if !strings.Contains(dot, `n0 -> n4 [color="#C0152F", penwidth=2, label="F"`) {
		t.Error("false edge not styled")
	}
	if !strings.Contains(dot, "style=dashed, arrowhead=none") {
		t.Error("detail edge not dashed")
	}
}

func TestToDOT_Relayout(t *testing.T) {
	g, snap := sample(t, "sequential", false)
	marked := 4
	dot := ToDOT(g, snap, Options{Relayout: true, FullLabels: true, Marked: &marked})
	if strings.Contains(dot, "pos=") {
		t.Error("relayout kept positions")
	}
	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("relayout missing rankdir")
	}
	if !strings.Contains(dot, render.HighlightStroke) {
		t.Error("marked node not outlined")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("svg without viewBox changed")
	}
}

func TestRenderDOTFormat(t *testing.T) {
	g, snap := sample(t, "sequential", false)
	out, err := Render(context.Background(), g, snap, Options{}, render.FormatDOT, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "digraph") {
		t.Error("dot format did not return DOT source")
	}
}

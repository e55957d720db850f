package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
)

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantCode  errors.Code
		check     func(t *testing.T, g *cfg.Graph)
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [
					{"id": 0, "text": "a", "subNodes": [2]},
					{"id": 1, "text": "b"},
					{"id": 2, "text": "c"}
				],
				"edges": [
					{"sourceId": 0, "destId": 1, "kind": "FalseEdge"}
				]
			}`,
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g *cfg.Graph) {
				e, ok := g.Edge(0)
				if !ok || e.Kind != cfg.EdgeFalse {
					t.Errorf("edge 0 = %+v, want FalseEdge", e)
				}
			},
		},
		{
			name:  "Empty",
			input: `{"nodes": [], "edges": []}`,
		},
		{
			name:     "Invalid",
			input:    `{invalid json}`,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "NotObject",
			input:    `[1, 2, 3]`,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "MissingEdges",
			input:    `{"nodes": []}`,
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "EdgesNotArray",
			input:    `{"nodes": [], "edges": "x"}`,
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "UnknownEndpoint",
			input:    `{"nodes": [{"id": 1}], "edges": [{"sourceId": 1, "destId": 2}]}`,
			wantCode: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))

			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if got := errors.GetCode(err); got != tt.wantCode {
					t.Errorf("code = %s, want %s (%v)", got, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if got := g.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestImportGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	data, err := cfg.SampleJSON("conditional")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	g, err := ImportGraph(path)
	if err != nil {
		t.Fatalf("ImportGraph: %v", err)
	}
	if g.NodeCount() != 9 {
		t.Errorf("nodes = %d, want 9", g.NodeCount())
	}
}

func TestImportInputNotFound(t *testing.T) {
	if _, err := ImportInput("nonexistent.json"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestReadAllTooLarge(t *testing.T) {
	r := bytes.NewReader(make([]byte, MaxInputSize+1))
	_, err := ReadAll(r)
	if !errors.IsParse(err) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteInputRoundTrip(t *testing.T) {
	in, err := cfg.Sample("sequential")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteInput(in, &buf); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}
	out, err := ReadInput(&buf)
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}

	if out.Name != in.Name {
		t.Errorf("name = %q, want %q", out.Name, in.Name)
	}
	if !reflect.DeepEqual(out.Nodes, in.Nodes) {
		t.Errorf("nodes differ after round trip")
	}
	if !reflect.DeepEqual(out.Edges, in.Edges) {
		t.Errorf("edges differ after round trip")
	}
	if len(out.Descriptions) != len(in.Descriptions) {
		t.Fatalf("descriptions = %d, want %d", len(out.Descriptions), len(in.Descriptions))
	}
	got := out.Descriptions[0].Description.State.Type
	want := in.Descriptions[0].Description.State.Type
	for i := range want.Entries {
		if got.Entries[i].Key != want.Entries[i].Key {
			t.Errorf("type key %d = %q, want %q", i, got.Entries[i].Key, want.Entries[i].Key)
		}
	}
}

func TestExportInput(t *testing.T) {
	in := &cfg.Input{
		Nodes: []cfg.RawNode{{ID: 1, Text: "x"}},
		Edges: []cfg.RawEdge{{SourceID: 1, DestID: 1, Kind: cfg.EdgeTrue}},
	}
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportInput(in, path); err != nil {
		t.Fatalf("ExportInput: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"kind": "TrueEdge"`) {
		t.Errorf("export missing kind name:\n%s", data)
	}
}

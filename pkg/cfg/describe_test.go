package cfg

import (
	"encoding/json"
	"testing"
)

func TestSectionKeepsOrder(t *testing.T) {
	var s Section
	data := `{"zeta": [1], "alpha": "a", "mid": {"k": 1}, "alpha": "b"}`
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatal(err)
	}
	keys := make([]string, 0, s.Len())
	for _, e := range s.Entries {
		keys = append(keys, e.Key)
	}
	want := []string{"zeta", "alpha", "mid"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if v, _ := s.Get("alpha"); string(v) != `"b"` {
		t.Errorf("alpha = %s, want last value", v)
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out); got != `{"zeta":[1],"alpha":"b","mid":{"k":1}}` {
		t.Errorf("Marshal = %s", got)
	}
}

func TestSectionRejectsNonObject(t *testing.T) {
	var s Section
	if err := json.Unmarshal([]byte(`[1, 2]`), &s); err == nil {
		t.Error("expected error for array section")
	}
}

func TestSectionNil(t *testing.T) {
	var s *Section
	if s.Len() != 0 {
		t.Error("nil section has entries")
	}
	if _, ok := s.Get("x"); ok {
		t.Error("nil section Get returned ok")
	}
}

func TestIndexDescriptions(t *testing.T) {
	first := &Description{Expressions: []string{"a"}}
	second := &Description{Expressions: []string{"b"}}
	index := IndexDescriptions([]RawDescription{
		{NodeID: 1, Description: first},
		{NodeID: 2, Description: first},
		{NodeID: 1, Description: second},
		{NodeID: 2, Description: nil},
	})
	if index[1] != second {
		t.Error("last description for node 1 did not win")
	}
	if _, ok := index[2]; ok {
		t.Error("null description did not remove node 2")
	}
}

func TestDescriptionSampleSections(t *testing.T) {
	g := mustSample(t, "sequential")
	d, ok := g.Description(0)
	if !ok {
		t.Fatal("node 0 has no description")
	}
	if got := d.State.Heap.Len(); got != 3 {
		t.Errorf("heap entries = %d, want 3", got)
	}
	if got := d.State.Heap.Entries[0].Key; got != "args" {
		t.Errorf("first heap key = %q, want args", got)
	}
	if got := d.State.Type.Len(); got != 10 {
		t.Errorf("type entries = %d, want 10", got)
	}

	end, _ := g.Description(8)
	if end.State.Value != nil {
		t.Error("node 8 has a value section")
	}
}

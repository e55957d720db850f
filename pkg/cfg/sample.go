package cfg

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed samples/*.json
var samplesFS embed.FS

// SampleNames returns the names of the built-in sample graphs, sorted.
func SampleNames() []string {
	entries, err := samplesFS.ReadDir("samples")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// SampleJSON returns the raw JSON of a built-in sample.
func SampleJSON(name string) ([]byte, error) {
	data, err := samplesFS.ReadFile("samples/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown sample %q (available: %s)", name, strings.Join(SampleNames(), ", "))
	}
	return data, nil
}

// Sample decodes a built-in sample into an Input.
func Sample(name string) (*Input, error) {
	data, err := SampleJSON(name)
	if err != nil {
		return nil, err
	}
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("sample %q: %w", name, err)
	}
	return &in, nil
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

// WriteInput encodes in as indented JSON and writes it to w.
// The output can be read back with [ReadInput].
func WriteInput(in *cfg.Input, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(in); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportInput writes in to a JSON file at path.
func ExportInput(in *cfg.Input, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteInput(in, f)
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
)

// MaxInputSize bounds how much ReadInput consumes from a reader.
const MaxInputSize = 32 << 20

// ParseInput decodes a JSON payload.
//
// Undecodable data yields an INVALID_FORMAT error. Structural problems the decoder can
// attribute to a field (a node without an id, an edges value that is not an array)
// yield INVALID_INPUT. Missing nodes or edges arrays are reported later by [cfg.Build].
func ParseInput(data []byte) (*cfg.Input, error) {
	var in cfg.Input
	if err := json.Unmarshal(data, &in); err != nil {
		if errors.IsValidation(err) {
			return nil, err
		}
		return nil, errors.Parse(err, "decode input")
	}
	return &in, nil
}

// ReadInput reads and decodes a JSON payload from r.
func ReadInput(r io.Reader) (*cfg.Input, error) {
	data, err := ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseInput(data)
}

// ReadAll reads a payload from r, rejecting anything larger than MaxInputSize.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(data) > MaxInputSize {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "input exceeds %d bytes", MaxInputSize)
	}
	return data, nil
}

// ImportInput reads a JSON payload from the file at path.
func ImportInput(path string) (*cfg.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInput(f)
}

// ReadGraph decodes a payload from r and builds the graph.
func ReadGraph(r io.Reader) (*cfg.Graph, error) {
	in, err := ReadInput(r)
	if err != nil {
		return nil, err
	}
	return cfg.Build(in)
}

// ImportGraph reads the file at path and builds the graph.
func ImportGraph(path string) (*cfg.Graph, error) {
	in, err := ImportInput(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build(in)
}

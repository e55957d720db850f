package cfg

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cfgview/pkg/errors"
)

// Input is the raw CFG description as submitted by a user or analysis tool.
//
// A nil Nodes or Edges slice means the field was missing (or null) in the payload;
// an empty, non-nil slice means an empty array was given. [Build] rejects the former.
type Input struct {
	Name         string           `json:"name,omitempty"`
	Nodes        []RawNode        `json:"nodes"`
	Edges        []RawEdge        `json:"edges"`
	Descriptions []RawDescription `json:"descriptions,omitempty"`
}

// RawNode is one element of the input's nodes array.
type RawNode struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	SubNodes []int  `json:"subNodes,omitempty"`
}

// RawEdge is one element of the input's edges array. Kind defaults to EdgeSequential.
type RawEdge struct {
	SourceID int      `json:"sourceId"`
	DestID   int      `json:"destId"`
	Kind     EdgeKind `json:"kind"`
}

// UnmarshalJSON decodes an input record. Structural problems inside an otherwise
// well-formed JSON object (a field of the wrong shape, a node without an id, an
// unknown edge kind) are reported as validation errors naming the field, so callers
// can tell them apart from undecodable payloads.
func (in *Input) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*in = Input{}

	if raw, ok := present(fields, "name"); ok {
		if err := json.Unmarshal(raw, &in.Name); err != nil {
			return errors.Validation("name", "must be a string")
		}
	}

	nodes, err := elements(fields, "nodes")
	if err != nil {
		return err
	}
	if nodes != nil {
		in.Nodes = make([]RawNode, 0, len(nodes))
		for i, raw := range nodes {
			n, err := decodeNode(raw, i)
			if err != nil {
				return err
			}
			in.Nodes = append(in.Nodes, n)
		}
	}

	edges, err := elements(fields, "edges")
	if err != nil {
		return err
	}
	if edges != nil {
		in.Edges = make([]RawEdge, 0, len(edges))
		for i, raw := range edges {
			e, err := decodeEdge(raw, i)
			if err != nil {
				return err
			}
			in.Edges = append(in.Edges, e)
		}
	}

	descs, err := elements(fields, "descriptions")
	if err != nil {
		return err
	}
	for i, raw := range descs {
		var d struct {
			NodeID      *int            `json:"nodeId"`
			Description json.RawMessage `json:"description"`
		}
		field := fmt.Sprintf("descriptions[%d]", i)
		if err := json.Unmarshal(raw, &d); err != nil {
			return errors.Validation(field, "malformed description entry: %v", err)
		}
		if d.NodeID == nil {
			return errors.Validation(field+".nodeId", "missing node id")
		}
		entry := RawDescription{NodeID: *d.NodeID}
		if len(d.Description) > 0 && !bytes.Equal(bytes.TrimSpace(d.Description), []byte("null")) {
			entry.Description = &Description{}
			if err := json.Unmarshal(d.Description, entry.Description); err != nil {
				return errors.Validation(field+".description", "malformed description: %v", err)
			}
		}
		in.Descriptions = append(in.Descriptions, entry)
	}

	return nil
}

func decodeNode(raw json.RawMessage, i int) (RawNode, error) {
	var n struct {
		ID       *int            `json:"id"`
		Text     json.RawMessage `json:"text"`
		SubNodes json.RawMessage `json:"subNodes"`
	}
	field := fmt.Sprintf("nodes[%d]", i)
	if err := json.Unmarshal(raw, &n); err != nil {
		return RawNode{}, errors.Validation(field, "malformed node: %v", err)
	}
	if n.ID == nil {
		return RawNode{}, errors.Validation(field+".id", "missing node id")
	}
	out := RawNode{ID: *n.ID}
	if isPresent(n.Text) {
		if err := json.Unmarshal(n.Text, &out.Text); err != nil {
			return RawNode{}, errors.Validation(field+".text", "must be a string")
		}
	}
	if isPresent(n.SubNodes) {
		if err := json.Unmarshal(n.SubNodes, &out.SubNodes); err != nil {
			return RawNode{}, errors.Validation(field+".subNodes", "must be an array of node ids")
		}
	}
	return out, nil
}

func decodeEdge(raw json.RawMessage, i int) (RawEdge, error) {
	var e struct {
		SourceID *int    `json:"sourceId"`
		DestID   *int    `json:"destId"`
		Kind     *string `json:"kind"`
	}
	field := fmt.Sprintf("edges[%d]", i)
	if err := json.Unmarshal(raw, &e); err != nil {
		return RawEdge{}, errors.Validation(field, "malformed edge: %v", err)
	}
	if e.SourceID == nil {
		return RawEdge{}, errors.Validation(field+".sourceId", "missing source node id")
	}
	if e.DestID == nil {
		return RawEdge{}, errors.Validation(field+".destId", "missing destination node id")
	}
	out := RawEdge{SourceID: *e.SourceID, DestID: *e.DestID}
	if e.Kind != nil {
		kind, err := ParseEdgeKind(*e.Kind)
		if err != nil {
			return RawEdge{}, errors.Validation(field+".kind", "%v", err).WithCause(ErrUnknownEdgeKind)
		}
		out.Kind = kind
	}
	return out, nil
}

// elements returns the array elements of fields[key]. It returns nil, nil when the
// field is absent or null, and a validation error when it is not an array.
func elements(fields map[string]json.RawMessage, key string) ([]json.RawMessage, error) {
	raw, ok := present(fields, key)
	if !ok {
		return nil, nil
	}
	if first := firstByte(raw); first != '[' {
		return nil, errors.Validation(key, "must be an array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Validation(key, "malformed array: %v", err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

func present(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || !isPresent(raw) {
		return nil, false
	}
	return raw, true
}

func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

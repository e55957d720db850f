package cfg

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Description is the analysis payload attached to a node. The core treats it as inert
// data except for Expressions, which drive highlighting.
type Description struct {
	// Expressions lists the program expressions that are live at this node.
	Expressions []string `json:"expressions,omitempty"`
	// State holds the abstract state sections (heap, type, value).
	State State `json:"state"`
	// Info carries any additional analysis bookkeeping verbatim.
	Info map[string]any `json:"info,omitempty"`
}

// State groups the three abstract-state sections. Absent sections are nil.
type State struct {
	Heap  *Section `json:"heap,omitempty"`
	Type  *Section `json:"type,omitempty"`
	Value *Section `json:"value,omitempty"`
}

// Entry is one key/value pair of a state section. Value is kept as raw JSON.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Section is a JSON object whose key order is preserved. Analysis tools emit
// deterministic orderings that are meaningful to readers, so the order of the input
// object is kept rather than re-sorted.
type Section struct {
	Entries []Entry
}

// Len returns the number of entries.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Get returns the raw value for key.
func (s *Section) Get(key string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	for _, e := range s.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes a JSON object keeping key order. Duplicate keys keep the
// position of the first occurrence and the value of the last, matching how
// JavaScript object literals behave.
func (s *Section) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("state section must be an object, got %v", tok)
	}

	s.Entries = s.Entries[:0]
	pos := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("state section key must be a string, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("state section %q: %w", key, err)
		}
		if i, dup := pos[key]; dup {
			s.Entries[i].Value = value
			continue
		}
		pos[key] = len(s.Entries)
		s.Entries = append(s.Entries, Entry{Key: key, Value: value})
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the section as a JSON object in entry order.
func (s Section) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(e.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(e.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RawDescription is one element of the input's descriptions array.
type RawDescription struct {
	NodeID      int          `json:"nodeId"`
	Description *Description `json:"description"`
}

// IndexDescriptions maps node ids to their description. When the same node id
// appears more than once the last entry wins; a null description removes any earlier
// one. Ids that match no node are kept; they simply attach to nothing.
func IndexDescriptions(descs []RawDescription) map[int]*Description {
	index := make(map[int]*Description, len(descs))
	for _, d := range descs {
		if d.Description == nil {
			delete(index, d.NodeID)
			continue
		}
		index[d.NodeID] = d.Description
	}
	return index
}

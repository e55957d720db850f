package selection

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

// DefaultPreview is the number of heap and type entries shown before the rest are
// collapsed behind an overflow count.
const DefaultPreview = 5

// SectionKind identifies one of the abstract-state sections of a description.
type SectionKind string

const (
	SectionHeap  SectionKind = "heap"
	SectionType  SectionKind = "type"
	SectionValue SectionKind = "value"
)

// Title returns the heading shown above the section.
func (k SectionKind) Title() string {
	switch k {
	case SectionHeap:
		return "Heap State"
	case SectionType:
		return "Type Information"
	case SectionValue:
		return "Value Information"
	default:
		return string(k)
	}
}

// Entry is one key/value line of a state section.
type Entry struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Display     string          `json:"display"`
	Highlighted bool            `json:"highlighted"`
}

// Section is a state section prepared for display. Entries holds every entry in
// input order; Preview of them are visible up front and Overflow are collapsed.
type Section struct {
	Kind     SectionKind `json:"kind"`
	Title    string      `json:"title"`
	Entries  []Entry     `json:"entries"`
	Preview  int         `json:"preview"`
	Overflow int         `json:"overflow"`
}

// Visible returns the entries shown before expanding.
func (s Section) Visible() []Entry {
	if s.Preview <= 0 || s.Preview >= len(s.Entries) {
		return s.Entries
	}
	return s.Entries[:s.Preview]
}

// Collapsed returns the entries hidden behind the overflow count.
func (s Section) Collapsed() []Entry {
	if s.Preview <= 0 || s.Preview >= len(s.Entries) {
		return nil
	}
	return s.Entries[s.Preview:]
}

// Highlights returns the number of highlighted entries.
func (s Section) Highlights() int {
	n := 0
	for _, e := range s.Entries {
		if e.Highlighted {
			n++
		}
	}
	return n
}

// View is the details panel content for one node.
type View struct {
	NodeID         int       `json:"nodeId"`
	Text           string    `json:"text"`
	Role           cfg.Role  `json:"role"`
	RoleLabel      string    `json:"roleLabel"`
	HasDescription bool      `json:"hasDescription"`
	Expressions    []string  `json:"expressions,omitempty"`
	Sections       []Section `json:"sections,omitempty"`
}

// Section returns the section of the given kind.
func (v *View) Section(kind SectionKind) (Section, bool) {
	for _, s := range v.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Tooltip is the short summary shown while the pointer rests on a node.
type Tooltip struct {
	NodeID      int      `json:"nodeId"`
	Text        string   `json:"text"`
	Role        cfg.Role `json:"role"`
	Expressions []string `json:"expressions,omitempty"`
}

// String renders the tooltip as plain text lines.
func (t Tooltip) String() string {
	var b strings.Builder
	b.WriteString("Node ")
	b.WriteString(strconv.Itoa(t.NodeID))
	b.WriteString("\n")
	b.WriteString(t.Text)
	b.WriteString("\nType: ")
	b.WriteString(t.Role.String())
	b.WriteString(" node")
	if len(t.Expressions) > 0 {
		b.WriteString("\nExpressions: ")
		b.WriteString(strings.Join(t.Expressions, ", "))
	}
	return b.String()
}

// RoleLabel returns the badge shown next to a node's id in the details panel.
func RoleLabel(r cfg.Role) string {
	switch r {
	case cfg.RoleStart:
		return "(START)"
	case cfg.RoleEnd:
		return "(END)"
	case cfg.RoleMain:
		return "(CFG Node)"
	case cfg.RoleDetail:
		return "(Expression Detail)"
	default:
		return ""
	}
}

// Highlighted reports whether a state key relates to one of the expressions.
//
// The rule is a plain substring test: a key is highlighted when it contains any
// expression. It over-matches (expression "b" highlights key "b1", and an empty
// expression highlights everything).
func Highlighted(key string, expressions []string) bool {
	for _, expr := range expressions {
		if strings.Contains(key, expr) {
			return true
		}
	}
	return false
}

// Describe builds the details view of n. Heap and type sections show preview
// entries before overflowing; the value section is never collapsed. A preview of
// zero or less disables collapsing.
func Describe(n *cfg.Node, preview int) *View {
	v := &View{
		NodeID:    n.ID,
		Text:      n.Text,
		Role:      n.Role,
		RoleLabel: RoleLabel(n.Role),
	}
	d := n.Description
	if d == nil {
		return v
	}
	v.HasDescription = true
	v.Expressions = append([]string(nil), d.Expressions...)

	add := func(kind SectionKind, s *cfg.Section, limit int) {
		if s == nil {
			return
		}
		sec := Section{Kind: kind, Title: kind.Title(), Entries: make([]Entry, 0, s.Len())}
		for _, e := range s.Entries {
			sec.Entries = append(sec.Entries, Entry{
				Key:         e.Key,
				Value:       e.Value,
				Display:     display(e.Value, kind == SectionValue),
				Highlighted: Highlighted(e.Key, d.Expressions),
			})
		}
		if limit > 0 && len(sec.Entries) > limit {
			sec.Preview = limit
			sec.Overflow = len(sec.Entries) - limit
		}
		v.Sections = append(v.Sections, sec)
	}
	add(SectionHeap, d.State.Heap, preview)
	add(SectionType, d.State.Type, preview)
	add(SectionValue, d.State.Value, 0)
	return v
}

// NewTooltip builds the hover summary of n.
func NewTooltip(n *cfg.Node) *Tooltip {
	t := &Tooltip{NodeID: n.ID, Text: n.Text, Role: n.Role}
	if n.Description != nil {
		t.Expressions = append([]string(nil), n.Description.Expressions...)
	}
	return t
}

// display renders a raw value as compact JSON. Value-section strings are shown
// without quotes since they are already formatted intervals like "[0, 9]".
func display(raw json.RawMessage, unquote bool) string {
	if len(raw) == 0 {
		return "null"
	}
	if unquote {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

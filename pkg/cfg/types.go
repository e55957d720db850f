package cfg

import (
	"fmt"
)

// Role classifies a node by its position in the control-flow graph.
// Roles are derived from the edge set and never read from input.
type Role int

const (
	// RoleDetail marks a node that no flow edge touches. Detail nodes exist only to
	// decompose a main-graph node's expression into sub-expressions.
	RoleDetail Role = iota
	// RoleStart marks a main-graph node with no incoming and at least one outgoing edge.
	RoleStart
	// RoleEnd marks a main-graph node with at least one incoming and no outgoing edge.
	RoleEnd
	// RoleMain marks every other main-graph node.
	RoleMain
)

var roleNames = [...]string{
	RoleDetail: "detail",
	RoleStart:  "start",
	RoleEnd:    "end",
	RoleMain:   "main",
}

// String returns the lowercase role name ("start", "end", "main", "detail").
func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// IsMainGraph reports whether the role belongs to the control-flow part of the graph.
func (r Role) IsMainGraph() bool { return r != RoleDetail }

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	for i, name := range roleNames {
		if name == string(b) {
			*r = Role(i)
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", b)
}

// EdgeKind discriminates flow edges (from input) and synthesized detail edges.
type EdgeKind int

const (
	// EdgeSequential is unconditional control transfer. It is the default kind.
	EdgeSequential EdgeKind = iota
	// EdgeTrue is the branch taken when a condition holds.
	EdgeTrue
	// EdgeFalse is the branch taken when a condition fails.
	EdgeFalse
	// EdgeDetail links an owner node to one of its sub-nodes. Never read from input.
	EdgeDetail
)

// Wire names of the edge kinds.
const (
	KindSequential = "SequentialEdge"
	KindTrue       = "TrueEdge"
	KindFalse      = "FalseEdge"
	KindDetail     = "DetailEdge"
)

// String returns the wire name of the kind.
func (k EdgeKind) String() string {
	switch k {
	case EdgeSequential:
		return KindSequential
	case EdgeTrue:
		return KindTrue
	case EdgeFalse:
		return KindFalse
	case EdgeDetail:
		return KindDetail
	default:
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
}

// IsFlow reports whether the kind is a control-flow kind (Sequential, True, False).
func (k EdgeKind) IsFlow() bool { return k != EdgeDetail }

// IsConditional reports whether the kind is a True or False branch.
func (k EdgeKind) IsConditional() bool { return k == EdgeTrue || k == EdgeFalse }

// MarshalText implements encoding.TextMarshaler.
func (k EdgeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Only flow kinds are accepted;
// detail edges are always synthesized from subNodes.
func (k *EdgeKind) UnmarshalText(text []byte) error {
	kind, err := ParseEdgeKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseEdgeKind converts a wire name to a flow EdgeKind. The empty string maps to
// EdgeSequential.
func ParseEdgeKind(s string) (EdgeKind, error) {
	switch s {
	case "", KindSequential:
		return EdgeSequential, nil
	case KindTrue:
		return EdgeTrue, nil
	case KindFalse:
		return EdgeFalse, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEdgeKind, s)
	}
}

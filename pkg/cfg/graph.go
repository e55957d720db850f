package cfg

import (
	"errors"
	"fmt"

	cfgerrors "github.com/matzehuels/cfgview/pkg/errors"
)

var (
	// ErrUnknownNode is the cause attached when an edge endpoint or a subNodes entry
	// references an id that no node declares.
	ErrUnknownNode = errors.New("unknown node id")

	// ErrDuplicateNodeID is the cause attached when two nodes share an id.
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// ErrUnknownEdgeKind is returned by [ParseEdgeKind] for kinds other than
	// SequentialEdge, TrueEdge and FalseEdge.
	ErrUnknownEdgeKind = errors.New("unknown edge kind")
)

// DefaultName is the title used when the input carries no name.
const DefaultName = "Control Flow Graph"

// Node is a vertex of the control-flow graph. Role is derived by [Build].
type Node struct {
	ID       int
	Text     string
	Role     Role
	SubNodes []int // ids of the expression nodes decomposing this node, in input order

	// Description is the analysis payload for this node, or nil.
	Description *Description
}

// Edge is a directed connection. Flow edges come from the input; detail edges are
// synthesized from SubNodes. ID is the edge's position in [Graph.Edges].
type Edge struct {
	ID     int
	Source int
	Target int
	Kind   EdgeKind
}

// Graph is an immutable typed control-flow graph produced by [Build].
//
// Nodes keep input order; edges list flow edges in input order followed by detail
// edges in declaration order. Parallel edges are kept.
// A Graph is safe for concurrent reads.
type Graph struct {
	name     string
	nodes    []*Node
	index    map[int]*Node
	edges    []Edge
	flow     int           // number of leading flow edges in edges
	outgoing map[int][]int // node id -> flow edge indices
	incoming map[int][]int // node id -> flow edge indices
	descs    map[int]*Description
}

// Build validates a raw input and produces a fresh Graph.
//
// Validation failures are *errors.Error values with code INVALID_INPUT naming the
// offending field: missing nodes or edges arrays, duplicate node ids, edges whose
// endpoints are not declared, and subNodes entries that reference no node.
//
// Roles follow from the flow edges only: a node that appears in no edge is a Detail
// node; otherwise it is Start when it has outgoing but no incoming edges, End when it
// has incoming but no outgoing edges, and Main in every other case (self-loops count
// both ways). Build never mutates in and never reuses state from a previous Graph.
func Build(in *Input) (*Graph, error) {
	if in == nil {
		return nil, cfgerrors.Validation("", "input is empty")
	}
	if in.Nodes == nil {
		return nil, cfgerrors.Validation("nodes", "missing or not an array")
	}
	if in.Edges == nil {
		return nil, cfgerrors.Validation("edges", "missing or not an array")
	}

	g := &Graph{
		name:     in.Name,
		nodes:    make([]*Node, 0, len(in.Nodes)),
		index:    make(map[int]*Node, len(in.Nodes)),
		edges:    make([]Edge, 0, len(in.Edges)),
		outgoing: make(map[int][]int),
		incoming: make(map[int][]int),
		descs:    IndexDescriptions(in.Descriptions),
	}
	if g.name == "" {
		g.name = DefaultName
	}

	for i, raw := range in.Nodes {
		if _, dup := g.index[raw.ID]; dup {
			return nil, cfgerrors.Validation(fmt.Sprintf("nodes[%d].id", i),
				"node id %d declared more than once", raw.ID).WithCause(ErrDuplicateNodeID)
		}
		n := &Node{
			ID:          raw.ID,
			Text:        raw.Text,
			SubNodes:    append([]int(nil), raw.SubNodes...),
			Description: g.descs[raw.ID],
		}
		g.nodes = append(g.nodes, n)
		g.index[n.ID] = n
	}

	for i, raw := range in.Edges {
		if _, ok := g.index[raw.SourceID]; !ok {
			return nil, cfgerrors.Validation(fmt.Sprintf("edges[%d].sourceId", i),
				"edge references unknown node id %d", raw.SourceID).WithCause(ErrUnknownNode)
		}
		if _, ok := g.index[raw.DestID]; !ok {
			return nil, cfgerrors.Validation(fmt.Sprintf("edges[%d].destId", i),
				"edge references unknown node id %d", raw.DestID).WithCause(ErrUnknownNode)
		}
		if !raw.Kind.IsFlow() {
			return nil, cfgerrors.Validation(fmt.Sprintf("edges[%d].kind", i),
				"%v: %s", ErrUnknownEdgeKind, raw.Kind).WithCause(ErrUnknownEdgeKind)
		}
		id := len(g.edges)
		g.edges = append(g.edges, Edge{ID: id, Source: raw.SourceID, Target: raw.DestID, Kind: raw.Kind})
		g.outgoing[raw.SourceID] = append(g.outgoing[raw.SourceID], id)
		g.incoming[raw.DestID] = append(g.incoming[raw.DestID], id)
	}
	g.flow = len(g.edges)

	for i, n := range g.nodes {
		for j, sub := range n.SubNodes {
			if _, ok := g.index[sub]; !ok {
				return nil, cfgerrors.Validation(fmt.Sprintf("nodes[%d].subNodes[%d]", i, j),
					"sub-node references unknown node id %d", sub).WithCause(ErrUnknownNode)
			}
			g.edges = append(g.edges, Edge{ID: len(g.edges), Source: n.ID, Target: sub, Kind: EdgeDetail})
		}
	}

	for _, n := range g.nodes {
		n.Role = classify(len(g.incoming[n.ID]), len(g.outgoing[n.ID]))
	}
	return g, nil
}

func classify(in, out int) Role {
	switch {
	case in == 0 && out == 0:
		return RoleDetail
	case in == 0:
		return RoleStart
	case out == 0:
		return RoleEnd
	default:
		return RoleMain
	}
}

// Name returns the graph title, or [DefaultName] when the input had none.
func (g *Graph) Name() string { return g.name }

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns all nodes in input order. The returned slice is a copy; the nodes
// themselves must not be modified.
func (g *Graph) Nodes() []*Node { return append([]*Node(nil), g.nodes...) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Edges returns flow edges followed by detail edges.
func (g *Graph) Edges() []Edge { return append([]Edge(nil), g.edges...) }

// EdgeCount returns the number of flow and detail edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id int) (Edge, bool) {
	if id < 0 || id >= len(g.edges) {
		return Edge{}, false
	}
	return g.edges[id], true
}

// FlowEdges returns the input edges in input order.
func (g *Graph) FlowEdges() []Edge { return append([]Edge(nil), g.edges[:g.flow]...) }

// DetailEdges returns the synthesized owner-to-sub-node edges.
func (g *Graph) DetailEdges() []Edge { return append([]Edge(nil), g.edges[g.flow:]...) }

// Children returns the distinct flow successors of id in edge order.
func (g *Graph) Children(id int) []int {
	return g.distinct(g.outgoing[id], func(e Edge) int { return e.Target })
}

// Parents returns the distinct flow predecessors of id in edge order.
func (g *Graph) Parents(id int) []int {
	return g.distinct(g.incoming[id], func(e Edge) int { return e.Source })
}

func (g *Graph) distinct(edgeIDs []int, end func(Edge) int) []int {
	if len(edgeIDs) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(edgeIDs))
	out := make([]int, 0, len(edgeIDs))
	for _, eid := range edgeIDs {
		id := end(g.edges[eid])
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// InDegree returns the number of incoming flow edges, parallel edges included.
func (g *Graph) InDegree(id int) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing flow edges, parallel edges included.
func (g *Graph) OutDegree(id int) int { return len(g.outgoing[id]) }

// Sources returns the ids of Start nodes in input order.
func (g *Graph) Sources() []int { return g.withRole(RoleStart) }

// Sinks returns the ids of End nodes in input order.
func (g *Graph) Sinks() []int { return g.withRole(RoleEnd) }

func (g *Graph) withRole(r Role) []int {
	var ids []int
	for _, n := range g.nodes {
		if n.Role == r {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// RoleCounts returns how many nodes carry each role.
func (g *Graph) RoleCounts() map[Role]int {
	counts := make(map[Role]int, 4)
	for _, n := range g.nodes {
		counts[n.Role]++
	}
	return counts
}

// Description returns the analysis payload indexed under id, including entries whose
// id matches no node.
func (g *Graph) Description(id int) (*Description, bool) {
	d, ok := g.descs[id]
	return d, ok
}

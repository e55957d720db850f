package cfg

// View is the visible subgraph of a Graph for one detail setting.
//
// With details shown it contains every node and edge. With details hidden it
// contains only main-graph nodes (Start, End, Main) and only flow edges. Node and edge
// order follow the Graph.
type View struct {
	graph       *Graph
	showDetails bool
	nodes       []*Node
	edges       []Edge
	has         map[int]bool
}

// View computes the visible subgraph.
func (g *Graph) View(showDetails bool) *View {
	v := &View{
		graph:       g,
		showDetails: showDetails,
		has:         make(map[int]bool, len(g.nodes)),
	}
	for _, n := range g.nodes {
		if showDetails || n.Role.IsMainGraph() {
			v.nodes = append(v.nodes, n)
			v.has[n.ID] = true
		}
	}
	if showDetails {
		v.edges = append([]Edge(nil), g.edges...)
	} else {
		v.edges = append([]Edge(nil), g.edges[:g.flow]...)
	}
	return v
}

// Graph returns the graph the view was computed from.
func (v *View) Graph() *Graph { return v.graph }

// ShowDetails reports whether Detail nodes are included.
func (v *View) ShowDetails() bool { return v.showDetails }

// Nodes returns the visible nodes.
func (v *View) Nodes() []*Node { return v.nodes }

// Edges returns the visible edges.
func (v *View) Edges() []Edge { return v.edges }

// Len returns the number of visible nodes.
func (v *View) Len() int { return len(v.nodes) }

// Has reports whether the node with id is visible.
func (v *View) Has(id int) bool { return v.has[id] }

// NodeIDs returns the visible node ids in graph order.
func (v *View) NodeIDs() []int {
	ids := make([]int, len(v.nodes))
	for i, n := range v.nodes {
		ids[i] = n.ID
	}
	return ids
}

// EdgeIDs returns the visible edge ids in graph order.
func (v *View) EdgeIDs() []int {
	ids := make([]int, len(v.edges))
	for i, e := range v.edges {
		ids[i] = e.ID
	}
	return ids
}

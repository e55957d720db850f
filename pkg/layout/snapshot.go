package layout

import "github.com/matzehuels/cfgview/pkg/cfg"

// Snapshot is the state of a simulation after a tick, ready to be drawn.
type Snapshot struct {
	Tick    int            `json:"tick"`
	Alpha   float64        `json:"alpha"`
	Energy  float64        `json:"energy"` // kinetic energy of unpinned nodes
	Settled bool           `json:"settled"`
	Nodes   []NodePosition `json:"nodes"`
	Edges   []EdgeSegment  `json:"edges"`
	Labels  []EdgeLabel    `json:"labels,omitempty"`
}

// NodePosition is a node's center.
type NodePosition struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// EdgeSegment is an edge drawn between the centers of its endpoints.
type EdgeSegment struct {
	ID     int          `json:"id"`
	Kind   cfg.EdgeKind `json:"kind"`
	Source int          `json:"source"`
	Target int          `json:"target"`
	X1     float64      `json:"x1"`
	Y1     float64      `json:"y1"`
	X2     float64      `json:"x2"`
	Y2     float64      `json:"y2"`
}

// Midpoint returns the center of the segment.
func (e EdgeSegment) Midpoint() Point {
	return Point{X: (e.X1 + e.X2) / 2, Y: (e.Y1 + e.Y2) / 2}
}

// EdgeLabel is the "T" or "F" badge placed at the midpoint of a branch edge.
type EdgeLabel struct {
	EdgeID int     `json:"edgeId"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Position returns the position of node id in the snapshot.
func (s Snapshot) Position(id int) (Point, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return Point{X: n.X, Y: n.Y}, true
		}
	}
	return Point{}, false
}

// Bounds returns the bounding box of all node centers. It returns zero points for an
// empty snapshot.
func (s Snapshot) Bounds() (lo, hi Point) {
	for i, n := range s.Nodes {
		if i == 0 {
			lo, hi = Point{X: n.X, Y: n.Y}, Point{X: n.X, Y: n.Y}
			continue
		}
		if n.X < lo.X {
			lo.X = n.X
		}
		if n.Y < lo.Y {
			lo.Y = n.Y
		}
		if n.X > hi.X {
			hi.X = n.X
		}
		if n.Y > hi.Y {
			hi.Y = n.Y
		}
	}
	return lo, hi
}

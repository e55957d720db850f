// Package nodelink exports laid-out control-flow graphs as Graphviz diagrams.
//
// # Usage
//
// Convert a graph and a layout snapshot to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Node positions from the snapshot are pinned (pos="x,y!") and the neato engine is
// used, so Graphviz draws the force layout as is instead of computing its own.
// With [Options.Relayout] positions are omitted and Graphviz lays the graph out
// top to bottom with dot, which is handy for printing large graphs.
package nodelink

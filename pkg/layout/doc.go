// Package layout computes force-directed positions for a visible control-flow
// subgraph.
//
// # Model
//
// Every visible node is a point mass. Four forces act on it each tick:
//
//   - Link springs pull the endpoints of each edge toward a rest distance (150 for
//     flow edges, 80 for detail edges). The correction is split by degree.
//   - Many-body repulsion pushes every pair of nodes apart.
//   - Centering translates the whole graph so its mean sits on the canvas center.
//   - Collision separates nodes whose circles (radius 70, or 50 for detail nodes)
//     overlap.
//
// A temperature alpha scales the forces. It starts at 1 and decays geometrically
// toward alphaTarget; once it drops below AlphaMin the simulation is settled.
// Dragging raises alphaTarget so the graph reacts while the pointer moves.
//
// # Driving
//
// [Simulation.Step] runs one tick. [Simulation.Advance] converts elapsed frame time
// into ticks with a fixed step and stops ticking once settled until
// [Simulation.Reheat]. Neither starts timers: frames come from a [Clock], usually a
// [ManualClock] ticked by the caller. [Runner] ties a Clock, a Simulation and a
// [Sink] together and guarantees a single live run.
//
// # Pinning
//
// [Simulation.Pin] fixes a node at a point; every tick keeps it there with zero
// velocity until [Simulation.Unpin]. Other nodes keep reacting to it.
package layout

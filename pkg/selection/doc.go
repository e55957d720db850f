// Package selection turns a clicked node into a details view and keeps the
// selection mark on the rendering surface in sync.
//
// Highlighting ties the abstract state to the node: an entry of the heap, type or
// value section is highlighted when its key contains one of the node's current
// expressions (see [Highlighted]).
package selection

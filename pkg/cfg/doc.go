// Package cfg provides the typed control-flow graph that cfgview lays out and
// inspects.
//
// # Overview
//
// A static analyzer describes a method body as a set of nodes (statements and
// expressions), flow edges between statements, and optional per-node analysis
// descriptions. [Build] validates such an [Input] and derives a [Graph] whose nodes
// carry a [Role]:
//
//   - [RoleStart]: no incoming and at least one outgoing flow edge
//   - [RoleEnd]: at least one incoming and no outgoing flow edge
//   - [RoleMain]: every other node touched by a flow edge
//   - [RoleDetail]: nodes no flow edge touches
//
// Detail nodes decompose a statement into sub-expressions. They are linked to their
// owner by synthesized [EdgeDetail] edges, one per subNodes entry.
//
// # Basic Usage
//
//	var in cfg.Input
//	if err := json.Unmarshal(data, &in); err != nil {
//	    return err
//	}
//	g, err := cfg.Build(&in)
//	if err != nil {
//	    return err // *errors.Error with code INVALID_INPUT
//	}
//	v := g.View(false) // main graph only
//
// # Descriptions
//
// [Description] values are opaque analysis payloads. Only Expressions is
// interpreted (by the selection package); the heap, type and value sections are kept
// as ordered key/value lists so that displays follow the analyzer's ordering.
//
// # Views
//
// [Graph.View] computes the visible subgraph for a detail setting. The layout engine
// always runs on a View, never on the full Graph.
//
// # Concurrency
//
// A Graph is immutable after Build and safe for concurrent reads.
package cfg

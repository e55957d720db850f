// Package pkg provides the libraries behind cfgview, an explorer for control-flow
// graphs exported by a static analyzer.
//
// # Overview
//
// A control-flow graph arrives as JSON: statement nodes, the sequential and
// branch edges between them, detail nodes for sub-expressions and an optional
// abstract-state description per node. The pkg directory is organized into:
//
//  1. [cfg] - Input decoding, graph construction and role assignment
//  2. [layout] - Force-directed simulation, its clock and frame snapshots
//  3. [interact] - Drag gestures and the detail toggle
//  4. [selection] - Details panel and tooltip content for a node
//  5. [render] - Node attributes, SVG and Graphviz output, format conversion
//  6. [session] - One loaded graph with its layout, selection and persistence
//  7. [server] - HTTP API over sessions
//
// Supporting packages are [cache], [config], [errors], [io], [observability]
// and [buildinfo].
//
// # Architecture
//
// The typical data flow through cfgview:
//
//	CFG JSON
//	    ↓
//	[cfg] package (decode, validate, assign roles)
//	    ↓
//	[layout] package (simulate until the graph settles)
//	    ↓
//	[render] package (SVG, PDF, PNG, DOT or JSON)
//
// Interactive front ends (the terminal viewer and the HTTP API) hold a
// [session.Session] and feed it frames, drags, clicks and detail toggles.
//
// # Quick Start
//
// Load a sample, settle the layout and render it:
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/matzehuels/cfgview/pkg/cfg"
//	    "github.com/matzehuels/cfgview/pkg/render/svg"
//	    "github.com/matzehuels/cfgview/pkg/session"
//	)
//
//	data, _ := cfg.SampleJSON("conditional")
//	sess := session.New()
//	defer sess.Close()
//	if err := sess.LoadBytes(context.Background(), "conditional", data); err != nil {
//	    return err
//	}
//	snap := sess.Settle(16*time.Millisecond, 2000)
//	out := svg.Render(snap, sess.Attributes(), svg.WithFit(40))
//
// The cfgview command in cmd/cfgview wraps these packages in a CLI.
package pkg

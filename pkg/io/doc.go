// Package io reads and writes cfgview's JSON input format.
//
// # JSON Format
//
// The input is a single object with two required arrays and two optional fields:
//
//	{
//	  "name": "void Main::main(String*[] args)",
//	  "nodes": [
//	    {"id": 0, "text": "b1 = B(8)", "subNodes": [1]},
//	    {"id": 1, "text": "b1"},
//	    {"id": 2, "text": "ret"}
//	  ],
//	  "edges": [
//	    {"sourceId": 0, "destId": 2, "kind": "SequentialEdge"}
//	  ],
//	  "descriptions": [
//	    {"nodeId": 0, "description": {"expressions": ["b1"], "state": {"heap": {}, "type": {}, "value": {}}}}
//	  ]
//	}
//
// Edge kinds are "SequentialEdge" (the default), "TrueEdge" and "FalseEdge".
// Unknown top-level fields are ignored.
//
// # Errors
//
// Payloads that cannot be decoded at all produce an error with code INVALID_FORMAT.
// Payloads that decode but are structurally wrong produce INVALID_INPUT naming the
// offending field. See [github.com/matzehuels/cfgview/pkg/errors].
//
// # Import
//
// Use [ImportInput] to read from a file path, [ReadInput] for any io.Reader, or
// [ParseInput] for bytes already in memory. [ReadGraph] and [ImportGraph] also run
// [cfg.Build].
//
// # Export
//
// [WriteInput] and [ExportInput] encode an Input back to the same format. Section key
// order survives the round trip.
package io

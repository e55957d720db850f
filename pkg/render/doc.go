// Package render turns laid-out control-flow graphs into pictures.
//
// # Overview
//
// Rendering is split in three layers:
//
//   - Static node attributes ([NodeAttributes], [GraphAttributes]) and edge styles
//     ([StyleForEdge]): box sizes, colors, truncated labels and START/END badges.
//     They depend only on the graph and are computed once per load.
//   - A [Surface] that the layout runner streams frames to and the selection
//     service marks nodes on. [Recorder] keeps the latest frame in memory for the
//     terminal viewer, the HTTP API and file exports.
//   - Writers for concrete formats: the [svg] subpackage draws a snapshot directly,
//     the [nodelink] subpackage hands pinned positions to Graphviz.
//
// # Format Conversion
//
// [Convert] turns SVG into PDF or PNG using the external rsvg-convert tool (from
// librsvg).
//
//	doc := svg.Render(rec.Last(), attrs)
//	pdf, err := render.Convert(ctx, doc, render.FormatPDF, 1)
//	png, err := render.Convert(ctx, doc, render.FormatPNG, 2) // 2x scale
package render

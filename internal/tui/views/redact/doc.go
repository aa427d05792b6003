// Package redact implements the interactive review screen for one
// document's redaction spans.
//
// # Offset Coordinate Systems
//
// The view works in two coordinate systems:
//
//  1. Absolute offsets: character positions in the document's extracted
//     text. Spans, marks, and regions all live here.
//  2. Visual offsets: positions in the countable rendered text, which
//     skips every table's reserved markup range. The selection cursor
//     lives here.
//
// The overlay.RunIndex built on every render pass converts between the
// two. A new manual redaction is created by translating the visual
// selection back to absolute offsets through the index.
//
// # Architecture
//
// Every state change runs the full pipeline again: resolve regions,
// project spans to marks, render runs, rebuild the index, restyle the
// viewport content. The engine is pure; this package owns all
// interaction state (cursor, selection anchor, active modal) and talks
// to the stores.
package redact

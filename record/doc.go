// Package record defines the structured records produced by extraction
// plugins and helpers for filtering, exporting, and consuming them.
//
// A Record carries the canonical field mapping parsed from one data
// row, together with provenance: which tool produced the row, which
// output file it came from, and the invocation arguments recovered
// from the filename. Field values remain strings end to end; the
// coercion helpers (Int, Float, ...) exist for consumers that want
// typed access and default rather than fail on non-numeric content.
package record

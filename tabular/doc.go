// Package tabular implements header-driven parsing of whitespace-aligned
// command output such as ps, netstat, and lsof listings.
//
// The engine has no command-specific knowledge. Given the lines of one
// output file it locates the header row (DetectHeader), infers column
// boundaries from the header tokens and a small sample of data lines
// (New), and splits each data row into named values (Table.ParseLine).
// AliasTable then maps the raw header spellings onto canonical field
// names so that callers can consume a column regardless of which tool
// dialect produced it.
//
// A Table is built once per output file and is immutable afterward; it
// is safe to parse files concurrently as long as each file gets its own
// Table. All failure modes are non-fatal: a missing header yields no
// rows, a short line yields empty values, and an unknown header surfaces
// under its normalized name.
package tabular

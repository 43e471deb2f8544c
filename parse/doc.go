// Package parse provides generic parsing helpers for regex-structured
// text and JSON payloads.
//
// LineParser drives the line-oriented configuration parsers (such as
// the PAM plugin) that need named regex patterns rather than tabular
// inference; the JSON helpers decode queue results and exported record
// streams. Tabular command output is handled separately by package
// tabular.
package parse

// Package plugin defines the extraction plugin interface and a builder
// for constructing plugins from parse functions.
//
// An extraction plugin owns one command's output files: it discovers
// them in a collection by filename prefix, parses them (typically
// through the tabular engine), and maps the parsed rows into records.
// Plugins are compiled in and registered on an in-process Registry;
// there is no external plugin runtime.
package plugin

// Package source discovers and reads collected command output files.
//
// A Collection wraps the filesystem of one host triage collection.
// Command outputs are stored as flat files under the command_outputs
// directory, named after the tool invocation that produced them
// (ps_aux.txt, lsof_-i.txt), so the invocation arguments survive as
// filename metadata. The package supplies ordered line sequences to the
// parsing engine and never interprets their contents.
//
// Reads are deliberately forgiving: undecodable bytes are replaced with
// U+FFFD and I/O failures are logged and yield no lines, so a single
// unreadable file never aborts an extraction run.
package source

package plugin

import (
	"context"
	"errors"

	"github.com/zero-day-ai/cmdout/record"
	"github.com/zero-day-ai/cmdout/source"
)

// ErrNotCompatible indicates that a plugin has nothing to parse in the
// given collection (missing outputs directory or no matching files).
// It is a normal, non-fatal condition: the pipeline skips the plugin.
var ErrNotCompatible = errors.New("plugin not compatible with collection")

// Plugin is the interface for command output extraction plugins.
type Plugin interface {
	// Name returns the unique identifier for the plugin.
	Name() string

	// Version returns the semantic version of the plugin.
	Version() string

	// Description returns a human-readable description of what the
	// plugin extracts.
	Description() string

	// Command returns the command name whose output files this plugin
	// parses; files are discovered by this filename prefix.
	Command() string

	// CheckCompatible reports whether the collection holds anything
	// for this plugin to parse. Returns ErrNotCompatible (possibly
	// wrapped) when it does not.
	CheckCompatible(ctx context.Context, c *source.Collection) error

	// Parse extracts records from every matching output file in the
	// collection. Malformed files contribute zero or partial records;
	// Parse only fails on conditions the plugin cannot degrade
	// around.
	Parse(ctx context.Context, c *source.Collection) ([]record.Record, error)
}

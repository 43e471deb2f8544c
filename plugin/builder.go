package plugin

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/cmdout/record"
	"github.com/zero-day-ai/cmdout/source"
)

// ParseFileFunc extracts records from a single discovered output file.
type ParseFileFunc func(ctx context.Context, c *source.Collection, file source.OutputFile) ([]record.Record, error)

// CheckFunc overrides the default compatibility check.
type CheckFunc func(ctx context.Context, c *source.Collection) error

// Config holds the configuration for building a plugin. Use NewConfig
// to create one, the setters to populate it, and New to build the
// plugin.
type Config struct {
	name        string
	version     string
	description string
	command     string
	parseFile   ParseFileFunc
	check       CheckFunc
}

// NewConfig creates a new plugin configuration.
func NewConfig() *Config {
	return &Config{}
}

// SetName sets the plugin name.
func (c *Config) SetName(name string) {
	c.name = name
}

// SetVersion sets the plugin version.
func (c *Config) SetVersion(version string) {
	c.version = version
}

// SetDescription sets the plugin description.
func (c *Config) SetDescription(desc string) {
	c.description = desc
}

// SetCommand sets the command name whose output files the plugin
// parses.
func (c *Config) SetCommand(command string) {
	c.command = command
}

// SetParseFileFunc sets the per-file extraction function. Required.
func (c *Config) SetParseFileFunc(fn ParseFileFunc) {
	c.parseFile = fn
}

// SetCheckFunc overrides the default compatibility check (outputs
// directory present and at least one matching file).
func (c *Config) SetCheckFunc(fn CheckFunc) {
	c.check = fn
}

// New creates a Plugin from the configuration. Returns an error if the
// configuration is incomplete.
func New(cfg *Config) (Plugin, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.name == "" {
		return nil, fmt.Errorf("plugin name is required")
	}
	if cfg.version == "" {
		return nil, fmt.Errorf("plugin version is required")
	}
	if cfg.command == "" {
		return nil, fmt.Errorf("plugin command is required")
	}
	if cfg.parseFile == nil {
		return nil, fmt.Errorf("plugin parse function is required")
	}

	return &builtPlugin{cfg: *cfg}, nil
}

// builtPlugin is the Plugin implementation produced by New.
type builtPlugin struct {
	cfg Config
}

func (p *builtPlugin) Name() string        { return p.cfg.name }
func (p *builtPlugin) Version() string     { return p.cfg.version }
func (p *builtPlugin) Description() string { return p.cfg.description }
func (p *builtPlugin) Command() string     { return p.cfg.command }

// CheckCompatible applies the configured check, or the default: the
// collection must have an outputs directory with at least one file
// matching the plugin's command prefix.
func (p *builtPlugin) CheckCompatible(ctx context.Context, c *source.Collection) error {
	if p.cfg.check != nil {
		return p.cfg.check(ctx, c)
	}

	if !c.Compatible() {
		return fmt.Errorf("%w: no %s directory", ErrNotCompatible, source.OutputsDir)
	}

	files, err := c.Outputs(p.cfg.command)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %s output files", ErrNotCompatible, p.cfg.command)
	}

	return nil
}

// Parse runs the per-file extraction function over every matching
// output file. A file that fails to parse contributes no records but
// does not abort the remaining files; the first error is reported
// after all files have been attempted.
func (p *builtPlugin) Parse(ctx context.Context, c *source.Collection) ([]record.Record, error) {
	files, err := c.Outputs(p.cfg.command)
	if err != nil {
		return nil, err
	}

	var records []record.Record
	var firstErr error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		recs, err := p.cfg.parseFile(ctx, c, file)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("parsing %s: %w", file.Path, err)
			}
			continue
		}
		records = append(records, recs...)
	}

	return records, firstErr
}

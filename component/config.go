// Package component provides loading and parsing of collection.yaml
// configuration files. A collection configuration describes a parsing
// component: which plugins it runs, how table inference is tuned,
// field alias overlays, and worker runtime settings.
package component

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents a collection.yaml configuration file.
type Config struct {
	// Identity
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`

	// Parsing configuration
	Parsing *ParsingConfig `yaml:"parsing,omitempty"`

	// Aliases overlays extra header spellings onto the plugins' built-in
	// alias tables, canonical field name to spellings.
	Aliases map[string][]string `yaml:"aliases,omitempty"`

	// Worker configuration (for queue-based execution)
	Worker *WorkerConfig `yaml:"worker,omitempty"`

	// Additional metadata
	Author     string `yaml:"author,omitempty"`
	Repository string `yaml:"repository,omitempty"`
}

// ParsingConfig tunes table inference and plugin selection.
type ParsingConfig struct {
	// SampleLimit is the number of data lines inspected when refining
	// column boundaries. Values <= 0 select the engine default (5).
	SampleLimit int `yaml:"sample_limit,omitempty"`

	// Plugins restricts the pipeline to the named plugins. Empty means
	// every registered plugin runs.
	Plugins []string `yaml:"plugins,omitempty"`
}

// GetSampleLimit returns the configured sample limit, or 0 when unset
// so that the engine default applies.
func (p *ParsingConfig) GetSampleLimit() int {
	if p == nil || p.SampleLimit <= 0 {
		return 0
	}
	return p.SampleLimit
}

// WorkerConfig defines configuration for queue-based worker execution.
type WorkerConfig struct {
	// Concurrency is the number of concurrent worker goroutines.
	// Parsing is CPU-light and file-bound, so the default is 4.
	Concurrency int `yaml:"concurrency,omitempty"`

	// ShutdownTimeout is the time to wait for graceful shutdown.
	// Format: Go duration string (e.g., "30s", "1m"). Default: 30s.
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`

	// QueuePrefix is the Redis key prefix for this component's queue.
	// Default: "parser" (resulting in "parser:<name>:queue").
	QueuePrefix string `yaml:"queue_prefix,omitempty"`

	// HeartbeatInterval is the interval between health heartbeats.
	// Format: Go duration string (e.g., "10s"). Default: 10s.
	HeartbeatInterval string `yaml:"heartbeat_interval,omitempty"`
}

// GetShutdownTimeout parses the shutdown timeout string and returns a
// duration. Returns the default value if not set or invalid.
func (w *WorkerConfig) GetShutdownTimeout() time.Duration {
	if w == nil || w.ShutdownTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(w.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetHeartbeatInterval parses the heartbeat interval string and returns
// a duration. Returns the default value if not set or invalid.
func (w *WorkerConfig) GetHeartbeatInterval() time.Duration {
	if w == nil || w.HeartbeatInterval == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(w.HeartbeatInterval)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetConcurrency returns the configured concurrency or the default value.
func (w *WorkerConfig) GetConcurrency() int {
	if w == nil || w.Concurrency <= 0 {
		return 4
	}
	return w.Concurrency
}

// GetQueuePrefix returns the queue prefix or the default value.
func (w *WorkerConfig) GetQueuePrefix() string {
	if w == nil || w.QueuePrefix == "" {
		return "parser"
	}
	return w.QueuePrefix
}

// EnabledPlugin reports whether the named plugin is enabled by the
// configuration. Every plugin is enabled when no restriction is set.
func (c *Config) EnabledPlugin(name string) bool {
	if c == nil || c.Parsing == nil || len(c.Parsing.Plugins) == 0 {
		return true
	}
	for _, p := range c.Parsing.Plugins {
		if p == name {
			return true
		}
	}
	return false
}

// Load reads and parses a collection.yaml file from the given path. If
// the path is a directory, it looks for collection.yaml or
// collection.yml in that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var configPath string
	if info.IsDir() {
		yamlPath := filepath.Join(path, "collection.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "collection.yml")
			if _, err := os.Stat(ymlPath); err == nil {
				configPath = ymlPath
			} else {
				return nil, fmt.Errorf("no collection.yaml or collection.yml found in %s", path)
			}
		}
	} else {
		configPath = path
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// LoadFromDir searches for collection.yaml starting from the given
// directory and walking up to parent directories until found or root is
// reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		config, err := Load(absDir)
		if err == nil {
			return config, nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no collection.yaml found in %s or parent directories", dir)
		}
		absDir = parent
	}
}

// LoadFromCurrentDir loads collection.yaml from the current working
// directory.
func LoadFromCurrentDir() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadFromDir(cwd)
}

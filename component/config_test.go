package component

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleConfig = `name: linux-triage
version: 1.2.0
description: Parses command outputs from Linux triage collections
parsing:
  sample_limit: 3
  plugins:
    - ps
    - lsof
aliases:
  process_id:
    - PID
    - SPID
worker:
  concurrency: 8
  shutdown_timeout: 1m
  queue_prefix: triage
  heartbeat_interval: 5s
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "collection.yaml", exampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "linux-triage", cfg.Name)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, 3, cfg.Parsing.GetSampleLimit())
	assert.Equal(t, []string{"ps", "lsof"}, cfg.Parsing.Plugins)
	assert.Equal(t, []string{"PID", "SPID"}, cfg.Aliases["process_id"])
	assert.Equal(t, 8, cfg.Worker.GetConcurrency())
	assert.Equal(t, time.Minute, cfg.Worker.GetShutdownTimeout())
	assert.Equal(t, "triage", cfg.Worker.GetQueuePrefix())
	assert.Equal(t, 5*time.Second, cfg.Worker.GetHeartbeatInterval())
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "collection.yaml", exampleConfig)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "linux-triage", cfg.Name)
}

func TestLoadYmlFallback(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "collection.yml", "name: minimal\nversion: 0.1.0\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "minimal", cfg.Name)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "no collection.yaml")
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "collection.yaml", "name: [unclosed\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadFromDirWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "collection.yaml", "name: parent\nversion: 0.1.0\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := LoadFromDir(nested)
	require.NoError(t, err)
	assert.Equal(t, "parent", cfg.Name)
}

func TestDefaults(t *testing.T) {
	var cfg Config

	t.Run("nil sections", func(t *testing.T) {
		assert.Equal(t, 0, cfg.Parsing.GetSampleLimit())
		assert.Equal(t, 4, cfg.Worker.GetConcurrency())
		assert.Equal(t, 30*time.Second, cfg.Worker.GetShutdownTimeout())
		assert.Equal(t, 10*time.Second, cfg.Worker.GetHeartbeatInterval())
		assert.Equal(t, "parser", cfg.Worker.GetQueuePrefix())
	})

	t.Run("invalid durations fall back", func(t *testing.T) {
		w := &WorkerConfig{ShutdownTimeout: "soon", HeartbeatInterval: "often"}
		assert.Equal(t, 30*time.Second, w.GetShutdownTimeout())
		assert.Equal(t, 10*time.Second, w.GetHeartbeatInterval())
	})

	t.Run("non-positive sample limit selects engine default", func(t *testing.T) {
		p := &ParsingConfig{SampleLimit: -1}
		assert.Equal(t, 0, p.GetSampleLimit())
	})
}

func TestEnabledPlugin(t *testing.T) {
	var nilCfg *Config
	assert.True(t, nilCfg.EnabledPlugin("ps"))

	cfg := &Config{}
	assert.True(t, cfg.EnabledPlugin("ps"))

	cfg.Parsing = &ParsingConfig{Plugins: []string{"ps", "lsof"}}
	assert.True(t, cfg.EnabledPlugin("lsof"))
	assert.False(t, cfg.EnabledPlugin("pam"))
}

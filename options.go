package cmdout

import (
	"log/slog"

	"github.com/zero-day-ai/cmdout/component"
	"github.com/zero-day-ai/cmdout/plugin"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Pipeline.
type Option func(*pipelineConfig)

// pipelineConfig holds configuration for a Pipeline instance.
type pipelineConfig struct {
	configPath     string
	config         *component.Config
	logger         *slog.Logger
	tracer         trace.Tracer
	sampleLimit    int
	plugins        []plugin.Plugin
	defaultPlugins bool
}

// WithConfigPath sets the path of a collection.yaml file to load. The
// configuration supplies alias overlays, the plugin enable list, the
// inference sample limit, and worker settings.
func WithConfigPath(path string) Option {
	return func(c *pipelineConfig) {
		c.configPath = path
	}
}

// WithConfig sets an already-parsed configuration. It takes precedence
// over WithConfigPath.
func WithConfig(cfg *component.Config) Option {
	return func(c *pipelineConfig) {
		c.config = cfg
	}
}

// WithLogger sets a custom logger for the pipeline.
// If not provided, a default logger will be created.
func WithLogger(logger *slog.Logger) Option {
	return func(c *pipelineConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing.
// Each plugin run becomes one span. If not provided, tracing is a
// no-op.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *pipelineConfig) {
		c.tracer = tracer
	}
}

// WithSampleLimit sets the number of data lines used to refine column
// boundaries in the built-in plugins. Values <= 0 select the engine
// default. Takes precedence over the configuration file.
func WithSampleLimit(limit int) Option {
	return func(c *pipelineConfig) {
		c.sampleLimit = limit
	}
}

// WithPlugins registers the given parser plugins with the pipeline.
func WithPlugins(plugins ...plugin.Plugin) Option {
	return func(c *pipelineConfig) {
		c.plugins = append(c.plugins, plugins...)
	}
}

// WithDefaultPlugins registers the built-in parser plugins (ps, lsof,
// pam), configured with the pipeline's alias overlay and sample limit.
func WithDefaultPlugins() Option {
	return func(c *pipelineConfig) {
		c.defaultPlugins = true
	}
}

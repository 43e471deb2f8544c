package cmdout

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/zero-day-ai/cmdout/component"
	"github.com/zero-day-ai/cmdout/plugin"
	"github.com/zero-day-ai/cmdout/plugins/lsof"
	"github.com/zero-day-ai/cmdout/plugins/pam"
	"github.com/zero-day-ai/cmdout/plugins/ps"
	"github.com/zero-day-ai/cmdout/record"
	"github.com/zero-day-ai/cmdout/source"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Pipeline runs parser plugins over triage collections and aggregates
// the extracted records.
type Pipeline interface {
	// Plugins returns the pipeline's plugin registry. Plugins can be
	// registered at any time before Run.
	Plugins() *plugin.Registry

	// Run parses one collection filesystem with every enabled,
	// compatible plugin and returns the extracted records. Incompatible
	// plugins are skipped; a plugin failure is logged and does not stop
	// the other plugins. The records are also retained for Records and
	// Export.
	Run(ctx context.Context, fsys fs.FS) ([]record.Record, error)

	// Records returns the retained records matching the filter. A nil
	// filter returns everything.
	Records(filter *record.Filter) []record.Record

	// Export writes the retained records to w in the given format.
	Export(w io.Writer, format record.Format) error

	// Shutdown releases pipeline resources.
	Shutdown(ctx context.Context) error
}

// NewPipeline creates a parsing pipeline.
//
// Example:
//
//	pipeline, err := cmdout.NewPipeline(
//	    cmdout.WithLogger(logger),
//	    cmdout.WithConfigPath("collection.yaml"),
//	    cmdout.WithDefaultPlugins(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pipeline.Shutdown(context.Background())
//
//	records, err := pipeline.Run(ctx, os.DirFS("/data/collections/host-01"))
func NewPipeline(opts ...Option) (Pipeline, error) {
	cfg := &pipelineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if cfg.tracer == nil {
		cfg.tracer = noop.NewTracerProvider().Tracer("cmdout")
	}

	conf := cfg.config
	if conf == nil && cfg.configPath != "" {
		loaded, err := component.Load(cfg.configPath)
		if err != nil {
			return nil, NewConfigurationError("NewPipeline", err)
		}
		conf = loaded
	}

	sampleLimit := cfg.sampleLimit
	if sampleLimit <= 0 && conf != nil {
		sampleLimit = conf.Parsing.GetSampleLimit()
	}

	p := &defaultPipeline{
		logger:      cfg.logger,
		tracer:      cfg.tracer,
		config:      conf,
		sampleLimit: sampleLimit,
		registry:    plugin.NewRegistry(),
	}

	if cfg.defaultPlugins {
		defaults, err := p.buildDefaultPlugins()
		if err != nil {
			return nil, err
		}
		cfg.plugins = append(defaults, cfg.plugins...)
	}

	for _, pl := range cfg.plugins {
		if err := p.registry.Register(pl); err != nil {
			return nil, NewValidationError("NewPipeline", err)
		}
	}

	return p, nil
}

// defaultPipeline is the standard Pipeline implementation.
type defaultPipeline struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	config      *component.Config
	sampleLimit int
	registry    *plugin.Registry

	mu      sync.RWMutex
	records []record.Record
}

func (p *defaultPipeline) buildDefaultPlugins() ([]plugin.Plugin, error) {
	var aliases map[string][]string
	if p.config != nil {
		aliases = p.config.Aliases
	}

	psPlugin, err := ps.NewWithConfig(aliases, p.sampleLimit)
	if err != nil {
		return nil, NewInternalError("NewPipeline", err)
	}
	lsofPlugin, err := lsof.New()
	if err != nil {
		return nil, NewInternalError("NewPipeline", err)
	}
	pamPlugin, err := pam.New(p.logger)
	if err != nil {
		return nil, NewInternalError("NewPipeline", err)
	}

	return []plugin.Plugin{psPlugin, lsofPlugin, pamPlugin}, nil
}

func (p *defaultPipeline) Plugins() *plugin.Registry {
	return p.registry
}

func (p *defaultPipeline) Run(ctx context.Context, fsys fs.FS) ([]record.Record, error) {
	collection := source.NewCollection(fsys, p.logger)

	var records []record.Record
	for _, pl := range p.registry.All() {
		if !p.config.EnabledPlugin(pl.Name()) {
			p.logger.Debug("plugin disabled by configuration", "plugin", pl.Name())
			continue
		}
		if err := ctx.Err(); err != nil {
			return records, NewInternalError("Pipeline.Run", err)
		}

		recs, err := p.runPlugin(ctx, pl, collection)
		if err != nil {
			// One plugin failing must not lose the output of the rest.
			p.logger.Error("plugin failed",
				"plugin", pl.Name(),
				"error", err,
			)
			continue
		}
		records = append(records, recs...)
	}

	p.mu.Lock()
	p.records = records
	p.mu.Unlock()

	return records, nil
}

// runPlugin runs one plugin over the collection inside its own span.
func (p *defaultPipeline) runPlugin(ctx context.Context, pl plugin.Plugin, collection *source.Collection) ([]record.Record, error) {
	ctx, span := p.tracer.Start(ctx, "cmdout.parse")
	defer span.End()

	span.SetAttributes(
		attribute.String("parser.name", pl.Name()),
		attribute.String("parser.command", pl.Command()),
	)

	if err := pl.CheckCompatible(ctx, collection); err != nil {
		if errors.Is(err, plugin.ErrNotCompatible) {
			span.SetStatus(codes.Ok, "skipped: not compatible")
			p.logger.Debug("plugin not compatible with collection", "plugin", pl.Name())
			return nil, nil
		}
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	recs, err := pl.Parse(ctx, collection)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return recs, err
	}

	span.SetAttributes(attribute.Int("parser.records", len(recs)))
	span.SetStatus(codes.Ok, "")

	p.logger.Info("plugin completed",
		"plugin", pl.Name(),
		"records", len(recs),
	)

	return recs, nil
}

func (p *defaultPipeline) Records(filter *record.Filter) []record.Record {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if filter == nil {
		out := make([]record.Record, len(p.records))
		copy(out, p.records)
		return out
	}
	return filter.Apply(p.records)
}

func (p *defaultPipeline) Export(w io.Writer, format record.Format) error {
	if !format.IsValid() {
		return NewValidationError("Pipeline.Export", ErrInvalidConfig).
			WithContext(map[string]any{"format": string(format)})
	}

	p.mu.RLock()
	records := make([]record.Record, len(p.records))
	copy(records, p.records)
	p.mu.RUnlock()

	if len(records) == 0 {
		return NewExportError("Pipeline.Export", ErrNoRecords)
	}

	if err := record.Export(w, format, records); err != nil {
		return NewExportError("Pipeline.Export", err)
	}
	return nil
}

func (p *defaultPipeline) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.records = nil
	p.mu.Unlock()

	p.logger.Info("pipeline shut down")
	return nil
}

// Package cmdout extracts structured records from captured command
// output in host triage collections.
//
// A triage collection is a directory tree copied off a live host: a
// command_outputs directory holding the stdout of commands like ps and
// lsof, plus configuration files copied from the host filesystem. The
// output files carry no schema, so cmdout infers one: the tabular
// package locates the header line of a table, infers column boundaries
// from the header and a sample of data lines, and parses rows with a
// hybrid of whitespace splitting and positional slicing.
//
// # Packages
//
//   - tabular: the header-driven table inference engine
//   - source: collection filesystem access and output file discovery
//   - record: extracted records, filtering, and export (JSON/JSONL/CSV)
//   - plugin: the parser plugin interface, builder, and registry
//   - plugins/ps, plugins/lsof, plugins/pam: built-in parsers
//   - parse: regex line parsing and JSON decoding helpers
//   - component: collection.yaml configuration
//   - collect: command execution and output capture
//   - queue, worker: Redis-backed distributed parsing
//   - health: dependency and collection layout checks
//
// # Usage
//
// The root package ties the parsers together into a Pipeline:
//
//	pipeline, err := cmdout.NewPipeline(
//	    cmdout.WithLogger(logger),
//	    cmdout.WithDefaultPlugins(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pipeline.Shutdown(context.Background())
//
//	records, err := pipeline.Run(ctx, os.DirFS("/data/collections/host-01"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Filter and export
//	processes := pipeline.Records(&record.Filter{Tool: "ps"})
//	_ = pipeline.Export(os.Stdout, record.FormatJSONL)
//
// Individual plugins can also be used directly, without a pipeline:
//
//	p, _ := ps.New()
//	records, err := p.Parse(ctx, source.NewCollection(fsys, logger))
//
// # Error Handling
//
// The package uses sentinel errors (ErrPluginNotFound, ErrInvalidConfig,
// ErrParseFailed, ErrNoRecords) combined with the structured Error type
// for rich error context. Use errors.Is() to check error categories:
//
//	if errors.Is(err, cmdout.ErrParseFailed) {
//	    // handle parse failure
//	}
//
// # Observability
//
// Pipelines log through log/slog and can emit one OpenTelemetry span
// per plugin run via WithTracer. Both default to no-ops: a JSON logger
// on stdout and a noop tracer.
package cmdout

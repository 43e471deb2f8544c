package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/zero-day-ai/cmdout/component"
	"github.com/zero-day-ai/cmdout/health"
	"github.com/zero-day-ai/cmdout/plugin"
	"github.com/zero-day-ai/cmdout/queue"
	"github.com/zero-day-ai/cmdout/record"
	"github.com/zero-day-ai/cmdout/source"
)

// Options configures the worker behavior.
type Options struct {
	// RedisURL is the Redis connection string (e.g., "redis://localhost:6379")
	RedisURL string

	// Concurrency is the number of worker goroutines to start.
	// If 0, uses value from collection.yaml or default (4).
	Concurrency int

	// ShutdownTimeout is the time to wait for graceful shutdown.
	// If 0, uses value from collection.yaml or default (30s).
	ShutdownTimeout time.Duration

	// QueuePrefix is the Redis key prefix for the parser queue.
	// If empty, uses value from collection.yaml or default ("parser").
	QueuePrefix string

	// HeartbeatInterval is the time between health heartbeats.
	// If 0, uses value from collection.yaml or default (10s).
	HeartbeatInterval time.Duration

	// Logger is the structured logger for worker operations.
	// If nil, a default logger will be created.
	Logger *slog.Logger

	// Config is the parsed collection.yaml configuration.
	// If nil, the worker will attempt to load it from the current directory.
	Config *component.Config

	// ConfigPath is the path to collection.yaml.
	// If empty and Config is nil, searches from current directory.
	ConfigPath string
}

// Run starts the worker loop for the given parser plugin. It connects
// to Redis, registers the parser, starts N worker goroutines based on
// Concurrency, maintains a heartbeat, and handles graceful shutdown on
// SIGTERM/SIGINT.
//
// Configuration priority (highest to lowest):
//  1. Explicit Options values (if non-zero)
//  2. collection.yaml worker section
//  3. Default values
//
// Each worker goroutine:
//  1. Pops a work item from the queue
//  2. Opens the named collection and runs the parser over it
//  3. Publishes the extracted records back to Redis
//
// The function blocks until a shutdown signal is received or an error
// occurs. On shutdown, it waits for all workers to finish processing
// their current items before returning.
//
// Returns an error if Redis connection fails or if graceful shutdown times out.
func Run(p plugin.Plugin, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if opts.ConfigPath != "" {
			cfg, err = component.Load(opts.ConfigPath)
		} else {
			cfg, err = component.LoadFromCurrentDir()
		}
		if err != nil {
			// collection.yaml is optional - just use defaults
			cfg = nil
		}
	}

	opts = applyConfig(opts, cfg)

	if opts.RedisURL == "" {
		opts.RedisURL = "redis://localhost:6379"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	workerID := generateWorkerID()

	logger := opts.Logger.With(
		"parser", p.Name(),
		"version", p.Version(),
		"worker_id", workerID,
	)

	logger.Info("worker starting",
		"concurrency", opts.Concurrency,
		"redis_url", opts.RedisURL,
	)

	redisClient, err := queue.NewRedisClient(queue.RedisOptions{
		URL: opts.RedisURL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	meta := queue.ParserMeta{
		Name:        p.Name(),
		Version:     p.Version(),
		Description: p.Description(),
		Command:     p.Command(),
		WorkerCount: 0, // Updated separately
	}

	logger.Info("registering parser",
		"name", meta.Name,
		"version", meta.Version,
		"command", meta.Command,
	)

	if err := redisClient.RegisterParser(ctx, meta); err != nil {
		logger.Error("failed to register parser", "error", err)
		return fmt.Errorf("failed to register parser: %w", err)
	}

	if err := redisClient.IncrementWorkerCount(ctx, p.Name()); err != nil {
		logger.Error("failed to increment worker count", "error", err)
	}

	// Decrement on exit even when the run context is already cancelled.
	defer func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		if err := redisClient.DecrementWorkerCount(cleanupCtx, p.Name()); err != nil {
			logger.Error("failed to decrement worker count", "error", err)
		}
	}()

	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go runHeartbeat(heartbeatCtx, redisClient, p.Name(), opts.HeartbeatInterval, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	var wg sync.WaitGroup
	queueName := fmt.Sprintf("%s:%s:queue", opts.QueuePrefix, p.Name())

	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func(workerNum int) {
			defer wg.Done()
			workerLoop(ctx, workerNum, p, redisClient, queueName, workerID, logger)
		}(i)
	}

	logger.Info("worker started",
		"workers", opts.Concurrency,
		"queue", queueName,
	)

	sig := <-sigChan
	logger.Info("received signal, initiating graceful shutdown", "signal", sig)

	cancel()

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		logger.Info("worker shutdown complete")
	case <-time.After(opts.ShutdownTimeout):
		logger.Warn("worker shutdown timeout exceeded", "timeout", opts.ShutdownTimeout)
	}

	return nil
}

// runHeartbeat sends periodic heartbeats to maintain parser health
// status. It runs in a goroutine and stops when the context is
// cancelled.
func runHeartbeat(ctx context.Context, client queue.Client, parserName string, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Debug("heartbeat goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Debug("heartbeat goroutine stopped")
			return
		case <-ticker.C:
			if err := client.Heartbeat(ctx, parserName); err != nil {
				// Heartbeat failures are transient, keep the noise down.
				logger.Debug("heartbeat failed", "error", err)
			}
		}
	}
}

// workerLoop is the main loop for a single worker goroutine. It
// continuously pops work items from the queue, parses the named
// collections, and publishes results until the context is cancelled.
func workerLoop(ctx context.Context, workerNum int, p plugin.Plugin, client queue.Client, queueName, workerID string, logger *slog.Logger) {
	logger = logger.With("worker_num", workerNum)
	logger.Debug("worker loop started", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("worker loop stopped", "reason", "context_cancelled")
			return
		default:
		}

		item, err := client.Pop(ctx, queueName)
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("worker loop stopped", "reason", "context_error")
				return
			}
			logger.Error("failed to pop work item", "error", err)
			continue
		}

		if item == nil {
			continue
		}

		logger.Info("received work item",
			"job_id", item.JobID,
			"index", item.Index,
			"total", item.Total,
			"collection", item.CollectionPath,
		)

		result := processWorkItem(ctx, p, *item, workerID, logger)

		resultChannel := fmt.Sprintf("results:%s", item.JobID)
		if err := client.Publish(ctx, resultChannel, result); err != nil {
			logger.Error("failed to publish result", "error", err)
		}
	}
}

// processWorkItem parses one collection with the worker's plugin and
// returns a result. It handles all errors at each step and ensures a
// result is always returned.
func processWorkItem(ctx context.Context, p plugin.Plugin, item queue.WorkItem, workerID string, logger *slog.Logger) queue.Result {
	result := queue.Result{
		JobID:     item.JobID,
		Index:     item.Index,
		WorkerID:  workerID,
		StartedAt: time.Now().UnixMilli(),
	}

	// A degraded collection (empty outputs directory) still parses; it
	// just yields zero records.
	if status := health.CollectionCheck(item.CollectionPath); status.IsUnhealthy() {
		result.Error = status.Message
		result.CompletedAt = time.Now().UnixMilli()
		logger.Error("collection check failed", "path", item.CollectionPath, "message", status.Message)
		return result
	}

	collection := source.NewCollection(os.DirFS(item.CollectionPath), logger)

	if err := p.CheckCompatible(ctx, collection); err != nil {
		result.Error = fmt.Sprintf("parser not compatible with collection: %v", err)
		result.CompletedAt = time.Now().UnixMilli()
		logger.Error("compatibility check failed", "error", err)
		return result
	}

	records, err := p.Parse(ctx, collection)
	if err != nil {
		result.Error = err.Error()
		result.CompletedAt = time.Now().UnixMilli()
		logger.Error("parsing failed", "error", err)
		return result
	}
	if records == nil {
		records = []record.Record{}
	}

	recordsJSON, err := json.Marshal(records)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal records: %v", err)
		result.CompletedAt = time.Now().UnixMilli()
		logger.Error("failed to marshal records", "error", err)
		return result
	}

	result.RecordsJSON = string(recordsJSON)
	result.RecordCount = len(records)
	result.CompletedAt = time.Now().UnixMilli()

	logger.Info("work item completed",
		"job_id", item.JobID,
		"index", item.Index,
		"records", result.RecordCount,
		"duration_ms", result.CompletedAt-result.StartedAt,
	)

	return result
}

// generateWorkerID creates a unique identifier for this worker instance.
// Uses hostname + PID + UUID for uniqueness.
func generateWorkerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	pid := os.Getpid()

	// Add UUID suffix for additional uniqueness
	id := uuid.New().String()[:8]

	return fmt.Sprintf("%s-%d-%s", hostname, pid, id)
}

// applyConfig applies collection.yaml settings to Options. Explicit
// Options values take priority over collection.yaml values.
func applyConfig(opts Options, cfg *component.Config) Options {
	var wc *component.WorkerConfig
	if cfg != nil {
		wc = cfg.Worker
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = wc.GetConcurrency()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = wc.GetShutdownTimeout()
	}
	if opts.QueuePrefix == "" {
		opts.QueuePrefix = wc.GetQueuePrefix()
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = wc.GetHeartbeatInterval()
	}

	return opts
}

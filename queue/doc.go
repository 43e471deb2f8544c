// Package queue provides Redis-based work queue primitives for distributed parsing.
//
// The queue package enables horizontal scaling of collection parsing by
// decoupling work submission from execution. Submitters push work items
// naming a collection and parser to Redis queues, workers consume and
// parse them, and extracted records flow back through Redis pub/sub.
//
// # Core Components
//
// Client: Interface for interacting with Redis queues. Provides methods for:
//   - Push/Pop operations for work queues
//   - Publish/Subscribe for result delivery
//   - Parser registration and discovery
//   - Health monitoring and worker tracking
//
// WorkItem: A unit of work naming a parser, a collection path, and trace context.
//
// Result: The outcome of executing a WorkItem, carrying records or an error.
//
// ParserMeta: Metadata about a registered parser for discovery and routing.
//
// # Redis Key Schema
//
// The queue system uses a structured key naming convention:
//   - parser:<name>:queue - List for work items (LPUSH/BRPOP)
//   - parser:<name>:meta - Hash for parser metadata
//   - parser:<name>:health - String with 30s TTL for heartbeat
//   - parser:<name>:workers - Integer counter for active workers
//   - parsers:available - Set of all registered parser names
//   - results:<jobID> - Pub/Sub channel for job results
//
// # Usage
//
// Creating a queue client:
//
//	client := queue.NewRedisClient(queue.RedisOptions{
//		URL: "redis://localhost:6379",
//		ConnectTimeout: 5 * time.Second,
//	})
//
// Pushing work to a queue:
//
//	err := client.Push(ctx, "parser:ps:queue", queue.WorkItem{
//		JobID: "job-123",
//		Index: 0,
//		Total: 1,
//		Parser: "ps",
//		CollectionPath: "/data/collections/host-01",
//		SubmittedAt: time.Now().UnixMilli(),
//	})
//
// Popping work from a queue (blocking):
//
//	item, err := client.Pop(ctx, "parser:ps:queue")
//	if err != nil {
//		log.Fatal(err)
//	}
//	// Parse the collection...
//
// Publishing results:
//
//	err := client.Publish(ctx, "results:job-123", queue.Result{
//		JobID: "job-123",
//		Index: 0,
//		RecordsJSON: `[{"tool":"ps",...}]`,
//		RecordCount: 42,
//		CompletedAt: time.Now().UnixMilli(),
//	})
//
// Subscribing to results:
//
//	results, err := client.Subscribe(ctx, "results:job-123")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for result := range results {
//		fmt.Printf("Received result %d with %d records\n", result.Index, result.RecordCount)
//	}
//
// Registering a parser:
//
//	err := client.RegisterParser(ctx, queue.ParserMeta{
//		Name: "ps",
//		Version: "1.0.0",
//		Description: "Extracts process records from ps output",
//		Command: "ps",
//	})
//
// Sending heartbeats:
//
//	ticker := time.NewTicker(10 * time.Second)
//	for range ticker.C {
//		if err := client.Heartbeat(ctx, "ps"); err != nil {
//			log.Printf("Heartbeat failed: %v", err)
//		}
//	}
//
// # Error Handling
//
// All methods return errors for Redis connection failures, serialization
// errors, or context cancellation. Clients should implement retry logic
// with exponential backoff for transient failures.
//
// # Thread Safety
//
// RedisClient is safe for concurrent use by multiple goroutines.
package queue

// Package worker provides the main loop for running parser plugins as
// Redis queue workers.
//
// # Overview
//
// The worker package enables parsers to be run as background workers
// that consume work items from Redis queues and publish extracted
// records back. This allows collection parsing to scale horizontally
// across multiple worker processes or containers.
//
// # Architecture
//
// Workers operate in a producer-consumer pattern:
//   - Submitter (producer): Pushes WorkItems naming collections to Redis queues
//   - Parser workers (consumers): Pop WorkItems, parse collections, publish Results
//   - Submitter (collector): Subscribes to results and aggregates records
//
// # Usage
//
// To create a worker for a parser:
//
//	func main() {
//	    p, err := ps.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    opts := worker.Options{
//	        RedisURL:        "redis://localhost:6379",
//	        Concurrency:     4,  // Number of worker goroutines
//	        ShutdownTimeout: 30 * time.Second,
//	    }
//
//	    // Run the worker (blocks until shutdown)
//	    if err := worker.Run(p, opts); err != nil {
//	        log.Fatalf("Worker failed: %v", err)
//	    }
//	}
//
// # Graceful Shutdown
//
// Workers handle SIGTERM and SIGINT signals gracefully:
//  1. Signal received → context cancelled
//  2. Workers finish processing current items
//  3. No new items are popped from queue
//  4. Workers exit once current work completes
//  5. Run() returns (or times out after ShutdownTimeout)
//
// # Redis Queue Schema
//
// Workers interact with Redis using the following key patterns:
//   - parser:<name>:queue - List containing WorkItems (LPUSH/BRPOP)
//   - parser:<name>:meta - Hash containing parser metadata
//   - parser:<name>:health - Key with TTL for health checks
//   - parser:<name>:workers - Counter for active worker count
//   - results:<jobID> - Pub/sub channel for result delivery
//
// # Error Handling
//
// The worker loop is designed to be resilient:
//   - Redis connection errors: Fatal, causes Run() to return
//   - Pop errors: Logged and loop continues
//   - Parse errors: Captured and published as error Results
//   - Context cancellation: Graceful shutdown initiated
package worker

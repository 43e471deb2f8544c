// Package health provides reusable health check functions for parser
// components and collectors.
//
// This package offers standardized ways to verify dependencies,
// connectivity, and collection layout. Collectors use it to confirm
// the commands they capture are installed, and workers use it to probe
// the queue backend and validate collection directories before parsing.
//
// # Health Check Functions
//
// The package provides five main health check functions:
//
//   - BinaryCheck: Verify a binary exists in PATH
//   - FileCheck: Verify a file or directory exists
//   - CollectionCheck: Verify a directory has the triage collection layout
//   - NetworkCheck: Verify TCP connectivity to a host:port
//   - Combine: Aggregate multiple health checks into a single status
//
// # Usage Example
//
//	import (
//	    "context"
//	    "time"
//	    "github.com/zero-day-ai/cmdout/health"
//	)
//
//	// Check individual dependencies
//	psStatus := health.BinaryCheck("ps")
//	if psStatus.IsUnhealthy() {
//	    log.Fatal("ps is required but not installed")
//	}
//
//	// Check queue backend connectivity
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//	redisStatus := health.NetworkCheck(ctx, "localhost", 6379)
//
//	// Combine multiple checks
//	overall := health.Combine(
//	    health.BinaryCheck("ps"),
//	    health.BinaryCheck("lsof"),
//	    health.CollectionCheck("/data/collections/host-01"),
//	    redisStatus,
//	)
//
//	if overall.IsUnhealthy() {
//	    log.Printf("Health check failed: %s", overall.Message)
//	    log.Printf("Details: %+v", overall.Details)
//	}
//
// # Health Status Priority
//
// When combining health checks with Combine(), the result follows this priority:
//
//   - Unhealthy: If any check is unhealthy, the combined result is unhealthy
//   - Degraded: If any check is degraded (and none unhealthy), the result is degraded
//   - Healthy: If all checks are healthy, the result is healthy
//
// # Context and Timeouts
//
// NetworkCheck accepts a context for timeout and cancellation control.
// If nil is passed, a default 5-second timeout is used.
package health

package queue

import (
	"fmt"
	"time"
)

// WorkItem represents a single unit of work submitted to a parser's
// queue: one collection directory to run one parser over.
type WorkItem struct {
	// JobID is a UUID that correlates all work items in a batch
	JobID string `json:"job_id"`

	// Index is the position of this item in the batch (0-based)
	Index int `json:"index"`

	// Total is the total number of items in the batch
	Total int `json:"total"`

	// Parser is the name of the parser plugin to run
	Parser string `json:"parser"`

	// CollectionPath is the filesystem path of the triage collection to
	// parse
	CollectionPath string `json:"collection_path"`

	// TraceID is the distributed tracing trace ID for observability
	TraceID string `json:"trace_id"`

	// SpanID is the distributed tracing span ID for observability
	SpanID string `json:"span_id"`

	// SubmittedAt is the Unix timestamp in milliseconds when work was submitted
	SubmittedAt int64 `json:"submitted_at"`
}

// Result represents the outcome of executing a WorkItem.
// It is published to a job-specific pub/sub channel for the submitter to collect.
type Result struct {
	// JobID correlates this result with the original work item
	JobID string `json:"job_id"`

	// Index is the position of this result in the batch
	Index int `json:"index"`

	// RecordsJSON is the extracted record set serialized as a JSON array.
	// Empty if Error is set.
	RecordsJSON string `json:"records_json,omitempty"`

	// RecordCount is the number of records in RecordsJSON
	RecordCount int `json:"record_count"`

	// Error is the error message if parsing failed
	// Empty if parsing succeeded
	Error string `json:"error,omitempty"`

	// WorkerID is the unique identifier of the worker that processed this item
	WorkerID string `json:"worker_id"`

	// StartedAt is the Unix timestamp in milliseconds when parsing started
	StartedAt int64 `json:"started_at"`

	// CompletedAt is the Unix timestamp in milliseconds when parsing completed
	CompletedAt int64 `json:"completed_at"`
}

// ParserMeta contains metadata about a registered parser plugin.
// It is stored as a Redis hash and used for parser discovery.
type ParserMeta struct {
	// Name is the unique parser identifier
	Name string `json:"name"`

	// Version is the semantic version of the parser implementation
	Version string `json:"version"`

	// Description is a human-readable description of the parser's purpose
	Description string `json:"description"`

	// Command is the command whose output files the parser consumes
	Command string `json:"command"`

	// WorkerCount is the number of active workers for this parser
	// Updated by IncrementWorkerCount/DecrementWorkerCount
	WorkerCount int `json:"worker_count"`
}

// IsValid checks if the WorkItem has all required fields populated correctly.
// Returns an error describing any validation failures.
func (w *WorkItem) IsValid() error {
	if w.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if w.Index < 0 {
		return fmt.Errorf("index must be non-negative, got %d", w.Index)
	}
	if w.Total <= 0 {
		return fmt.Errorf("total must be positive, got %d", w.Total)
	}
	if w.Index >= w.Total {
		return fmt.Errorf("index %d is out of bounds for total %d", w.Index, w.Total)
	}
	if w.Parser == "" {
		return fmt.Errorf("parser name is required")
	}
	if w.CollectionPath == "" {
		return fmt.Errorf("collection_path is required")
	}
	if w.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", w.SubmittedAt)
	}
	return nil
}

// Age returns the duration since this work item was submitted.
// Useful for detecting stale work items and computing queue wait time.
func (w *WorkItem) Age() time.Duration {
	if w.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-w.SubmittedAt) * time.Millisecond
}

// HasError returns true if the result represents a failed parse.
func (r *Result) HasError() bool {
	return r.Error != ""
}

// Duration returns the wall-clock time the worker spent processing this item.
func (r *Result) Duration() time.Duration {
	if r.StartedAt <= 0 || r.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(r.CompletedAt-r.StartedAt) * time.Millisecond
}

// IsValid checks if the Result has all required fields populated correctly.
func (r *Result) IsValid() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if r.Index < 0 {
		return fmt.Errorf("index must be non-negative, got %d", r.Index)
	}
	if r.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if r.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", r.StartedAt)
	}
	if r.CompletedAt <= 0 {
		return fmt.Errorf("completed_at must be positive, got %d", r.CompletedAt)
	}
	if r.CompletedAt < r.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", r.CompletedAt, r.StartedAt)
	}
	if !r.HasError() && r.RecordsJSON == "" {
		return fmt.Errorf("records_json is required when error is empty")
	}
	return nil
}

// IsValid checks if the ParserMeta has all required fields populated correctly.
func (m *ParserMeta) IsValid() error {
	if m.Name == "" {
		return fmt.Errorf("parser name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if m.Command == "" {
		return fmt.Errorf("command is required")
	}
	if m.WorkerCount < 0 {
		return fmt.Errorf("worker_count must be non-negative, got %d", m.WorkerCount)
	}
	return nil
}

// ParsesCommand checks if this parser consumes output of the given command.
func (m *ParserMeta) ParsesCommand(command string) bool {
	return m.Command == command
}

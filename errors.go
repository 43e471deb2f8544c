package cmdout

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common pipeline error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrPluginNotFound indicates the requested parser plugin was not found in the registry.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrInvalidConfig indicates the provided configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrParseFailed indicates that parsing a collection failed.
	// The underlying error should be wrapped for additional context.
	ErrParseFailed = errors.New("parse failed")

	// ErrNoRecords indicates an export was requested before any records
	// were extracted.
	ErrNoRecords = errors.New("no records extracted")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where a resource was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindParse represents errors that occur during collection parsing.
	KindParse = "parse"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindExport represents errors that occur while exporting records.
	KindExport = "export"

	// KindInternal represents internal pipeline errors.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category
// of error.
//
// Error implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &Error{
//		Op:   "Pipeline.Run",
//		Kind: KindParse,
//		Err:  ErrParseFailed,
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Pipeline.Run", "Pipeline.Export").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include plugin names, file paths, or other debugging information.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cmdout: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("cmdout: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("cmdout: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison based on
// the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	// Match another Error by Kind (and Op when the target names one).
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a new Error with the provided context added.
// This is useful for adding debugging information to errors.
//
// Example:
//
//	err := &Error{
//		Op:   "Pipeline.Run",
//		Kind: KindParse,
//		Err:  ErrParseFailed,
//	}
//	err = err.WithContext(map[string]any{
//		"plugin": "ps",
//		"file":   "command_outputs/ps_aux.txt",
//	})
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewNotFoundError creates a new Error with KindNotFound.
func NewNotFoundError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: err}
}

// NewValidationError creates a new Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewParseError creates a new Error with KindParse.
func NewParseError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindParse, Err: err}
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewExportError creates a new Error with KindExport.
func NewExportError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindExport, Err: err}
}

// NewInternalError creates a new Error with KindInternal.
func NewInternalError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindInternal, Err: err}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "output file", "redis connection"). If logger is nil, slog.Default()
// is used.
//
// Example usage:
//
//	defer cmdout.CloseWithLog(file, logger, "export file")
//	defer cmdout.CloseWithLog(client, logger, "queue client")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}

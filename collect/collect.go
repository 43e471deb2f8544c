// Package collect provides command execution and capture utilities for
// building triage collections. It wraps os/exec with a context-aware
// API and writes captured output into the command_outputs layout that
// the source package reads back.
package collect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/zero-day-ai/cmdout/source"
)

// Config holds the configuration for command execution.
type Config struct {
	// Command is the name or path of the command to execute (required)
	Command string

	// Args are the command-line arguments (optional)
	Args []string

	// WorkDir is the working directory for the command (optional)
	WorkDir string

	// Env specifies the environment variables in "KEY=value" format (optional)
	// If nil, the command inherits the parent process environment
	Env []string

	// Timeout specifies the maximum execution duration (optional)
	// If zero, no timeout is enforced (uses parent context)
	Timeout time.Duration

	// StdinData is the data to send to the command's stdin (optional)
	StdinData []byte
}

// Result holds the result of command execution.
type Result struct {
	// Stdout contains the captured stdout
	Stdout []byte

	// Stderr contains the captured stderr
	Stderr []byte

	// ExitCode is the process exit code
	// 0 indicates success, non-zero indicates an error
	ExitCode int

	// Duration is the actual execution time
	Duration time.Duration
}

// Run executes a command with the given configuration.
// It returns a Result containing stdout, stderr, exit code, and duration.
//
// The function respects context cancellation and the configured timeout.
// If the command times out or the context is cancelled, the process is killed.
//
// A non-zero exit code is not treated as an error - the Result is returned
// with the exit code populated. This allows the caller to decide how to
// handle non-zero exits. Only actual execution failures (binary not found,
// permission denied, etc.) return an error.
//
// Example:
//
//	ctx := context.Background()
//	cfg := Config{
//		Command: "ps",
//		Args:    []string{"aux"},
//		Timeout: 5 * time.Second,
//	}
//	result, err := Run(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if result.ExitCode != 0 {
//		return fmt.Errorf("command failed: %s", result.Stderr)
//	}
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Command == "" {
		return nil, errors.New("command is required")
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)

	if cfg.WorkDir != "" {
		cmd.Dir = cfg.WorkDir
	}

	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if len(cfg.StdinData) > 0 {
		cmd.Stdin = bytes.NewReader(cfg.StdinData)
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: 0,
		Duration: duration,
	}

	if err != nil {
		// Context errors first (timeout/cancellation)
		if ctx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("command timed out after %v", cfg.Timeout)
		}

		if ctx.Err() == context.Canceled {
			return result, fmt.Errorf("command cancelled")
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Command ran but exited with non-zero code
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}

		return result, fmt.Errorf("command execution failed: %w", err)
	}

	return result, nil
}

// OutputFileName builds the command_outputs filename for a command
// invocation: the command name followed by its arguments joined with
// underscores, with path separators flattened. The result is the
// filename source.ParseArguments recovers the arguments from.
//
// Example: OutputFileName("ps", []string{"aux"}) returns "ps_aux.txt".
func OutputFileName(command string, args []string) string {
	parts := []string{command}
	for _, arg := range args {
		arg = strings.ReplaceAll(arg, string(filepath.Separator), "-")
		if arg != "" {
			parts = append(parts, arg)
		}
	}
	return strings.Join(parts, "_") + ".txt"
}

// Capture runs a command and writes its stdout into the collection's
// command_outputs directory under dir, creating the directory if
// needed. It returns the path of the written file and the execution
// result. The file is written even when the command exits non-zero so
// that partial output is preserved; execution failures write nothing.
func Capture(ctx context.Context, dir string, cfg Config) (string, *Result, error) {
	result, err := Run(ctx, cfg)
	if err != nil {
		return "", result, err
	}

	outputsDir := filepath.Join(dir, source.OutputsDir)
	if err := os.MkdirAll(outputsDir, 0o755); err != nil {
		return "", result, fmt.Errorf("failed to create outputs directory: %w", err)
	}

	outPath := filepath.Join(outputsDir, OutputFileName(cfg.Command, cfg.Args))
	if err := os.WriteFile(outPath, result.Stdout, 0o644); err != nil {
		return "", result, fmt.Errorf("failed to write output file: %w", err)
	}

	return outPath, result, nil
}

// BinaryExists checks if a binary exists in the system PATH.
// It returns true if the binary is found and executable, false otherwise.
func BinaryExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// BinaryPath returns the full path to a binary in the system PATH.
// It returns an error if the binary is not found.
func BinaryPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary %q not found in PATH: %w", name, err)
	}
	return path, nil
}

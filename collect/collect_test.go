package collect

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/cmdout/source"
)

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("captures stdout", func(t *testing.T) {
		result, err := Run(ctx, Config{Command: "echo", Args: []string{"hello", "world"}})
		require.NoError(t, err)
		assert.Equal(t, "hello world\n", string(result.Stdout))
		assert.Equal(t, 0, result.ExitCode)
		assert.Greater(t, result.Duration, time.Duration(0))
	})

	t.Run("captures stderr", func(t *testing.T) {
		result, err := Run(ctx, Config{Command: "sh", Args: []string{"-c", "echo oops >&2"}})
		require.NoError(t, err)
		assert.Equal(t, "oops\n", string(result.Stderr))
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		result, err := Run(ctx, Config{Command: "sh", Args: []string{"-c", "exit 3"}})
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitCode)
	})

	t.Run("stdin data", func(t *testing.T) {
		result, err := Run(ctx, Config{Command: "cat", StdinData: []byte("piped input")})
		require.NoError(t, err)
		assert.Equal(t, "piped input", string(result.Stdout))
	})

	t.Run("working directory", func(t *testing.T) {
		dir := t.TempDir()
		result, err := Run(ctx, Config{Command: "pwd", WorkDir: dir})
		require.NoError(t, err)
		assert.Contains(t, string(result.Stdout), dir)
	})

	t.Run("timeout kills the command", func(t *testing.T) {
		_, err := Run(ctx, Config{
			Command: "sleep",
			Args:    []string{"10"},
			Timeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := Run(ctx, Config{Command: "definitely-not-a-real-binary"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "command execution failed")
	})

	t.Run("empty command", func(t *testing.T) {
		_, err := Run(ctx, Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "command is required")
	})
}

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
		want    string
	}{
		{"no arguments", "ps", nil, "ps.txt"},
		{"single argument", "ps", []string{"aux"}, "ps_aux.txt"},
		{"flag argument", "lsof", []string{"-i"}, "lsof_-i.txt"},
		{"flag with value", "ps", []string{"-e", "-f"}, "ps_-e_-f.txt"},
		{"path separators flattened", "ls", []string{"/etc/pam.d"}, "ls_-etc-pam.d.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFileName(tt.command, tt.args))
		})
	}
}

func TestCapture(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	path, result, err := Capture(ctx, dir, Config{Command: "echo", Args: []string{"aux"}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "aux\n", string(data))

	// The written file is discoverable through the source package and
	// the arguments round-trip from the filename.
	c := source.NewCollection(os.DirFS(dir), nil)
	require.True(t, c.Compatible())

	files, err := c.Outputs("echo")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "echo_aux.txt", files[0].Name)
	assert.Equal(t, []string{"aux"}, files[0].Arguments)
	assert.Equal(t, []string{"aux"}, c.ReadLines(files[0].Path))
}

func TestCaptureFailedCommand(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Capture(context.Background(), dir, Config{Command: "definitely-not-a-real-binary"})
	require.Error(t, err)

	// Nothing is written for execution failures.
	_, statErr := os.Stat(dir + "/" + source.OutputsDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBinaryExists(t *testing.T) {
	assert.True(t, BinaryExists("echo"))
	assert.False(t, BinaryExists("definitely-not-a-real-binary"))
}

func TestBinaryPath(t *testing.T) {
	path, err := BinaryPath("echo")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = BinaryPath("definitely-not-a-real-binary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in PATH")
}

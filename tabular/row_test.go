package tabular

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	t.Run("hybrid parsing of aligned ps output", func(t *testing.T) {
		table := New("PID TTY          TIME CMD", nil)
		row := table.ParseLine(" 1234 pts/0    00:00:01 bash")

		require.Equal(t, 4, row.Len())
		assert.Equal(t, "1234", row.Value("PID"))
		assert.Equal(t, "pts/0", row.Value("TTY"))
		assert.Equal(t, "00:00:01", row.Value("TIME"))
		assert.Equal(t, "bash", row.Value("CMD"))
	})

	t.Run("last column absorbs trailing fields", func(t *testing.T) {
		table := New("USER PID COMMAND", nil)
		row := table.ParseLine("root 1 /sbin/init --switched-root")

		assert.Equal(t, "root", row.Value("USER"))
		assert.Equal(t, "1", row.Value("PID"))
		assert.Equal(t, "/sbin/init --switched-root", row.Value("COMMAND"))
	})

	t.Run("missing trailing fields are empty", func(t *testing.T) {
		table := New("PID TTY TIME CMD", nil)
		row := table.ParseLine("77 pts/1")

		require.Equal(t, 4, row.Len())
		assert.Equal(t, "77", row.Value("PID"))
		assert.Equal(t, "pts/1", row.Value("TTY"))
		assert.Equal(t, "", row.Value("TIME"))
		assert.Equal(t, "", row.Value("CMD"))
	})

	t.Run("positional fallback on duplicate header names", func(t *testing.T) {
		// A repeated column name collapses in the field-based result,
		// forcing the positional strategy.
		table := New("PID  TIME  TIME", nil)
		row := table.ParseLine("1    00:01 00:02")

		require.Equal(t, 2, row.Len())
		assert.Equal(t, "1", row.Value("PID"))
		assert.Equal(t, "00:02", row.Value("TIME"))
	})

	t.Run("positional out of range yields empty values", func(t *testing.T) {
		table := New("PID  TIME  TIME CMD", nil)
		row := table.ParseLine("9")

		assert.Equal(t, "9", row.Value("PID"))
		assert.Equal(t, "", row.Value("CMD"))
	})

	t.Run("inverted sample boundaries yield empty values", func(t *testing.T) {
		// Irregular samples can refine a column to start after it ends:
		// the majority first-field offset here is 10 while the majority
		// second-field offset is 2. Slicing such a column must produce
		// an empty value, not abort the parse.
		samples := []string{
			"          x",
			"          x",
			"          x",
			"a b",
			"a b",
		}
		table := New("TIME TIME", samples)

		cols := table.Columns()
		require.Equal(t, 2, len(cols))
		require.Greater(t, cols[0].Start, cols[0].End)

		row := table.ParseLine("cccccccccccc")
		require.Equal(t, 1, row.Len())
		assert.Equal(t, "cccccccccc", row.Value("TIME"))
	})

	t.Run("zero columns parse to nothing", func(t *testing.T) {
		table := New("", nil)
		assert.Equal(t, 0, table.ParseLine("anything at all").Len())
	})

	t.Run("column order matches header order", func(t *testing.T) {
		table := New("USER PID COMMAND", nil)
		row := table.ParseLine("root 1 /sbin/init")
		assert.Equal(t, []string{"USER", "PID", "COMMAND"}, row.Names())
	})
}

func TestRow(t *testing.T) {
	t.Run("set get and replace", func(t *testing.T) {
		row := NewRow()
		row.Set("a", "1")
		row.Set("b", "2")
		row.Set("a", "3")

		require.Equal(t, 2, row.Len())
		assert.Equal(t, "3", row.Value("a"))

		_, ok := row.Get("missing")
		assert.False(t, ok)
	})

	t.Run("marshals in insertion order", func(t *testing.T) {
		row := NewRow()
		row.Set("USER", "root")
		row.Set("PID", "1")
		row.Set("COMMAND", "/sbin/init --switched-root")

		data, err := json.Marshal(row)
		require.NoError(t, err)
		assert.Equal(t, `{"USER":"root","PID":"1","COMMAND":"/sbin/init --switched-root"}`, string(data))
	})

	t.Run("unmarshal preserves document order", func(t *testing.T) {
		var row Row
		err := json.Unmarshal([]byte(`{"pid":"9","tty":"?","cmd":"kworker/0:1"}`), &row)
		require.NoError(t, err)

		assert.Equal(t, []string{"pid", "tty", "cmd"}, row.Names())
		assert.Equal(t, "kworker/0:1", row.Value("cmd"))
	})

	t.Run("unmarshal rejects non-objects", func(t *testing.T) {
		var row Row
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &row))
	})
}

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	PID  int    `json:"pid"`
	User string `json:"user"`
}

func TestParseJSON(t *testing.T) {
	t.Run("valid object", func(t *testing.T) {
		entry, err := ParseJSON[testEntry]([]byte(`{"pid": 1, "user": "root"}`))
		require.NoError(t, err)
		assert.Equal(t, 1, entry.PID)
		assert.Equal(t, "root", entry.User)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseJSON[testEntry]([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestParseJSONArray(t *testing.T) {
	entries, err := ParseJSONArray[testEntry]([]byte(`[{"pid":1},{"pid":2}]`))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[1].PID)
}

func TestParseJSONLines(t *testing.T) {
	t.Run("skips empty lines", func(t *testing.T) {
		data := []byte("{\"pid\":1,\"user\":\"root\"}\n\n{\"pid\":2,\"user\":\"bob\"}\n")

		entries, err := ParseJSONLines[testEntry](data)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "bob", entries[1].User)
	})

	t.Run("reports failing line number", func(t *testing.T) {
		_, err := ParseJSONLines[testEntry]([]byte("{\"pid\":1}\nnot json\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}

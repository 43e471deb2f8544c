package record

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/cmdout/parse"
	"github.com/zero-day-ai/cmdout/tabular"
)

func exportFixtures(t *testing.T) []Record {
	t.Helper()

	first := tabular.NewRow()
	first.Set("pid", "1")
	first.Set("command", "/sbin/init")

	second := tabular.NewRow()
	second.Set("pid", "2")
	second.Set("user", "root")

	return []Record{
		New("ps", "command_outputs/ps_aux.txt", first),
		New("ps", "command_outputs/ps_aux.txt", second),
	}
}

func TestFormat(t *testing.T) {
	assert.True(t, FormatJSON.IsValid())
	assert.True(t, FormatJSONL.IsValid())
	assert.True(t, FormatCSV.IsValid())
	assert.False(t, Format("xml").IsValid())

	assert.Equal(t, ".jsonl", FormatJSONL.FileExtension())
	assert.Equal(t, "text/csv", FormatCSV.MimeType())
	assert.Equal(t, "json", FormatJSON.String())
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatJSON, exportFixtures(t)))

	decoded, err := parse.ParseJSONArray[Record](buf.Bytes())
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	// Field order must survive the round trip.
	assert.Equal(t, []string{"pid", "command"}, decoded[0].Fields.Names())
	assert.Equal(t, "/sbin/init", decoded[0].Field("command"))
}

func TestExportJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatJSONL, exportFixtures(t)))

	decoded, err := parse.ParseJSONLines[Record](buf.Bytes())
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "root", decoded[1].Field("user"))
}

func TestExportCSV(t *testing.T) {
	records := exportFixtures(t)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatCSV, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	// Union of field names in first-seen order after the fixed
	// provenance columns.
	assert.Equal(t, "id,tool,source_file,pid,command,user", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",1,/sbin/init,"))
	assert.True(t, strings.HasSuffix(lines[2], ",2,,root"))
}

func TestExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Export(&buf, Format("xml"), exportFixtures(t)))
}

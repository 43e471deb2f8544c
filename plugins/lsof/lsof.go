// Package lsof extracts open-file records from collected lsof command
// output.
//
// lsof output is a fixed-format variant: the first eight columns never
// contain spaces, and everything after the eighth field belongs to
// NAME. The plugin therefore locates the header with the engine's
// detector but splits data lines with its own fixed-position rule
// instead of tabular inference, discarding rows that fail the
// minimum-field-count sanity check. For network connections the
// protocol from the NODE column is folded into NAME so the record
// keeps the full endpoint description.
package lsof

import (
	"context"
	"strings"

	"github.com/zero-day-ai/cmdout/plugin"
	"github.com/zero-day-ai/cmdout/record"
	"github.com/zero-day-ai/cmdout/source"
	"github.com/zero-day-ai/cmdout/tabular"
)

// minFields is the fewest whitespace-separated fields a valid lsof
// data line can have (COMMAND through NODE).
const minFields = 8

// protocols are NODE values that describe a network or socket
// connection rather than an inode number.
var protocols = map[string]struct{}{
	"TCP":  {},
	"UDP":  {},
	"UNIX": {},
	"IPV4": {},
	"IPV6": {},
}

// New builds the lsof extraction plugin.
func New() (plugin.Plugin, error) {
	cfg := plugin.NewConfig()
	cfg.SetName("lsof")
	cfg.SetVersion("1.0.0")
	cfg.SetDescription("Extracts open file records from collected lsof output")
	cfg.SetCommand("lsof")
	cfg.SetParseFileFunc(parseFile)

	return plugin.New(cfg)
}

func parseFile(_ context.Context, c *source.Collection, file source.OutputFile) ([]record.Record, error) {
	lines := c.ReadLines(file.Path)

	headerIdx, ok := tabular.DetectHeader(lines)
	if !ok {
		return nil, nil
	}

	var records []record.Record
	for _, line := range lines[headerIdx+1:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := parseLine(line)
		if fields == nil {
			continue
		}

		rec := record.New("lsof", file.Path, fields)
		rec.Arguments = file.Arguments
		rec.Raw = line
		records = append(records, rec)
	}

	return records, nil
}

// parseLine splits one lsof data line at its fixed positions:
// COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME..., with NAME
// absorbing every remaining field. Lines with fewer than minFields
// fields are discarded.
func parseLine(line string) *tabular.Row {
	fields := strings.Fields(line)
	if len(fields) < minFields {
		return nil
	}

	row := tabular.NewRow()
	row.Set("command", fields[0])
	row.Set("pid", fields[1])
	row.Set("user", fields[2])
	row.Set("fd", fields[3])
	row.Set("type", fields[4])
	row.Set("device", fields[5])
	row.Set("size_off", fields[6])
	row.Set("node", fields[7])
	row.Set("name", nameField(fields))

	return row
}

// nameField assembles the NAME value, prefixing the NODE protocol for
// network connections so that "TCP host:port->peer (ESTABLISHED)"
// style names stay complete.
func nameField(fields []string) string {
	node := fields[7]
	_, isProtocol := protocols[strings.ToUpper(node)]

	if len(fields) > minFields {
		name := strings.Join(fields[minFields:], " ")
		if isProtocol {
			return node + " " + name
		}
		return name
	}

	if isProtocol {
		return node
	}
	return ""
}

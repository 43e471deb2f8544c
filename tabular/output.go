package tabular

import "strings"

// DefaultSampleLimit caps how many data lines below the header are
// used to refine column boundaries. The cap bounds the majority-offset
// computation to O(rows x columns) with a small constant.
const DefaultSampleLimit = 5

// ParseOutput runs the full engine over the lines of one output file:
// locate the header, infer column boundaries from up to sampleLimit
// non-empty data lines, and parse every data line into a row.
//
// sampleLimit <= 0 means DefaultSampleLimit. When no header is found
// the result is empty; callers must treat that as "no data to
// extract", not as an error. Blank data lines are skipped, and so are
// lines that parse to nothing (only possible when the header produced
// zero columns).
func ParseOutput(lines []string, sampleLimit int) []*Row {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}

	headerIdx, ok := DetectHeader(lines)
	if !ok {
		return nil
	}

	headerLine := lines[headerIdx]
	dataLines := lines[headerIdx+1:]

	// Samples come from the lines immediately below the header; blank
	// lines inside that window are dropped, not replaced.
	window := dataLines
	if len(window) > sampleLimit {
		window = window[:sampleLimit]
	}
	var samples []string
	for _, line := range window {
		if strings.TrimSpace(line) != "" {
			samples = append(samples, line)
		}
	}

	table := New(headerLine, samples)

	var rows []*Row
	for _, line := range dataLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		row := table.ParseLine(line)
		if row.Len() == 0 {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

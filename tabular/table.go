package tabular

import (
	"strings"
	"unicode"
)

// Unbounded marks a column end (and width) that extends to the end of
// the line. Only the last column of a table is unbounded, so that a
// final field may capture multi-word content such as a command line
// with its arguments.
const Unbounded = -1

// Column describes the position of one field within a data line.
type Column struct {
	// Name is the column name exactly as it appeared in the header.
	Name string

	// Start is the character offset where the column begins.
	Start int

	// End is the character offset where the column ends (exclusive),
	// or Unbounded for the last column.
	End int

	// Width is End-Start, or Unbounded when End is Unbounded.
	Width int
}

// token is a maximal run of non-whitespace characters in a line,
// consumed immediately to build columns.
type token struct {
	text  string
	start int
	end   int
}

// scanTokens splits a line into maximal non-whitespace runs, recording
// the character offset of each run.
func scanTokens(line string) []token {
	var tokens []token
	start := -1

	for i, r := range line {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{text: line[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: line[start:], start: start, end: len(line)})
	}

	return tokens
}

// Table holds the inferred column layout for one output file. A Table
// is derived from exactly one header line (plus optional sample data
// lines) and is immutable afterward; build a fresh Table per file.
type Table struct {
	columns []Column
}

// New infers column boundaries from a header line and an optional set
// of sample data lines taken from just below the header.
//
// Without samples, boundaries are purely header-derived: each column
// ends where the next header token starts. This assumes data aligns
// exactly with the header token positions, which is fast but fragile.
//
// With samples, each column's start is refined to the most frequently
// observed start offset of the corresponding field across the sample
// lines (ties go to the first value encountered), which tolerates a
// couple of irregular rows while respecting true fixed-width
// alignment. The last column is always unbounded.
//
// An empty or blank header produces a Table with zero columns, which
// parses every data line to nothing.
func New(headerLine string, samples []string) *Table {
	headerLine = strings.TrimSpace(headerLine)
	if headerLine == "" {
		return &Table{}
	}

	words := scanTokens(headerLine)
	if len(words) == 0 {
		return &Table{}
	}

	if len(samples) > 0 {
		return &Table{columns: refineWithSamples(words, samples)}
	}
	return &Table{columns: headerOnlyColumns(words)}
}

// headerOnlyColumns derives boundaries from header token positions
// alone.
func headerOnlyColumns(words []token) []Column {
	columns := make([]Column, 0, len(words))

	for i, word := range words {
		end := Unbounded
		width := Unbounded
		if i < len(words)-1 {
			end = words[i+1].start
			width = end - word.start
		}
		columns = append(columns, Column{
			Name:  word.text,
			Start: word.start,
			End:   end,
			Width: width,
		})
	}

	return columns
}

// refineWithSamples adjusts column boundaries using the field positions
// observed in sample data lines. For column i the start becomes the
// majority start offset of the i-th field across the samples; the end
// becomes the majority start offset of field i+1, falling back to the
// header's own next-token offset when no sample line has that many
// fields.
func refineWithSamples(words []token, samples []string) []Column {
	fieldOffsets := make([][]int, len(samples))
	for i, line := range samples {
		for _, tok := range scanTokens(line) {
			fieldOffsets[i] = append(fieldOffsets[i], tok.start)
		}
	}

	starts := func(col int) []int {
		var out []int
		for _, offsets := range fieldOffsets {
			if col < len(offsets) {
				out = append(out, offsets[col])
			}
		}
		return out
	}

	columns := make([]Column, 0, len(words))

	for i, word := range words {
		start := word.start
		if observed := starts(i); len(observed) > 0 {
			start = majority(observed)
		}

		end := Unbounded
		if i < len(words)-1 {
			end = words[i+1].start
			if observed := starts(i + 1); len(observed) > 0 {
				end = majority(observed)
			}
		}

		width := Unbounded
		if end != Unbounded {
			width = end - start
		}

		columns = append(columns, Column{
			Name:  word.text,
			Start: start,
			End:   end,
			Width: width,
		})
	}

	return columns
}

// majority returns the most frequent value, breaking ties in favor of
// the value encountered first. This tie-break is load-bearing: callers
// rely on inference being deterministic for identical input.
func majority(values []int) int {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best := values[0]
	bestCount := 0
	for _, v := range values {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}

	return best
}

// Columns returns a copy of the inferred column descriptors in header
// order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in header order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Len returns the number of inferred columns.
func (t *Table) Len() int {
	return len(t.columns)
}

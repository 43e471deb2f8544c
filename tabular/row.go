package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Pair is one (column name, value) entry of a parsed row.
type Pair struct {
	Name  string
	Value string
}

// Row is an insertion-ordered mapping from column name to value. Order
// always matches header order; downstream consumers rely on first-to-
// last column order for the "last column absorbs the remainder"
// semantics, so Row deliberately does not use a Go map.
type Row struct {
	pairs []Pair
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{}
}

// Set appends the value for name, or replaces it if name is already
// present.
func (r *Row) Set(name, value string) {
	for i := range r.pairs {
		if r.pairs[i].Name == name {
			r.pairs[i].Value = value
			return
		}
	}
	r.pairs = append(r.pairs, Pair{Name: name, Value: value})
}

// Get returns the value for name and whether the name is present.
func (r *Row) Get(name string) (string, bool) {
	for _, p := range r.pairs {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Value returns the value for name, or the empty string when absent.
func (r *Row) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Len returns the number of entries in the row.
func (r *Row) Len() int {
	return len(r.pairs)
}

// Names returns the column names in insertion order.
func (r *Row) Names() []string {
	names := make([]string, len(r.pairs))
	for i, p := range r.pairs {
		names[i] = p.Name
	}
	return names
}

// Pairs returns a copy of the entries in insertion order.
func (r *Row) Pairs() []Pair {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// MarshalJSON encodes the row as a JSON object whose keys appear in
// insertion order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the row, preserving the key
// order of the document.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tabular: expected JSON object, got %v", tok)
	}

	r.pairs = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tabular: expected object key, got %v", keyTok)
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Set(key, value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}

// ParseLine converts one data line into a row using the inferred
// columns. Two candidate strategies are computed and one is chosen:
//
//   - field-based: split on whitespace and assign fields to columns by
//     position; excess fields are joined by a single space into the last
//     column, missing trailing columns get an empty value.
//   - positional: slice the line at each column's character offsets,
//     trimming surrounding whitespace; the last column takes everything
//     from its start offset to the end of the line, and an out-of-range
//     start yields an empty value rather than failing.
//
// The field-based result is used when it yields exactly one entry per
// column; otherwise the positional result is used. Field splitting is
// more robust to minor alignment drift, while positional slicing
// supports values that lack an expected whitespace boundary (and rows
// whose header repeats a column name, which collapses in the
// field-based result). Do not change the selection rule: downstream
// behavior depends on it.
//
// Blank lines are expected to be filtered by the caller; a table with
// zero columns parses every line to an empty row.
func (t *Table) ParseLine(line string) *Row {
	if len(t.columns) == 0 {
		return NewRow()
	}

	line = strings.TrimRight(line, " \t\r\n")

	fieldRow := NewRow()
	t.parseFields(fieldRow, strings.Fields(line))
	if fieldRow.Len() == len(t.columns) {
		return fieldRow
	}

	row := NewRow()
	t.parsePositional(row, line)
	return row
}

// parseFields assigns whitespace-separated fields to columns by
// position, with the last column absorbing any remaining fields.
func (t *Table) parseFields(row *Row, fields []string) {
	for i, col := range t.columns {
		switch {
		case i >= len(fields):
			row.Set(col.Name, "")
		case i == len(t.columns)-1:
			row.Set(col.Name, strings.Join(fields[i:], " "))
		default:
			row.Set(col.Name, fields[i])
		}
	}
}

// parsePositional slices the line at each column's inferred offsets.
func (t *Table) parsePositional(row *Row, line string) {
	for i, col := range t.columns {
		if col.Start >= len(line) {
			row.Set(col.Name, "")
			continue
		}

		end := col.End
		if end == Unbounded || i == len(t.columns)-1 || end > len(line) {
			end = len(line)
		}

		// Sample refinement can invert a column's offsets when the
		// samples are irregular; such a column has no slice to take.
		if end < col.Start {
			row.Set(col.Name, "")
			continue
		}

		row.Set(col.Name, strings.TrimSpace(line[col.Start:end]))
	}
}

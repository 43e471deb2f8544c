package tabular

import "strings"

// Normalize converts a raw header name into its canonical lookup form:
// lowercase, with every run of non-alphanumeric characters replaced by
// a single underscore and leading/trailing underscores stripped.
// "%CPU" becomes "cpu" and "USER-NAME" becomes "user_name". When
// nothing survives (a name made entirely of separators), the lowercased
// original is returned so the result is never empty for non-empty
// input.
func Normalize(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	pendingSep := false
	for _, r := range lower {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return lower
	}
	return b.String()
}

// AliasTable maps the header spellings a tool may emit onto canonical,
// tool-independent field names. Tables are caller-owned and never
// mutated by the engine; lookups fall back from the exact spelling to
// its normalized form, and finally to the normalized form itself, so
// every observed column resolves to exactly one output key and unknown
// columns are never dropped.
type AliasTable struct {
	bySpelling map[string]string
}

// NewAliasTable builds an alias table from a mapping of canonical field
// name to the header spellings that mean it. Spellings are registered
// both verbatim and in normalized form.
func NewAliasTable(aliases map[string][]string) *AliasTable {
	t := &AliasTable{bySpelling: make(map[string]string)}
	for canonical, spellings := range aliases {
		for _, spelling := range spellings {
			t.bySpelling[spelling] = canonical
			t.bySpelling[Normalize(spelling)] = canonical
		}
	}
	return t
}

// Merge registers additional aliases on top of the existing table,
// returning the table for chaining. Later registrations win on
// conflict; the engine itself never calls Merge.
func (t *AliasTable) Merge(aliases map[string][]string) *AliasTable {
	for canonical, spellings := range aliases {
		for _, spelling := range spellings {
			t.bySpelling[spelling] = canonical
			t.bySpelling[Normalize(spelling)] = canonical
		}
	}
	return t
}

// Canonical resolves one raw header name: exact spelling first, then
// the normalized spelling, then the normalized form itself.
func (t *AliasTable) Canonical(raw string) string {
	if t != nil {
		if canonical, ok := t.bySpelling[raw]; ok {
			return canonical
		}
		if canonical, ok := t.bySpelling[Normalize(raw)]; ok {
			return canonical
		}
	}
	return Normalize(raw)
}

// MapRow converts a parsed row keyed by raw header names into a row
// keyed by canonical field names, preserving column order. A nil table
// maps every column to its normalized name.
func (t *AliasTable) MapRow(row *Row) *Row {
	mapped := NewRow()
	for _, p := range row.Pairs() {
		mapped.Set(t.Canonical(p.Name), p.Value)
	}
	return mapped
}

package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zero-day-ai/cmdout/tabular"
)

// Record is one structured row extracted from a command output file.
type Record struct {
	// ID is a unique identifier for the record.
	ID string `json:"id"`

	// Tool identifies the plugin (command) that produced the record.
	Tool string `json:"tool"`

	// SourceFile is the collection path of the output file the record
	// was parsed from.
	SourceFile string `json:"source_file"`

	// Arguments are the tool invocation arguments recovered from the
	// source filename. Metadata only; parsing never depends on them.
	Arguments []string `json:"arguments,omitempty"`

	// Fields maps canonical field names to values, in column order.
	Fields *tabular.Row `json:"fields"`

	// Raw is the originally parsed row (raw header spellings) encoded
	// as JSON, kept for auditability.
	Raw string `json:"raw,omitempty"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt time.Time `json:"created_at"`
}

// New creates a record with a generated ID and creation timestamp.
func New(tool, sourceFile string, fields *tabular.Row) Record {
	if fields == nil {
		fields = tabular.NewRow()
	}
	return Record{
		ID:         uuid.New().String(),
		Tool:       tool,
		SourceFile: sourceFile,
		Fields:     fields,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks that the record has the minimum required fields.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record ID is required")
	}
	if r.Tool == "" {
		return fmt.Errorf("record tool is required")
	}
	if r.Fields == nil {
		return fmt.Errorf("record fields are required")
	}
	return nil
}

// Field returns the value of a canonical field, or the empty string
// when the field is absent.
func (r *Record) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields.Value(name)
}

// Filter represents criteria for selecting records.
type Filter struct {
	// Tool filters by producing tool name.
	Tool string `json:"tool,omitempty"`

	// SourceFile filters by source file path.
	SourceFile string `json:"source_file,omitempty"`

	// Has requires every named canonical field to be present and
	// non-empty.
	Has []string `json:"has,omitempty"`

	// Limit limits the number of results returned (0 means no limit).
	Limit int `json:"limit,omitempty"`

	// Offset skips the first N results.
	Offset int `json:"offset,omitempty"`
}

// Matches reports whether the record satisfies every criterion except
// Limit and Offset, which are pagination concerns applied by the
// caller.
func (f *Filter) Matches(r Record) bool {
	if f == nil {
		return true
	}

	if f.Tool != "" && r.Tool != f.Tool {
		return false
	}

	if f.SourceFile != "" && r.SourceFile != f.SourceFile {
		return false
	}

	for _, name := range f.Has {
		if r.Field(name) == "" {
			return false
		}
	}

	return true
}

// Apply filters records and applies Offset and Limit, returning the
// selected records in their original order.
func (f *Filter) Apply(records []Record) []Record {
	var matched []Record
	for _, r := range records {
		if f.Matches(r) {
			matched = append(matched, r)
		}
	}

	if f == nil {
		return matched
	}

	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return nil
		}
		matched = matched[f.Offset:]
	}

	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}

	return matched
}

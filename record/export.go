package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// Format represents the format for exporting records.
type Format string

const (
	// FormatJSON exports records as one JSON array.
	FormatJSON Format = "json"

	// FormatJSONL exports records as newline-delimited JSON objects.
	FormatJSONL Format = "jsonl"

	// FormatCSV exports records as comma-separated values.
	FormatCSV Format = "csv"
)

// IsValid returns true if the export format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatJSONL, FormatCSV:
		return true
	default:
		return false
	}
}

// String returns the string representation of the export format.
func (f Format) String() string {
	return string(f)
}

// FileExtension returns the file extension for the export format.
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	case FormatCSV:
		return ".csv"
	default:
		return ""
	}
}

// MimeType returns the MIME type for the export format.
func (f Format) MimeType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatJSONL:
		return "application/jsonl"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// Export writes records to w in the given format.
//
// CSV output flattens the union of canonical field names into columns,
// ordered by first appearance across the record set, after the fixed
// provenance columns (id, tool, source_file). Records missing a field
// get an empty cell.
func Export(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)

	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
			}
		}
		return nil

	case FormatCSV:
		return exportCSV(w, records)

	default:
		return fmt.Errorf("unsupported export format: %q", format)
	}
}

func exportCSV(w io.Writer, records []Record) error {
	// Collect field columns in first-seen order.
	var fieldNames []string
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Fields == nil {
			continue
		}
		for _, name := range r.Fields.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			fieldNames = append(fieldNames, name)
		}
	}

	cw := csv.NewWriter(w)

	header := append([]string{"id", "tool", "source_file"}, fieldNames...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{r.ID, r.Tool, r.SourceFile}
		for _, name := range fieldNames {
			row = append(row, r.Field(name))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for record %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

package tabular

import "strings"

// headerVocabulary is the fixed set of column names that identify a line
// as a table header. The words are drawn from common administrative tool
// output (ps, netstat, lsof, and friends) and are matched
// case-insensitively.
var headerVocabulary = map[string]struct{}{
	"PID":     {},
	"PPID":    {},
	"USER":    {},
	"TIME":    {},
	"CMD":     {},
	"COMMAND": {},
	"STAT":    {},
	"RSS":     {},
	"VSZ":     {},
	"PORT":    {},
	"PROTO":   {},
	"STATE":   {},
	"ADDRESS": {},
	"NAME":    {},
	"TYPE":    {},
	"SIZE":    {},
}

// DetectHeader scans lines top to bottom and returns the index of the
// first line that looks like a table header.
//
// Blank lines and lines starting with "#" or "//" are skipped. A line
// qualifies as a header when it has at least two whitespace-separated
// tokens and at least two of them belong to the header vocabulary.
// The second return value is false when no line qualifies; callers must
// treat that as "no data to extract", not as an error.
//
// A data line that happens to contain two vocabulary words before the
// real header is a known false-positive risk; the scan does not look
// ahead to correct for it.
func DetectHeader(lines []string) (int, bool) {
	for i, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 {
			continue
		}

		matches := 0
		for _, word := range words {
			if _, ok := headerVocabulary[strings.ToUpper(word)]; ok {
				matches++
			}
		}
		if matches >= 2 {
			return i, true
		}
	}

	return 0, false
}

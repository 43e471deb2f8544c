package source

import (
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

// OutputsDir is the directory within a collection where command output
// files are stored.
const OutputsDir = "command_outputs"

// OutputFile describes one discovered command output file.
type OutputFile struct {
	// Path is the file's path within the collection filesystem.
	Path string

	// Name is the file's base name.
	Name string

	// Command is the command prefix the file was discovered under.
	Command string

	// Arguments are the invocation arguments recovered from the
	// filename. The engine never interprets them; they ride along as
	// record metadata.
	Arguments []string
}

// Collection provides access to the command output files of one host
// triage collection.
type Collection struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewCollection wraps a collection filesystem. A nil logger defaults to
// slog.Default().
func NewCollection(fsys fs.FS, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{fsys: fsys, logger: logger}
}

// FS exposes the underlying collection filesystem for plugins that
// read configuration paths rather than command outputs.
func (c *Collection) FS() fs.FS {
	return c.fsys
}

// Compatible reports whether the collection contains a command outputs
// directory at all.
func (c *Collection) Compatible() bool {
	info, err := fs.Stat(c.fsys, OutputsDir)
	return err == nil && info.IsDir()
}

// Outputs lists the output files whose base name starts with the given
// command name, in lexical order. A missing outputs directory yields an
// empty list, not an error.
func (c *Collection) Outputs(command string) ([]OutputFile, error) {
	entries, err := fs.ReadDir(c.fsys, OutputsDir)
	if err != nil {
		return nil, nil
	}

	var files []OutputFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), command) {
			continue
		}

		files = append(files, OutputFile{
			Path:      path.Join(OutputsDir, entry.Name()),
			Name:      entry.Name(),
			Command:   command,
			Arguments: ParseArguments(command, entry.Name()),
		})
	}

	return files, nil
}

// ReadLines reads an output file and returns its lines. Invalid UTF-8
// sequences are replaced with U+FFFD. Read failures are logged and
// yield nil lines; downstream parsing then simply finds no data.
func (c *Collection) ReadLines(filePath string) []string {
	data, err := fs.ReadFile(c.fsys, filePath)
	if err != nil {
		c.logger.Error("failed to read command output file",
			"path", filePath,
			"error", err,
		)
		return nil
	}

	text := strings.ToValidUTF8(string(data), "�")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	// A trailing newline produces one empty final element.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	return lines
}

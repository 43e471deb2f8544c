// Package pam extracts PAM (Pluggable Authentication Modules)
// configuration records from a collected host filesystem.
//
// Unlike the command-output plugins, pam reads configuration files
// (etc/pam.conf and etc/pam.d/*) straight from the collection
// filesystem. Both PAM file formats are handled: the single-file
// pam.conf format where each line names its service, and the pam.d
// directory format where the service is the filename. Bracketed
// control flags, backslash continuation lines, and @include
// directives follow the PAM reference behavior.
package pam

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"unicode"

	"github.com/zero-day-ai/cmdout/parse"
	"github.com/zero-day-ai/cmdout/plugin"
	"github.com/zero-day-ai/cmdout/record"
	"github.com/zero-day-ai/cmdout/source"
	"github.com/zero-day-ai/cmdout/tabular"
)

const (
	confPath = "etc/pam.conf"
	confDir  = "etc/pam.d"
)

// patterns are the line grammars for the two PAM file formats. Control
// flags are either a bare word or a bracketed action list, which is why
// the third (resp. second) group alternates.
var patterns = map[string]string{
	// pam.conf format: service type control module args...
	"pam_conf_line": `^\s*([^\s#]+)\s+(\S+)\s+(\[[^\]]+\]|\S+)\s+(\S+)(?:\s+(.*))?$`,

	// pam.d format: type control module args...
	"pam_d_line": `^\s*(\S+)\s+(\[[^\]]+\]|\S+)\s+(\S+)(?:\s+(.*))?$`,

	"include_directive": `^\s*@include\s+(\S+).*$`,
	"so_module":         `([^/\s]+\.so)(?:\s|$)`,
	"comment_or_empty":  `^\s*(?:#.*)?$`,
}

// pamPlugin parses PAM configuration files from the collection
// filesystem. It satisfies plugin.Plugin directly rather than through
// the builder because its inputs are configuration paths, not
// command_outputs files.
type pamPlugin struct {
	parser *parse.LineParser
	logger *slog.Logger
}

// New builds the pam extraction plugin. A nil logger defaults to
// slog.Default().
func New(logger *slog.Logger) (plugin.Plugin, error) {
	parser, err := parse.NewLineParser(patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to build pam plugin: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &pamPlugin{parser: parser, logger: logger}, nil
}

func (p *pamPlugin) Name() string        { return "pam" }
func (p *pamPlugin) Version() string     { return "1.0.0" }
func (p *pamPlugin) Description() string { return "Extracts PAM module records from configuration files" }
func (p *pamPlugin) Command() string     { return "pam" }

// CheckCompatible reports ErrNotCompatible unless the collection
// carries etc/pam.conf or an etc/pam.d directory.
func (p *pamPlugin) CheckCompatible(_ context.Context, c *source.Collection) error {
	fsys := c.FS()

	if info, err := fs.Stat(fsys, confPath); err == nil && !info.IsDir() {
		return nil
	}
	if info, err := fs.Stat(fsys, confDir); err == nil && info.IsDir() {
		return nil
	}
	return fmt.Errorf("%w: no PAM configuration found", plugin.ErrNotCompatible)
}

// Parse reads etc/pam.conf first, then every regular non-hidden file
// under etc/pam.d, and emits one record per module rule.
func (p *pamPlugin) Parse(ctx context.Context, c *source.Collection) ([]record.Record, error) {
	fsys := c.FS()
	var records []record.Record

	if info, err := fs.Stat(fsys, confPath); err == nil && !info.IsDir() {
		recs, err := p.parseFile(ctx, c, confPath, "")
		if err != nil {
			return records, err
		}
		records = append(records, recs...)
	}

	entries, err := fs.ReadDir(fsys, confDir)
	if err != nil {
		return records, nil
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return records, err
		}

		recs, err := p.parseFile(ctx, c, path.Join(confDir, entry.Name()), entry.Name())
		if err != nil {
			return records, err
		}
		records = append(records, recs...)
	}

	return records, nil
}

// parseFile parses one PAM configuration file. service is empty for
// the pam.conf format, where each line carries its own service name;
// for pam.d files it is the filename.
func (p *pamPlugin) parseFile(_ context.Context, c *source.Collection, filePath, service string) ([]record.Record, error) {
	lines := c.ReadLines(filePath)
	pamConf := service == ""

	var records []record.Record
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if p.parser.MatchString("comment_or_empty", line) {
			continue
		}
		if !pamConf && p.parser.MatchString("include_directive", line) {
			continue
		}

		// Backslash continuations fold into a single logical line.
		for strings.HasSuffix(line, `\`) && i+1 < len(lines) {
			i++
			line = line[:len(line)-1] + " " + strings.TrimSpace(lines[i])
		}

		rec, ok, err := p.parseRule(line, filePath, service)
		if err != nil {
			return records, err
		}
		if !ok {
			p.logger.Warn("failed to parse PAM configuration line",
				"path", filePath,
				"line", i+1,
			)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func (p *pamPlugin) parseRule(line, filePath, service string) (record.Record, bool, error) {
	pattern := "pam_d_line"
	if service == "" {
		pattern = "pam_conf_line"
	}

	groups, ok, err := p.parser.Match(pattern, line)
	if err != nil || !ok {
		return record.Record{}, false, err
	}

	if service == "" {
		service = groups[1]
		groups = groups[1:]
	}
	moduleType, controlFlag, modulePath := groups[1], groups[2], groups[3]
	arguments := ParseModuleArguments(groups[4])

	fields := tabular.NewRow()
	fields.Set("service", service)
	fields.Set("module_type", moduleType)
	fields.Set("control_flag", controlFlag)
	fields.Set("module_path", modulePath)
	fields.Set("module_name", p.moduleName(modulePath))
	fields.Set("arguments", strings.Join(arguments, " "))

	rec := record.New("pam", filePath, fields)
	rec.Arguments = arguments
	rec.Raw = line
	return rec, true, nil
}

// moduleName extracts the shared-object name from a module path, e.g.
// "/lib/security/pam_unix.so" yields "pam_unix.so". Paths without a
// .so component fall back to their last path element.
func (p *pamPlugin) moduleName(modulePath string) string {
	if groups, ok, _ := p.parser.Match("so_module", modulePath); ok {
		return groups[1]
	}
	return path.Base(modulePath)
}

// ParseModuleArguments splits a PAM argument string into its
// arguments. Square brackets group an argument that contains spaces,
// per pam.conf(5), so "[query=select * from t]" stays one argument.
func ParseModuleArguments(arguments string) []string {
	args := []string{}
	var current strings.Builder
	inBrackets := false

	for _, r := range arguments {
		switch {
		case r == '[' && !inBrackets:
			inBrackets = true
			current.WriteRune(r)
		case r == ']' && inBrackets:
			inBrackets = false
			current.WriteRune(r)
		case unicode.IsSpace(r) && !inBrackets:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}

// Package ps extracts process records from collected ps command
// output.
//
// The plugin is entirely header-driven: it carries no knowledge of ps
// invocation flags and handles BSD-style (ps aux), System V (ps -ef),
// long, job, and custom -eo formats alike by inferring the table
// layout from whatever header the output carries. Column spellings
// from all common ps dialects are aliased onto canonical field names;
// columns the alias table has never seen still surface under their
// normalized names.
package ps

import (
	"context"
	"encoding/json"

	"github.com/zero-day-ai/cmdout/plugin"
	"github.com/zero-day-ai/cmdout/record"
	"github.com/zero-day-ai/cmdout/source"
	"github.com/zero-day-ai/cmdout/tabular"
)

// Aliases maps canonical process fields to the header spellings used
// across ps dialects (BSD, System V, busybox, and the -o format
// specifiers).
var Aliases = map[string][]string{
	"pid":             {"PID", "SPID"},
	"ppid":            {"PPID"},
	"pgid":            {"PGID"},
	"sid":             {"SID", "SESS"},
	"tpgid":           {"TPGID"},
	"user":            {"USER", "EUSER", "FUSER"},
	"ruser":           {"RUSER"},
	"uid":             {"UID", "EUID", "FUID"},
	"ruid":            {"RUID"},
	"gid":             {"GID", "EGID", "FGID", "SUPGID", "SUPGRP"},
	"rgid":            {"RGID"},
	"command":         {"CMD", "COMM", "UCMD", "EXE"},
	"args":            {"COMMAND", "ARGS"},
	"state":           {"STAT", "S", "STATE", "PENDING"},
	"tty":             {"TTY", "TT", "TNAME"},
	"time":            {"TIME", "CPUTIME", "BSDTIME", "UTIME", "CUTIME", "CSTIME"},
	"elapsed_time":    {"ETIME", "ELAPSED"},
	"start_time":      {"START", "STARTED", "LSTART", "STIME", "BSDSTART"},
	"cpu_percent":     {"%CPU", "PCPU"},
	"cpu_utilization": {"CP", "C"},
	"mem_percent":     {"%MEM", "PMEM"},
	"vsz":             {"VSZ", "VSIZE", "SIZE", "SZ"},
	"rss":             {"RSS", "RSSIZE", "RSZ", "SHARE", "DRS", "TRS"},
	"priority":        {"PRI", "PRIORITY", "OPRI", "INTPRI"},
	"nice":            {"NI", "NICE"},
	"wchan":           {"WCHAN", "ADDR", "NWCHAN", "MWCHAN"},
	"flags":           {"F", "FLAGS", "FLAG", "SCHED", "POLICY", "CLS", "PSR", "RTPRIO", "NLWP", "LWP", "TID", "THCOUNT"},
	"cgroup":          {"CGROUP", "UNIT", "SLICE", "MACHINE"},
	"label":           {"LABEL", "CONTEXT"},
}

// New builds the ps extraction plugin.
func New() (plugin.Plugin, error) {
	return NewWithConfig(nil, 0)
}

// NewWithAliases builds the ps plugin with extra alias registrations
// layered over the built-in table. Later registrations win, so callers
// can redirect a spelling to a different canonical name.
func NewWithAliases(extra map[string][]string) (plugin.Plugin, error) {
	return NewWithConfig(extra, 0)
}

// NewWithConfig builds the ps plugin with extra aliases and a column
// inference sample limit. sampleLimit <= 0 selects the engine default.
func NewWithConfig(extra map[string][]string, sampleLimit int) (plugin.Plugin, error) {
	aliases := tabular.NewAliasTable(Aliases).Merge(extra)

	cfg := plugin.NewConfig()
	cfg.SetName("ps")
	cfg.SetVersion("1.0.0")
	cfg.SetDescription("Extracts process records from collected ps output")
	cfg.SetCommand("ps")
	cfg.SetParseFileFunc(func(ctx context.Context, c *source.Collection, file source.OutputFile) ([]record.Record, error) {
		return parseFile(c, file, aliases, sampleLimit)
	})

	return plugin.New(cfg)
}

func parseFile(c *source.Collection, file source.OutputFile, aliases *tabular.AliasTable, sampleLimit int) ([]record.Record, error) {
	lines := c.ReadLines(file.Path)

	var records []record.Record
	for _, row := range tabular.ParseOutput(lines, sampleLimit) {
		raw, err := json.Marshal(row)
		if err != nil {
			return records, err
		}

		rec := record.New("ps", file.Path, aliases.MapRow(row))
		rec.Arguments = file.Arguments
		rec.Raw = string(raw)
		records = append(records, rec)
	}

	return records, nil
}

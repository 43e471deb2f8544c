package parse

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
)

// LineParser matches lines of text against a set of named, pre-compiled
// regex patterns. It is the Go counterpart of a pattern registry: a
// consumer registers its patterns once and then matches individual
// lines by pattern name, or sweeps whole inputs with Parse.
type LineParser struct {
	patterns map[string]*regexp.Regexp
}

// NewLineParser compiles the given pattern set. patterns maps a pattern
// name to its regex source. Compilation failure of any pattern fails
// the whole constructor.
func NewLineParser(patterns map[string]string) (*LineParser, error) {
	compiled := make(map[string]*regexp.Regexp, len(patterns))

	for name, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %q: %w", name, err)
		}
		compiled[name] = re
	}

	return &LineParser{patterns: compiled}, nil
}

// Has reports whether a pattern with the given name is registered.
func (p *LineParser) Has(name string) bool {
	_, ok := p.patterns[name]
	return ok
}

// Match matches the named pattern against text and returns the
// submatch groups (index 0 is the full match). The second return value
// is false when the pattern does not match. An unregistered name is an
// error.
func (p *LineParser) Match(name, text string) ([]string, bool, error) {
	re, ok := p.patterns[name]
	if !ok {
		return nil, false, fmt.Errorf("pattern %q not found", name)
	}

	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return nil, false, nil
	}
	return groups, true, nil
}

// MatchString reports whether the named pattern matches text. An
// unregistered name simply reports false.
func (p *LineParser) MatchString(name, text string) bool {
	re, ok := p.patterns[name]
	if !ok {
		return false
	}
	return re.MatchString(text)
}

// Parse sweeps data line by line, trying every registered pattern
// against each line. Each match produces a map of the pattern's named
// capture groups plus "_pattern" (the pattern name) and "_line" (the
// raw line).
func (p *LineParser) Parse(data []byte) ([]map[string]string, error) {
	var results []map[string]string
	scanner := bufio.NewScanner(bytes.NewReader(data))

	for scanner.Scan() {
		line := scanner.Text()

		for patternName, re := range p.patterns {
			match := re.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			result := map[string]string{
				"_pattern": patternName,
				"_line":    line,
			}
			namedGroups(re, match, result)
			results = append(results, result)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading text: %w", err)
	}

	return results, nil
}

// namedGroups copies the named capture groups of a match into result.
func namedGroups(re *regexp.Regexp, match []string, result map[string]string) {
	for i, name := range re.SubexpNames() {
		if i > 0 && i < len(match) && name != "" {
			result[name] = match[i]
		}
	}
}

// ParseWithPattern sweeps data line by line with a single one-off
// pattern, without building a LineParser. Each matching line produces a
// map of the pattern's named capture groups plus "_line".
func ParseWithPattern(data []byte, pattern string) ([]map[string]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}

	var results []map[string]string
	scanner := bufio.NewScanner(bytes.NewReader(data))

	for scanner.Scan() {
		line := scanner.Text()

		match := re.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		result := map[string]string{"_line": line}
		namedGroups(re, match, result)
		results = append(results, result)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading text: %w", err)
	}

	return results, nil
}

// ExtractAll returns every match of pattern in data, in order.
func ExtractAll(data []byte, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}
	return re.FindAllString(string(data), -1), nil
}

// ExtractGroups returns the submatch groups of every match of pattern
// in data. Element 0 of each group set is the full match.
func ExtractGroups(data []byte, pattern string) ([][]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}
	return re.FindAllStringSubmatch(string(data), -1), nil
}

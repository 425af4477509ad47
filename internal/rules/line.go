package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"frscan/internal/types"
)

type linePattern struct {
	name  string
	match func(line string) bool
}

// LineRules matches each registered pattern against every line of the code.
// One finding is produced per (line, pattern) hit, ordered by line and then by
// registration order.
type LineRules struct {
	patterns []linePattern
}

// Substrings matches patterns as plain substrings.
func Substrings(patterns ...string) *LineRules {
	lr := &LineRules{}
	for _, p := range patterns {
		lr.patterns = append(lr.patterns, linePattern{
			name:  p,
			match: func(line string) bool { return strings.Contains(line, p) },
		})
	}
	return lr
}

// WordBoundary matches patterns as whole words (\b<pattern>\b). The reported
// pattern is the bare word.
func WordBoundary(patterns ...string) *LineRules {
	lr := &LineRules{}
	for _, p := range patterns {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
		lr.patterns = append(lr.patterns, linePattern{name: p, match: re.MatchString})
	}
	return lr
}

// Regexps matches patterns as regular expressions. The reported pattern is the
// expression source.
func Regexps(patterns ...string) *LineRules {
	return regexpRules("", patterns)
}

// RegexpsFold is Regexps with case-insensitive matching.
func RegexpsFold(patterns ...string) *LineRules {
	return regexpRules("(?i)", patterns)
}

func regexpRules(flags string, patterns []string) *LineRules {
	lr := &LineRules{}
	for _, p := range patterns {
		re := regexp.MustCompile(flags + p)
		lr.patterns = append(lr.patterns, linePattern{name: p, match: re.MatchString})
	}
	return lr
}

// Patterns returns the registered pattern names in order.
func (lr *LineRules) Patterns() []string {
	out := make([]string, len(lr.patterns))
	for i, p := range lr.patterns {
		out[i] = p.name
	}
	return out
}

// Scan implements RuleSet.
func (lr *LineRules) Scan(code string) []types.Finding {
	findings := []types.Finding{}
	for idx, line := range splitLines(code) {
		for _, p := range lr.patterns {
			if p.match(line) {
				findings = append(findings, types.Finding{
					Pattern: p.name,
					Line:    idx + 1,
					Context: strings.TrimSpace(line),
				})
			}
		}
	}
	return findings
}

// splitLines splits on the ASCII and Unicode line boundaries:
// \n, \r, \r\n, \v, \f, \x1c-\x1e, U+0085, U+2028 and U+2029. A trailing
// boundary does not produce an extra empty line.
func splitLines(code string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(code); {
		r, size := utf8.DecodeRuneInString(code[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, code[start:i])
		i += size
		if r == '\r' && i < len(code) && code[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(code) {
		lines = append(lines, code[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

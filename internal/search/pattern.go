// Package search implements the matching and aggregation engine: pattern
// derivation from raw names, exhaustive cell scanning across workbooks, the
// positional part-number heuristic, and the report building logic.
package search

import (
	"regexp"
)

// Pattern is one search pattern derived from a raw name. The raw name is
// embedded into the expression without escaping: names are intentionally
// treated as regular expressions, not literals, so users can search with
// expressions instead of exact names.
type Pattern struct {
	// Expr is the literal pattern text, reported alongside matches.
	Expr string
	// Name is the raw search name the pattern was derived from.
	Name string

	re  *regexp.Regexp
	err error
}

// Matches reports whether the pattern matches anywhere in s. A pattern
// whose expression failed to compile never matches.
func (p *Pattern) Matches(s string) bool {
	if p.err != nil {
		return false
	}
	return p.re.MatchString(s)
}

// Err returns the compilation error for the pattern, if any.
func (p *Pattern) Err() error { return p.err }

// PatternSet holds the ordered pattern sequence for a name list plus the
// pattern-to-name index. For N names it contains exactly 2N patterns: for
// each name a case-sensitive substring pattern followed by its
// case-insensitive variant.
type PatternSet struct {
	Patterns []Pattern

	index map[string]string
}

// CompilePatterns derives the pattern set for an ordered list of names.
// Names must already be trimmed and non-empty. Expressions that fail to
// compile are kept in the set with their error attached; they are surfaced
// when scanning starts, and never match.
func CompilePatterns(names []string) *PatternSet {
	set := &PatternSet{
		Patterns: make([]Pattern, 0, 2*len(names)),
		index:    make(map[string]string, 2*len(names)),
	}

	for _, name := range names {
		for _, expr := range []string{".*" + name + ".*", "(?i).*" + name + ".*"} {
			re, err := regexp.Compile(expr)
			set.Patterns = append(set.Patterns, Pattern{
				Expr: expr,
				Name: name,
				re:   re,
				err:  err,
			})
			set.index[expr] = name
		}
	}

	return set
}

// NameFor resolves a pattern expression back to its originating name.
func (s *PatternSet) NameFor(expr string) (string, bool) {
	name, ok := s.index[expr]
	return name, ok
}

// Len returns the number of patterns in the set.
func (s *PatternSet) Len() int { return len(s.Patterns) }

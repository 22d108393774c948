package extract

import (
	"strings"

	"github.com/dshills/langkit/internal/profile"
)

// Symbol is an extracted identifier used for completion.
type Symbol struct {
	// Kind is the profile-declared symbol kind (variable, param, import).
	Kind string

	// Name is the identifier text.
	Name string

	// Line is the 0-based line the symbol was first seen on.
	Line int
}

// Symbols extracts identifiers from the buffer in first-seen order,
// deduplicated by (kind, name); later occurrences never displace the first.
//
// Each whitespace-trimmed line is tested against the profile's symbol rules
// in declared order. Import rules may capture several groups, each holding
// a comma-separated name list; other rules contribute their first non-empty
// capture. A match with no usable name capture is silently skipped.
func Symbols(text string, p *profile.Profile) []Symbol {
	if len(p.Symbols) == 0 {
		return nil
	}

	lines := strings.Split(text, "\n")
	seen := make(map[symbolKey]bool)
	var symbols []Symbol

	add := func(kind, name string, line int) {
		name = strings.TrimSpace(name)
		if name == "" || isNumeric(name) {
			return
		}
		key := symbolKey{kind: kind, name: name}
		if seen[key] {
			return
		}
		seen[key] = true
		symbols = append(symbols, Symbol{Kind: kind, Name: name, Line: line})
	}

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		for _, rule := range p.Symbols {
			m := rule.Pattern.FindStringSubmatchIndex(stripped)
			if m == nil {
				continue
			}
			if rule.Kind == "import" {
				// Imports may list several names across several groups.
				for g := 1; 2*g+1 < len(m); g++ {
					for _, name := range strings.Split(group(stripped, m, g), ",") {
						add(rule.Kind, name, i)
					}
				}
				continue
			}
			add(rule.Kind, firstGroup(stripped, m), i)
		}
	}
	return symbols
}

type symbolKey struct {
	kind string
	name string
}

// firstGroup returns the first non-empty capture group, or "" when the
// pattern captured nothing usable.
func firstGroup(s string, match []int) string {
	for g := 1; 2*g+1 < len(match); g++ {
		if text := group(s, match, g); text != "" {
			return text
		}
	}
	return ""
}

// isNumeric filters out captures that are bare numbers; a numeric
// "identifier" is a pattern artifact, not a symbol.
func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

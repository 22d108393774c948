// Package extract scans buffer text for structural definitions (functions,
// classes, ...) and identifiers (variables, parameters, imports) using a
// language profile's pattern rules.
//
// Extraction is a lexical approximation, not parsing: it runs over the full
// buffer on the background tier and feeds the definition gutter and the
// completion index.
package extract

import (
	"sort"
	"strings"

	"github.com/dshills/langkit/internal/profile"
)

// maxSignatureLines bounds the multi-line window joined when a signature
// leaves an opening parenthesis unmatched.
const maxSignatureLines = 8

// Definition is an extracted structural construct.
type Definition struct {
	// Kind is the profile-declared definition kind (function, class, ...).
	Kind string

	// Name is the identifier captured by the rule's declared name group.
	Name string

	// Params is the raw parameter text when the rule declares a parameter
	// group, otherwise empty.
	Params string

	// Raw is the matched signature text.
	Raw string

	// StartLine and EndLine are 0-based. They are equal for single-line
	// signatures.
	StartLine int
	EndLine   int
}

// Definitions extracts every definition in source order.
//
// Each line (or bounded multi-line signature window, when the line leaves
// an opening parenthesis unmatched) is tested against the profile's
// definition rules in declared order; when two kinds would claim
// overlapping text, the earlier-declared kind wins. A match whose declared
// name group is missing or empty is silently skipped.
func Definitions(text string, p *profile.Profile) []Definition {
	if len(p.Definitions) == 0 {
		return nil
	}

	lines := strings.Split(text, "\n")
	var defs []Definition

	for i := 0; i < len(lines); i++ {
		unit, endLine := signatureWindow(lines, i)
		found := scanUnit(unit, i, endLine, p)
		if len(found) > 0 {
			defs = append(defs, found...)
			// Continuation lines belong to the signature; don't rescan them.
			i = endLine
		}
	}
	return defs
}

// scanUnit matches all definition rules against one scan unit, resolving
// overlaps by rule declaration order.
func scanUnit(unit string, startLine, endLine int, p *profile.Profile) []Definition {
	stripped := strings.TrimLeft(unit, " \t")
	claimed := make([]bool, len(stripped))

	type positioned struct {
		def Definition
		off int
	}
	var found []positioned

	for _, rule := range p.Definitions {
		for _, m := range rule.Pattern.FindAllStringSubmatchIndex(stripped, -1) {
			if m[1] <= m[0] || overlaps(claimed, m[0], m[1]) {
				continue
			}
			name := group(stripped, m, rule.NameGroup)
			if name == "" {
				continue
			}
			def := Definition{
				Kind:      rule.Kind,
				Name:      name,
				Raw:       stripped[m[0]:m[1]],
				StartLine: startLine,
				EndLine:   endLine,
			}
			if rule.ParamGroup > 0 {
				def.Params = strings.TrimSpace(group(stripped, m, rule.ParamGroup))
			}
			found = append(found, positioned{def: def, off: m[0]})
			markClaimed(claimed, m[0], m[1])
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].off < found[j].off })
	defs := make([]Definition, len(found))
	for i, f := range found {
		defs[i] = f.def
	}
	return defs
}

// signatureWindow returns the scan unit starting at line i. When the line
// has more opening than closing parentheses, following lines are joined
// until the parens balance or the window bound is hit; an unbalanced
// window falls back to the single line.
func signatureWindow(lines []string, i int) (string, int) {
	line := lines[i]
	depth := parenDepth(line)
	if depth <= 0 {
		return line, i
	}

	joined := line
	for j := i + 1; j < len(lines) && j < i+maxSignatureLines; j++ {
		joined += "\n" + lines[j]
		depth += parenDepth(lines[j])
		if depth <= 0 {
			return joined, j
		}
	}
	return line, i
}

// parenDepth returns opening minus closing parens, ignoring parens that are
// obviously inside quoted strings.
func parenDepth(line string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}

// group returns the text of capture group n, or "" when the group is
// missing or unmatched.
func group(s string, match []int, n int) string {
	if n < 0 || 2*n+1 >= len(match) {
		return ""
	}
	lo, hi := match[2*n], match[2*n+1]
	if lo < 0 || hi < 0 {
		return ""
	}
	return s[lo:hi]
}

func overlaps(claimed []bool, start, end int) bool {
	for i := start; i < end && i < len(claimed); i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

func markClaimed(claimed []bool, start, end int) {
	for i := start; i < end && i < len(claimed); i++ {
		claimed[i] = true
	}
}

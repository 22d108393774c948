// Package profile loads, validates, and caches compiled language profiles.
//
// A profile is a declarative, per-language rule set: regex patterns for
// syntax token categories, indent/dedent triggers, structural definitions,
// symbol extraction, and static completion suggestions. Profiles are
// immutable once compiled and may be shared across any number of buffers.
package profile

import (
	"regexp"
	"sync"
)

// PlainCategory is the reserved token category used to fill spans no
// declared category claims.
const PlainCategory = "plain"

// CommentCategory is the reserved category forced onto block-comment spans.
const CommentCategory = "comment"

// TokenRule classifies spans of a line into one category.
type TokenRule struct {
	// Category is the label attached to matched spans (string, keyword, ...).
	Category string

	// Pattern matches the spans. Never nil in a compiled profile.
	Pattern *regexp.Regexp

	// Priority is the declared ordinal; lower values match first.
	Priority int
}

// DefinitionRule extracts one kind of structural definition.
type DefinitionRule struct {
	// Kind tags the definitions this rule produces (function, class, ...).
	Kind string

	Pattern *regexp.Regexp

	// NameGroup is the capture group holding the definition name.
	// It is declared explicitly in the profile; a profile that omits it
	// fails the structural check.
	NameGroup int

	// ParamGroup optionally names the capture group holding raw
	// parameter text. Zero means the rule captures no parameters.
	ParamGroup int
}

// SymbolRule extracts identifiers of one kind (variable, param, import).
type SymbolRule struct {
	Kind    string
	Pattern *regexp.Regexp
}

// SuggestionCategory is an ordered list of static completion literals.
type SuggestionCategory struct {
	Name  string
	Items []string
}

// Profile is a compiled language profile. All fields are read-only after
// compilation; concurrent readers need no synchronization.
type Profile struct {
	// Language is the profile id, always lower case.
	Language string

	// LineComment is the line-comment marker ("" when the language has none).
	LineComment string

	// BlockStart and BlockEnd delimit block comments. Both empty when the
	// language has no block comments.
	BlockStart string
	BlockEnd   string

	// IndentUnit is the literal whitespace inserted per indent level.
	IndentUnit string

	// IndentTriggers and DedentTriggers are tested in declared order
	// against whitespace-trimmed lines.
	IndentTriggers []*regexp.Regexp
	DedentTriggers []*regexp.Regexp

	// Definitions are tested in declared order; the earlier rule wins
	// overlapping claims.
	Definitions []DefinitionRule

	// Symbols are tested in declared order.
	Symbols []SymbolRule

	// Categories are token rules sorted by priority, highest first.
	Categories []TokenRule

	// Suggestions are static completion categories in declared order.
	Suggestions []SuggestionCategory

	// Warnings collects non-fatal load problems: disabled rules whose
	// patterns failed to compile, category-order invariant violations.
	Warnings []string
}

// Plain reports whether this is a fallback plain-text profile.
func (p *Profile) Plain() bool {
	return len(p.Categories) == 1 && p.Categories[0].Category == PlainCategory &&
		len(p.Definitions) == 0 && len(p.Symbols) == 0
}

var plainLine = regexp.MustCompile(`.+`)

// Fallback returns the plain-text profile substituted when a profile is
// missing or structurally invalid. It has no triggers, no definitions, no
// symbols, no suggestions, and a single category covering the whole line.
func Fallback(language string) *Profile {
	if language == "" {
		language = "plain"
	}
	return &Profile{
		Language:   language,
		IndentUnit: "    ",
		Categories: []TokenRule{{Category: PlainCategory, Pattern: plainLine}},
	}
}

// patternCache holds compiled regexes keyed by pattern text so identical
// patterns across profiles compile once per process.
var patternCache sync.Map // string -> *regexp.Regexp

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}

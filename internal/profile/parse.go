package profile

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Structural requirements for a profile document. A document failing any of
// these is replaced by the fallback plain profile; individual patterns that
// fail to compile only disable their own rule.
var requiredKeys = []string{
	"language", "comment", "block_comment", "indent",
	"indent_triggers", "dedent_triggers", "definitions",
	"symbol_patterns", "syntax_tokens", "suggestions_categorized",
}

// literalCategories are token categories that must be declared before any
// code category, so keyword-like substrings inside strings and comments are
// never reclassified.
var literalCategories = map[string]bool{
	"string": true, "comment": true, "docstring": true,
	"template": true, "template_literal": true,
	"regex": true, "regex_literal": true, "char": true,
}

// codeCategories are the categories literal categories must precede.
var codeCategories = map[string]bool{
	"keyword": true, "identifier": true, "operator": true,
}

// Parse compiles a JSON profile document.
//
// A structural failure (missing field, bad shape, definition entry without
// a declared name group) returns an error; the caller substitutes the
// fallback profile. Pattern compile failures never fail the parse: the
// offending rule is skipped and recorded in Profile.Warnings.
func Parse(data []byte) (*Profile, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("profile document is not an object")
	}
	for _, key := range requiredKeys {
		if !doc.Get(key).Exists() {
			return nil, fmt.Errorf("missing required field %q", key)
		}
	}

	lang := doc.Get("language")
	if lang.Type != gjson.String || lang.String() == "" {
		return nil, fmt.Errorf("field \"language\" must be a non-empty string")
	}

	indent := doc.Get("indent")
	if indent.Type != gjson.String || indent.String() == "" {
		return nil, fmt.Errorf("field \"indent\" must be a non-empty string")
	}

	bc := doc.Get("block_comment")
	if !bc.IsArray() || len(bc.Array()) != 2 {
		return nil, fmt.Errorf("field \"block_comment\" must be a two-element array")
	}

	p := &Profile{
		Language:    strings.ToLower(lang.String()),
		LineComment: bc2str(doc.Get("comment")),
		BlockStart:  bc2str(bc.Array()[0]),
		BlockEnd:    bc2str(bc.Array()[1]),
		IndentUnit:  indent.String(),
	}
	// A lone start or end marker is unusable.
	if p.BlockStart == "" || p.BlockEnd == "" {
		p.BlockStart, p.BlockEnd = "", ""
	}

	var err error
	if p.IndentTriggers, err = parseTriggers(doc.Get("indent_triggers"), "indent_triggers", p); err != nil {
		return nil, err
	}
	if p.DedentTriggers, err = parseTriggers(doc.Get("dedent_triggers"), "dedent_triggers", p); err != nil {
		return nil, err
	}
	if err = parseDefinitions(doc.Get("definitions"), p); err != nil {
		return nil, err
	}
	if err = parseSymbols(doc.Get("symbol_patterns"), p); err != nil {
		return nil, err
	}
	if err = parseTokenRules(doc.Get("syntax_tokens"), p); err != nil {
		return nil, err
	}
	if err = parseSuggestions(doc.Get("suggestions_categorized"), p); err != nil {
		return nil, err
	}

	checkCategoryOrder(p)
	return p, nil
}

// bc2str reads a string field that may be JSON null.
func bc2str(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return ""
}

func parseTriggers(list gjson.Result, field string, p *Profile) ([]*regexp.Regexp, error) {
	if !list.IsArray() {
		return nil, fmt.Errorf("field %q must be an array", field)
	}
	var out []*regexp.Regexp
	for _, item := range list.Array() {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("field %q must contain only strings", field)
		}
		re, err := compilePattern(item.String())
		if err != nil {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%s: pattern %q disabled: %v", field, item.String(), err))
			continue
		}
		out = append(out, re)
	}
	return out, nil
}

func parseDefinitions(obj gjson.Result, p *Profile) error {
	if !obj.IsObject() {
		return fmt.Errorf("field \"definitions\" must be an object")
	}
	var outerErr error
	obj.ForEach(func(kind, entry gjson.Result) bool {
		if !entry.IsObject() {
			outerErr = fmt.Errorf("definition %q must be an object with pattern and name_group", kind.String())
			return false
		}
		ng := entry.Get("name_group")
		if !ng.Exists() || ng.Type != gjson.Number || ng.Int() < 1 {
			outerErr = fmt.Errorf("definition %q is missing a declared name_group", kind.String())
			return false
		}
		pattern := entry.Get("pattern")
		if pattern.Type != gjson.String {
			outerErr = fmt.Errorf("definition %q is missing a pattern", kind.String())
			return false
		}
		re, err := compilePattern(pattern.String())
		if err != nil {
			p.Warnings = append(p.Warnings, fmt.Sprintf("definitions.%s: pattern disabled: %v", kind.String(), err))
			return true
		}
		rule := DefinitionRule{
			Kind:      kind.String(),
			Pattern:   re,
			NameGroup: int(ng.Int()),
		}
		if pg := entry.Get("param_group"); pg.Exists() && pg.Type == gjson.Number {
			rule.ParamGroup = int(pg.Int())
		}
		p.Definitions = append(p.Definitions, rule)
		return true
	})
	return outerErr
}

func parseSymbols(obj gjson.Result, p *Profile) error {
	if !obj.IsObject() {
		return fmt.Errorf("field \"symbol_patterns\" must be an object")
	}
	var outerErr error
	obj.ForEach(func(kind, pattern gjson.Result) bool {
		if pattern.Type == gjson.Null {
			return true
		}
		if pattern.Type != gjson.String {
			outerErr = fmt.Errorf("symbol pattern %q must be a string", kind.String())
			return false
		}
		re, err := compilePattern(pattern.String())
		if err != nil {
			p.Warnings = append(p.Warnings, fmt.Sprintf("symbol_patterns.%s: pattern disabled: %v", kind.String(), err))
			return true
		}
		p.Symbols = append(p.Symbols, SymbolRule{Kind: kind.String(), Pattern: re})
		return true
	})
	return outerErr
}

// parseTokenRules reads the ordered category map. Each value is either the
// bare pattern string, in which case textual position is the priority, or
// an object carrying an explicit "priority" ordinal that survives any
// reordering of the file's textual layout.
func parseTokenRules(obj gjson.Result, p *Profile) error {
	if !obj.IsObject() {
		return fmt.Errorf("field \"syntax_tokens\" must be an object")
	}
	var outerErr error
	position := 0
	obj.ForEach(func(category, entry gjson.Result) bool {
		pattern := entry
		priority := position
		position++
		if entry.IsObject() {
			pattern = entry.Get("pattern")
			if pr := entry.Get("priority"); pr.Exists() && pr.Type == gjson.Number {
				priority = int(pr.Int())
			}
		}
		if pattern.Type == gjson.Null {
			return true
		}
		if pattern.Type != gjson.String {
			outerErr = fmt.Errorf("syntax token %q must declare a string pattern", category.String())
			return false
		}
		re, err := compilePattern(pattern.String())
		if err != nil {
			p.Warnings = append(p.Warnings, fmt.Sprintf("syntax_tokens.%s: pattern disabled: %v", category.String(), err))
			return true
		}
		p.Categories = append(p.Categories, TokenRule{
			Category: category.String(),
			Pattern:  re,
			Priority: priority,
		})
		return true
	})
	if outerErr != nil {
		return outerErr
	}
	sort.SliceStable(p.Categories, func(i, j int) bool {
		return p.Categories[i].Priority < p.Categories[j].Priority
	})
	return nil
}

func parseSuggestions(obj gjson.Result, p *Profile) error {
	if !obj.IsObject() {
		return fmt.Errorf("field \"suggestions_categorized\" must be an object")
	}
	var outerErr error
	obj.ForEach(func(name, list gjson.Result) bool {
		if !list.IsArray() {
			outerErr = fmt.Errorf("suggestion category %q must be an array", name.String())
			return false
		}
		cat := SuggestionCategory{Name: name.String()}
		for _, item := range list.Array() {
			if item.Type == gjson.String {
				cat.Items = append(cat.Items, item.String())
			}
		}
		p.Suggestions = append(p.Suggestions, cat)
		return true
	})
	return outerErr
}

// checkCategoryOrder warns when a literal category (string, comment, ...)
// is declared after a code category (keyword, identifier, operator). Such
// a profile still loads, but keyword-like substrings inside strings and
// comments will be misclassified.
func checkCategoryOrder(p *Profile) {
	firstCode := -1
	firstCodeName := ""
	for i, rule := range p.Categories {
		if codeCategories[rule.Category] && firstCode == -1 {
			firstCode = i
			firstCodeName = rule.Category
		}
		if literalCategories[rule.Category] && firstCode != -1 {
			p.Warnings = append(p.Warnings, fmt.Sprintf(
				"category %q is declared after %q; literals may be reclassified as code",
				rule.Category, firstCodeName))
		}
	}
}

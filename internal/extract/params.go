package extract

import (
	"regexp"
	"strings"
)

var identRE = regexp.MustCompile(`[A-Za-z_$][\w$]*`)

// Parameters derives param symbols from the parameter text of extracted
// definitions: each comma-separated part contributes its leading
// identifier, so annotated ("x: int", "x int") and variadic ("*args")
// forms all reduce to the bare name. Receiver-style names are kept; they
// are deduplicated like any other symbol.
func Parameters(defs []Definition) []Symbol {
	seen := make(map[string]bool)
	var params []Symbol
	for _, def := range defs {
		if def.Params == "" {
			continue
		}
		for _, part := range strings.Split(def.Params, ",") {
			name := identRE.FindString(part)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			params = append(params, Symbol{Kind: "param", Name: name, Line: def.StartLine})
		}
	}
	return params
}

// MergeSymbols concatenates symbol lists preserving first-seen order and
// the (kind, name) deduplication invariant.
func MergeSymbols(lists ...[]Symbol) []Symbol {
	seen := make(map[symbolKey]bool)
	var merged []Symbol
	for _, list := range lists {
		for _, sym := range list {
			key := symbolKey{kind: sym.Kind, name: sym.Name}
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, sym)
		}
	}
	return merged
}

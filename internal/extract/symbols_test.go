package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/langkit/internal/profile"
)

const pyDoc = `{
  "language": "python",
  "comment": "#",
  "block_comment": [null, null],
  "indent": "    ",
  "indent_triggers": [":\\s*$"],
  "dedent_triggers": ["^return\\b"],
  "definitions": {
    "function": {
      "pattern": "^(?:async\\s+)?def\\s+([A-Za-z_]\\w*)\\s*\\(([^)]*)",
      "name_group": 1,
      "param_group": 2
    }
  },
  "symbol_patterns": {
    "variable": "^([A-Za-z_]\\w*)\\s*=[^=]",
    "import": "^(?:from\\s+([\\w.]+)\\s+)?import\\s+([\\w.]+(?:\\s*,\\s*[\\w.]+)*)"
  },
  "syntax_tokens": {"plainish": ".+"},
  "suggestions_categorized": {}
}`

func parsePy(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.Parse([]byte(pyDoc))
	require.NoError(t, err)
	return p
}

func TestSymbolsVariables(t *testing.T) {
	p := parsePy(t)

	text := strings.Join([]string{
		"count = 0",
		"name = 'x'",
		"count = count + 1",
		"    indented = True",
	}, "\n")

	syms := Symbols(text, p)
	require.Len(t, syms, 3)
	assert.Equal(t, Symbol{Kind: "variable", Name: "count", Line: 0}, syms[0])
	assert.Equal(t, Symbol{Kind: "variable", Name: "name", Line: 1}, syms[1])
	assert.Equal(t, Symbol{Kind: "variable", Name: "indented", Line: 3}, syms[2])
}

func TestSymbolsImports(t *testing.T) {
	p := parsePy(t)

	text := strings.Join([]string{
		"import os",
		"from collections import OrderedDict, defaultdict",
		"import sys, json",
	}, "\n")

	syms := Symbols(text, p)

	var names []string
	for _, s := range syms {
		assert.Equal(t, "import", s.Kind)
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"os", "collections", "OrderedDict", "defaultdict", "sys", "json"}, names)
}

func TestSymbolsSkipsComparison(t *testing.T) {
	p := parsePy(t)

	// == must not read as an assignment.
	assert.Empty(t, Symbols("x == y", p))
}

func TestSymbolsNoRules(t *testing.T) {
	assert.Nil(t, Symbols("x = 1", profile.Fallback("plain")))
}

func TestParameters(t *testing.T) {
	defs := []Definition{
		{Kind: "function", Name: "fetch", Params: "url, timeout=30, *args, **kwargs", StartLine: 2},
		{Kind: "function", Name: "noargs", Params: "", StartLine: 5},
		{Kind: "method", Name: "send", Params: "self, url", StartLine: 9},
	}

	syms := Parameters(defs)

	var names []string
	for _, s := range syms {
		assert.Equal(t, "param", s.Kind)
		names = append(names, s.Name)
	}
	// url repeats in send and is deduplicated; annotated and variadic forms
	// reduce to the bare identifier.
	assert.Equal(t, []string{"url", "timeout", "args", "kwargs", "self"}, names)
}

func TestParametersTypedForms(t *testing.T) {
	defs := []Definition{
		{Kind: "function", Name: "dial", Params: "addr string, timeout time.Duration"},
		{Kind: "function", Name: "hint", Params: "x: int, y: str = 'a'"},
	}

	syms := Parameters(defs)

	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"addr", "timeout", "x", "y"}, names)
}

func TestMergeSymbols(t *testing.T) {
	a := []Symbol{
		{Kind: "variable", Name: "count", Line: 0},
		{Kind: "import", Name: "os", Line: 1},
	}
	b := []Symbol{
		{Kind: "variable", Name: "count", Line: 7}, // duplicate, dropped
		{Kind: "param", Name: "count", Line: 3},    // different kind, kept
	}

	merged := MergeSymbols(a, b)
	require.Len(t, merged, 3)
	assert.Equal(t, 0, merged[0].Line)
	assert.Equal(t, "param", merged[2].Kind)
}

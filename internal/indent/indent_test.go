package indent

import (
	"testing"

	"github.com/dshills/langkit/internal/profile"
)

const pythonDoc = `{
  "language": "python",
  "comment": "#",
  "block_comment": [null, null],
  "indent": "    ",
  "indent_triggers": [":\\s*(#.*)?$"],
  "dedent_triggers": ["^(return|break|continue|pass|raise)\\b"],
  "definitions": {},
  "symbol_patterns": {},
  "syntax_tokens": {"plainish": ".+"},
  "suggestions_categorized": {}
}`

const braceDoc = `{
  "language": "c",
  "comment": "//",
  "block_comment": ["/*", "*/"],
  "indent": "    ",
  "indent_triggers": ["\\{\\s*$"],
  "dedent_triggers": ["^\\}"],
  "definitions": {},
  "symbol_patterns": {},
  "syntax_tokens": {"plainish": ".+"},
  "suggestions_categorized": {}
}`

func mustParse(t *testing.T, doc string) *profile.Profile {
	t.Helper()
	p, err := profile.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestEvaluatePython(t *testing.T) {
	p := mustParse(t, pythonDoc)

	tests := []struct {
		line string
		want Decision
	}{
		{"if True:", Increase},
		{"    def handler(req):", Increase},
		{"for x in xs:  # loop", Increase},
		{"    return x", Decrease},
		{"raise ValueError(msg)", Decrease},
		{"x = 1", None},
		{"", None},
		{"   \t  ", None},
		{"returning = True", None},
	}
	for _, tt := range tests {
		if got := Evaluate(tt.line, p); got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestEvaluateBraces(t *testing.T) {
	p := mustParse(t, braceDoc)

	tests := []struct {
		line string
		want Decision
	}{
		{"if (x) {", Increase},
		{"}", Decrease},
		{"x++;", None},
	}
	for _, tt := range tests {
		if got := Evaluate(tt.line, p); got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

// A line that closes one block and opens another indents the next line; the
// dedent it carries applies to the line itself.
func TestEvaluateCloseAndReopen(t *testing.T) {
	p := mustParse(t, braceDoc)

	line := "} else {"
	if got := Evaluate(line, p); got != Increase {
		t.Errorf("Evaluate(%q) = %v, want %v", line, got, Increase)
	}
	if !ClosesBlock(line, p) {
		t.Errorf("ClosesBlock(%q) = false, want true", line)
	}
	if ClosesBlock("x++;", p) {
		t.Error("ClosesBlock(\"x++;\") = true, want false")
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{None, "none"},
		{Increase, "increase"},
		{Decrease, "decrease"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

package token

import (
	"testing"

	"github.com/dshills/langkit/internal/profile"
)

const pythonDoc = `{
  "language": "python",
  "comment": "#",
  "block_comment": ["\"\"\"", "\"\"\""],
  "indent": "    ",
  "indent_triggers": [":\\s*$"],
  "dedent_triggers": ["^return\\b"],
  "definitions": {},
  "symbol_patterns": {},
  "syntax_tokens": {
    "comment": {"pattern": "#.*", "priority": 0},
    "string": {"pattern": "\"(?:[^\"\\\\]|\\\\.)*\"|'(?:[^'\\\\]|\\\\.)*'", "priority": 1},
    "keyword": {"pattern": "\\b(class|def|if|else|return|import)\\b", "priority": 2},
    "number": {"pattern": "\\b\\d+\\b", "priority": 3}
  },
  "suggestions_categorized": {}
}`

const cDoc = `{
  "language": "c",
  "comment": "//",
  "block_comment": ["/*", "*/"],
  "indent": "    ",
  "indent_triggers": ["\\{\\s*$"],
  "dedent_triggers": ["^\\}"],
  "definitions": {},
  "symbol_patterns": {},
  "syntax_tokens": {
    "comment": {"pattern": "//.*", "priority": 0},
    "string": {"pattern": "\"(?:[^\"\\\\]|\\\\.)*\"", "priority": 1},
    "keyword": {"pattern": "\\b(int|if|else|return|while)\\b", "priority": 2}
  },
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

// checkPartition verifies the tokens cover [0, len(line)) exactly once, in
// order, with text matching the underlying spans.
func checkPartition(t *testing.T, line string, tokens []Token) {
	t.Helper()
	pos := 0
	for _, tok := range tokens {
		if tok.Start != pos {
			t.Fatalf("token %+v starts at %d, want %d", tok, tok.Start, pos)
		}
		if tok.End <= tok.Start {
			t.Fatalf("token %+v has non-positive length", tok)
		}
		if tok.Text != line[tok.Start:tok.End] {
			t.Fatalf("token text = %q, want %q", tok.Text, line[tok.Start:tok.End])
		}
		pos = tok.End
	}
	if pos != len(line) {
		t.Fatalf("tokens cover [0, %d), want [0, %d)", pos, len(line))
	}
}

func TestTokenizePartition(t *testing.T) {
	p := mustParse(t, pythonDoc)

	lines := []string{
		"",
		"x = 1",
		"def foo(a, b):  # defines foo",
		`msg = "class Foo"  # not a class`,
		"   \t   ",
		"if x: return 42",
	}
	for _, line := range lines {
		tokens, _ := Tokenize(line, StateNormal, p)
		checkPartition(t, line, tokens)
	}
}

func TestTokenizeCategories(t *testing.T) {
	p := mustParse(t, pythonDoc)

	tests := []struct {
		name string
		line string
		want []Token
	}{
		{
			name: "keyword and number",
			line: "return 42",
			want: []Token{
				{Category: "keyword", Start: 0, End: 6, Text: "return"},
				{Category: "plain", Start: 6, End: 7, Text: " "},
				{Category: "number", Start: 7, End: 9, Text: "42"},
			},
		},
		{
			name: "comment to end of line",
			line: "x = 1  # x = 2",
			want: []Token{
				{Category: "plain", Start: 0, End: 4, Text: "x = "},
				{Category: "number", Start: 4, End: 5, Text: "1"},
				{Category: "plain", Start: 5, End: 7, Text: "  "},
				{Category: "comment", Start: 7, End: 14, Text: "# x = 2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, next := Tokenize(tt.line, StateNormal, p)
			if next != StateNormal {
				t.Errorf("next state = %v, want %v", next, StateNormal)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// A keyword inside a string literal must stay classified as string: the
// string category claims the span first and later categories cannot
// reclaim it.
func TestTokenizeStringClaimsKeyword(t *testing.T) {
	p := mustParse(t, pythonDoc)

	line := `x = "class Foo"`
	tokens, _ := Tokenize(line, StateNormal, p)
	checkPartition(t, line, tokens)

	for _, tok := range tokens {
		if tok.Category == "keyword" {
			t.Fatalf("keyword token %+v inside string literal", tok)
		}
		if tok.Category == "string" && tok.Text != `"class Foo"` {
			t.Errorf("string token = %q, want %q", tok.Text, `"class Foo"`)
		}
	}
}

func TestTokenizeBlockComment(t *testing.T) {
	p := mustParse(t, cDoc)

	t.Run("opened and closed on one line", func(t *testing.T) {
		line := "int x; /* note */ int y;"
		tokens, next := Tokenize(line, StateNormal, p)
		checkPartition(t, line, tokens)
		if next != StateNormal {
			t.Errorf("next state = %v, want %v", next, StateNormal)
		}
		var comment *Token
		for i := range tokens {
			if tokens[i].Category == "comment" {
				comment = &tokens[i]
			}
		}
		if comment == nil || comment.Text != "/* note */" {
			t.Fatalf("comment token = %+v, want /* note */", comment)
		}
	})

	t.Run("unterminated start flips state", func(t *testing.T) {
		line := "int x; /* begins here"
		tokens, next := Tokenize(line, StateNormal, p)
		checkPartition(t, line, tokens)
		if next != StateBlockComment {
			t.Fatalf("next state = %v, want %v", next, StateBlockComment)
		}
		last := tokens[len(tokens)-1]
		if last.Category != "comment" || last.Text != "/* begins here" {
			t.Errorf("trailing token = %+v, want comment to end of line", last)
		}
	})

	t.Run("interior line stays comment", func(t *testing.T) {
		line := "int not_code = 1;"
		tokens, next := Tokenize(line, StateBlockComment, p)
		if next != StateBlockComment {
			t.Fatalf("next state = %v, want %v", next, StateBlockComment)
		}
		if len(tokens) != 1 || tokens[0].Category != "comment" || tokens[0].Text != line {
			t.Fatalf("tokens = %v, want one comment covering the line", tokens)
		}
	})

	t.Run("closing line resumes scanning", func(t *testing.T) {
		line := "ends */ return 0;"
		tokens, next := Tokenize(line, StateBlockComment, p)
		checkPartition(t, line, tokens)
		if next != StateNormal {
			t.Fatalf("next state = %v, want %v", next, StateNormal)
		}
		if tokens[0].Category != "comment" || tokens[0].Text != "ends */" {
			t.Errorf("leading token = %+v, want comment up to the marker", tokens[0])
		}
		foundKeyword := false
		for _, tok := range tokens {
			if tok.Category == "keyword" && tok.Text == "return" {
				foundKeyword = true
			}
		}
		if !foundKeyword {
			t.Error("return after */ not classified as keyword")
		}
	})
}

func TestTokenizeDeterministic(t *testing.T) {
	p := mustParse(t, pythonDoc)
	line := `def f(x): return "x"  # 1`

	a, sa := Tokenize(line, StateNormal, p)
	b, sb := Tokenize(line, StateNormal, p)
	if sa != sb || len(a) != len(b) {
		t.Fatalf("repeated Tokenize disagrees: %v/%v vs %v/%v", a, sa, b, sb)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("token[%d] = %+v, then %+v", i, a[i], b[i])
		}
	}
}

func TestTokenizeEmptyLine(t *testing.T) {
	p := mustParse(t, pythonDoc)

	tokens, next := Tokenize("", StateNormal, p)
	if len(tokens) != 0 {
		t.Errorf("tokens = %v, want none", tokens)
	}
	if next != StateNormal {
		t.Errorf("next state = %v, want %v", next, StateNormal)
	}

	// An empty line inside a block comment keeps the state.
	_, next = Tokenize("", StateBlockComment, mustParse(t, cDoc))
	if next != StateBlockComment {
		t.Errorf("next state = %v, want %v", next, StateBlockComment)
	}
}

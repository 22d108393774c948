package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/langkit/internal/profile"
	"github.com/dshills/langkit/internal/token"
)

// categoryColors maps token categories to terminal colors. Categories a
// profile invents beyond these render unstyled.
var categoryColors = map[string]*color.Color{
	"keyword":  color.New(color.FgBlue, color.Bold),
	"type":     color.New(color.FgCyan),
	"function": color.New(color.FgCyan, color.Bold),
	"string":   color.New(color.FgGreen),
	"number":   color.New(color.FgMagenta),
	"comment":  color.New(color.FgHiBlack),
	"operator": color.New(color.FgYellow),
	"template": color.New(color.FgGreen, color.Underline),
	"regex":    color.New(color.FgRed),
}

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Tokenize a file and print its classified spans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(args[0])
		if err != nil {
			return err
		}
		defer a.close()

		lines := strings.Split(a.text, "\n")
		if asJSON {
			return printTokensJSON(a, len(lines))
		}
		return printTokensText(a, lines)
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

type tokenJSON struct {
	Line     int    `json:"line"`
	Category string `json:"category"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Text     string `json:"text"`
}

func printTokensJSON(a *analysis, lineCount int) error {
	var out []tokenJSON
	for i := 0; i < lineCount; i++ {
		tokens, err := a.engine.TokensForLine(a.bufferID, i)
		if err != nil {
			return err
		}
		for _, t := range tokens {
			out = append(out, tokenJSON{
				Line: i, Category: t.Category,
				Start: t.Start, End: t.End, Text: t.Text,
			})
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printTokensText(a *analysis, lines []string) error {
	for i := range lines {
		tokens, err := a.engine.TokensForLine(a.bufferID, i)
		if err != nil {
			return err
		}
		var sb strings.Builder
		for _, t := range tokens {
			sb.WriteString(render(t))
		}
		fmt.Println(sb.String())
	}
	return nil
}

func render(t token.Token) string {
	if t.Category == profile.PlainCategory {
		return t.Text
	}
	if c, ok := categoryColors[t.Category]; ok {
		return c.Sprint(t.Text)
	}
	return t.Text
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols FILE",
	Short: "Extract lightweight symbols (variables, parameters, imports) from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(args[0])
		if err != nil {
			return err
		}
		defer a.close()

		symbols, err := a.engine.SymbolsSnapshot(a.bufferID)
		if err != nil {
			return err
		}

		if asJSON {
			type symJSON struct {
				Kind string `json:"kind"`
				Name string `json:"name"`
				Line int    `json:"line"`
			}
			out := make([]symJSON, 0, len(symbols))
			for _, s := range symbols {
				out = append(out, symJSON{Kind: s.Kind, Name: s.Name, Line: s.Line})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		kindColor := color.New(color.FgBlue)
		for _, s := range symbols {
			fmt.Printf("%d\t%s %s\n", s.Line+1, kindColor.Sprint(s.Kind), s.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}

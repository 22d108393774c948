package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var defsCmd = &cobra.Command{
	Use:   "defs FILE",
	Short: "Extract definitions (functions, classes, methods) from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(args[0])
		if err != nil {
			return err
		}
		defer a.close()

		defs, err := a.engine.DefinitionsSnapshot(a.bufferID)
		if err != nil {
			return err
		}

		if asJSON {
			type defJSON struct {
				Kind      string `json:"kind"`
				Name      string `json:"name"`
				Params    string `json:"params,omitempty"`
				StartLine int    `json:"start_line"`
				EndLine   int    `json:"end_line"`
			}
			out := make([]defJSON, 0, len(defs))
			for _, d := range defs {
				out = append(out, defJSON{
					Kind: d.Kind, Name: d.Name, Params: d.Params,
					StartLine: d.StartLine, EndLine: d.EndLine,
				})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		kindColor := color.New(color.FgBlue)
		nameColor := color.New(color.Bold)
		for _, d := range defs {
			loc := fmt.Sprintf("%d", d.StartLine+1)
			if d.EndLine > d.StartLine {
				loc = fmt.Sprintf("%d-%d", d.StartLine+1, d.EndLine+1)
			}
			fmt.Printf("%s\t%s %s(%s)\n",
				loc, kindColor.Sprint(d.Kind), nameColor.Sprint(d.Name), d.Params)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(defsCmd)
}

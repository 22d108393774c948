package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest FILE [PREFIX]",
	Short: "Print ranked completion candidates for a typed prefix",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(args[0])
		if err != nil {
			return err
		}
		defer a.close()

		prefix := ""
		if len(args) == 2 {
			prefix = args[1]
		}

		candidates, err := a.engine.CurrentSuggestions(a.bufferID, prefix)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(candidates)
		}
		for _, c := range candidates {
			fmt.Println(c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

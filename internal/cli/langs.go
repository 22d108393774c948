package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/langkit/internal/profile"
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "List every language with a loadable profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		registry := profile.NewRegistry(
			profile.WithDir(profilesDir),
			profile.WithLogger(logger),
		)

		langs := registry.Languages()
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(langs)
		}
		for _, id := range langs {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(langsCmd)
}

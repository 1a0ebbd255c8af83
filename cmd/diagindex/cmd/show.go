package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"diagindex/internal/application/commands"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the indexed record of a file",
	Long: `Print the stored record of one file as JSON. The path must match the
key in the index, which is the scanned directory joined with the file's
relative path.

Examples:
  diagindex show docs/login.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		rec, err := commands.NewShowCommand(store, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"diagindex/internal/application"
	"diagindex/internal/application/commands"
	"diagindex/internal/domain"
)

var findFormat string

var findCmd = &cobra.Command{
	Use:   "find <id>",
	Short: "Find where a node identifier appears",
	Long: `Look up a node identifier in the stored index. Canvas nodes, sequence
participants and flowchart nodes are matched exactly and case-sensitively.

Examples:
  diagindex find Api
  diagindex find Api --format json
  diagindex find Api --store sqlite --output diagram-index.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.ValidateOneOf("format", findFormat, "text", "json", "yaml"); err != nil {
			return err
		}

		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		results, err := commands.NewFindCommand(store, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		return printLocations(results, findFormat)
	},
}

func printLocations(results []domain.Location, format string) error {
	if results == nil {
		results = []domain.Location{}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)

	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()

	default:
		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}
		for _, loc := range results {
			fmt.Println(loc.String())
		}
		return nil
	}
}

func init() {
	findCmd.Flags().StringVarP(&findFormat, "format", "f", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(findCmd)
}

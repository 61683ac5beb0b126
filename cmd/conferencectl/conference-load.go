package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmcoe-ai1/conference-app/pkg/seed"
)

// conferenceLoadCmd represents the conference load command
var conferenceLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a conference definition file",
	Long: `Load a YAML conference definition.

The conference is created, or updated when its url_code already exists for
the same owner. Surveys are matched by title. Questions of a survey are only
replaced while it has no responses.

Example:
  conferencectl conference load gophercon.yml
  conferencectl conference load --dry-run gophercon.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		database, err := connectDB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load conference: %v\n", err)
			os.Exit(1)
		}

		result, err := seed.NewLoader(database).WithDryRun(dryRun).LoadFile(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load conference: %v\n", err)
			os.Exit(1)
		}

		// Output result as JSON
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	conferenceCmd.AddCommand(conferenceLoadCmd)
	conferenceLoadCmd.Flags().Bool("dry-run", false, "validate the definition and roll back")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// conferenceCmd represents the conference command
var conferenceCmd = &cobra.Command{
	Use:   "conference",
	Short: "Manage conference definitions",
	Long:  `Load YAML conference definitions with their surveys and questions.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'conference' requires a subcommand (load, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(conferenceCmd)
}

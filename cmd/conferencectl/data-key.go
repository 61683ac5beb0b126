package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// dataKeyCmd represents the data-key command
var dataKeyCmd = &cobra.Command{
	Use:   "data-key",
	Short: "Manage the data encryption key",
	Long:  `Manage the key that encrypts queued attendee passwords.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'data-key' requires a subcommand generate")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(dataKeyCmd)
}

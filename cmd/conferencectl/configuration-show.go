package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmcoe-ai1/conference-app/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration attributes and their sources",
	Long: `Show configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, the environment variables and the config file. They
may not reflect the values used by a running server. Secrets are masked.

Config file location: /etc/conference/conference.yml (or CONFERENCE_CONFIG_PATH)

Example:
  conferencectl configuration show
  conferencectl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(os.Stdout, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

// configurationValidateCmd represents the configuration validate command
var configurationValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration the server would start with",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err == nil {
			err = cfg.ValidateServer()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration is invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration is valid (config file: %s)\n", cfg.ConfigFilePath())
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationCmd.AddCommand(configurationValidateCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(w io.Writer, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch output {
	case "json":
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, jsonOutput)
		return err
	case "text", "":
		_, err = fmt.Fprint(w, cfg.FormatText())
		return err
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

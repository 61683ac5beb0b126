package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "conferencectl",
	Short: "Conference survey server and administration tool",
	Long: `Run the conference survey server and manage its database, admins and
conference definitions.

Settings are read from the environment, an optional .env file in the working
directory and $CONFERENCE_CONFIG_PATH/conference.yml.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", envFile).Msg("could not load env file")
		}
		setupLogging(os.Getenv("LOG_LEVEL"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "file of environment variables to load")
}

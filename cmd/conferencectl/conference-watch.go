package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pmcoe-ai1/conference-app/pkg/seed"
)

// conferenceWatchCmd represents the conference watch command
var conferenceWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a definition file and reload it when it changes",
	Long: `Watch a conference definition file and load it whenever it is written
or replaced. The file is loaded once on start.

Example:
  conferencectl conference watch /run/conference/gophercon.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database, err := connectDB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch conference: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := watchDefinition(ctx, seed.NewLoader(database), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch conference: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	conferenceCmd.AddCommand(conferenceWatchCmd)
}

// definitionLoader is satisfied by *seed.Loader
type definitionLoader interface {
	LoadFile(ctx context.Context, path string) (*seed.Result, error)
}

// watchDefinition loads filename now and after every change until ctx ends.
// The parent directory is watched so editors that replace the file by
// renaming are picked up too.
func watchDefinition(ctx context.Context, loader definitionLoader, filename string) error {
	filename = filepath.Clean(filename)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	log.Info().Str("file", filename).Msg("watching conference definition")
	reload(ctx, loader, filename)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload(ctx, loader, filename)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		case <-ctx.Done():
			log.Info().Msg("stopped watching")
			return nil
		}
	}
}

func reload(ctx context.Context, loader definitionLoader, filename string) {
	result, err := loader.LoadFile(ctx, filename)
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("failed to load conference definition")
		return
	}
	log.Info().
		Str("file", filename).
		Uint("conference_id", result.ConferenceID).
		Str("url_code", result.URLCode).
		Int("surveys_created", result.SurveysCreated).
		Int("surveys_updated", result.SurveysUpdated).
		Msg("conference definition loaded")
}

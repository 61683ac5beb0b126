package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pmcoe-ai1/conference-app/pkg/delivery"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued attendee passwords",
	Long: `Run the password delivery worker without the API server.

Use this together with "conferencectl server --no-worker" to deliver emails
from a separate process. Every poll also picks up due rows of the
password_queue table, so the processes do not need to share REDIS_URL.
Pending deliveries are re-queued on start.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWorker(); err != nil {
			fmt.Fprintf(os.Stderr, "Worker failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cipher, err := loadCipher()
	if err != nil {
		return err
	}
	database, err := connectDB()
	if err != nil {
		return err
	}
	stores, deliveries := newStores(database)

	deps, err := newDeliveryDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.queue.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := delivery.NewWorker(delivery.Stores{
		Deliveries:  deliveries,
		Attendees:   stores.Attendees,
		Conferences: stores.Conferences,
	}, deps.queue, cipher, deps.mailer, deps.templates, workerConfig(cfg))
	return worker.Run(ctx)
}

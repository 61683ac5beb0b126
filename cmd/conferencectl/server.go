package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator/authn"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator/authn_attendee"
	"github.com/pmcoe-ai1/conference-app/pkg/config"
	"github.com/pmcoe-ai1/conference-app/pkg/delivery"
	"github.com/pmcoe-ai1/conference-app/pkg/mailer"
	"github.com/pmcoe-ai1/conference-app/pkg/queue"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/endpoints"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the conference API server",
	Long: `Run the conference API server.

The server requires the environment variables DATA_KEY, DATABASE_URL and
JWT_SECRET. Password emails are delivered by a worker running in the same
process unless --no-worker is given.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		noWorker, _ := cmd.Flags().GetBool("no-worker")

		if err := runServer(host, port, !noMigrate, !noWorker); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("no-worker", false, "do not deliver password emails from this process")
}

// deliveryDeps are shared by the server and the standalone worker
type deliveryDeps struct {
	queue     queue.Queue
	mailer    mailer.Mailer
	templates *mailer.Templates
}

func newDeliveryDeps(cfg *config.ConferenceConfig) (*deliveryDeps, error) {
	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	m, err := mailer.New(cfg)
	if err != nil {
		_ = q.Close()
		return nil, err
	}
	templates, err := mailer.NewTemplates()
	if err != nil {
		_ = q.Close()
		return nil, err
	}
	return &deliveryDeps{queue: q, mailer: m, templates: templates}, nil
}

func newAuthenticators(cfg *config.ConferenceConfig, stores server.Stores) *authenticator.Registry {
	registry := authenticator.NewRegistry()
	registry.Register(authn.New(stores.Admins))
	registry.Register(authn_attendee.New(stores.Conferences, stores.Attendees, auth.Policy{
		MaxAttempts: cfg.MaxLoginAttempts,
		Duration:    cfg.LockoutDuration(),
	}))
	_ = registry.Enable(authenticator.Admin)
	_ = registry.Enable(authenticator.Attendee)
	return registry
}

func runServer(host, port string, migrateFirst, withWorker bool) error {
	// Validate required settings first (fail fast)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	cipher, err := loadCipher()
	if err != nil {
		return err
	}

	if migrateFirst {
		log.Info().Msg("running database migrations")
		if err := runMigrations(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
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

	s := server.NewServer(server.Options{
		Config:         cfg,
		DB:             database,
		Stores:         stores,
		Tokens:         auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL()),
		Authenticators: newAuthenticators(cfg, stores),
		Passwords:      delivery.NewService(deliveries, deps.queue, cipher, cfg.DeliveryDelay()),
		Mailer:         deps.mailer,
		Templates:      deps.templates,
	}, host, port)
	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan error, 1)
	if withWorker {
		worker := delivery.NewWorker(delivery.Stores{
			Deliveries:  deliveries,
			Attendees:   stores.Attendees,
			Conferences: stores.Conferences,
		}, deps.queue, cipher, deps.mailer, deps.templates, workerConfig(cfg))
		go func() { workerDone <- worker.Run(ctx) }()
	} else {
		close(workerDone)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("running server at http://%s:%s", host, port)
		serveErr <- s.Start()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	stop()
	if err := <-workerDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func workerConfig(cfg *config.ConferenceConfig) delivery.WorkerConfig {
	return delivery.WorkerConfig{
		MaxAttempts: cfg.PasswordDeliveryMaxAttempts,
		Backoff:     cfg.DeliveryBackoff(),
		FrontendURL: cfg.FrontendURL,
	}
}

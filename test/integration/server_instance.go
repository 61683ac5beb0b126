package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator/authn"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator/authn_attendee"
	"github.com/pmcoe-ai1/conference-app/pkg/config"
	"github.com/pmcoe-ai1/conference-app/pkg/delivery"
	"github.com/pmcoe-ai1/conference-app/pkg/mailer"
	"github.com/pmcoe-ai1/conference-app/pkg/queue"
	"github.com/pmcoe-ai1/conference-app/pkg/secretbox"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/endpoints"
	gormstore "github.com/pmcoe-ai1/conference-app/pkg/server/store/gorm"
)

// ServerInstance is a running conference server, either in-process or a
// conferencectl child process.
type ServerInstance struct {
	inline *server.Server
	queue  queue.Queue
	cancel context.CancelFunc
	done   chan error
}

// testConfig mirrors the environment binary mode passes to conferencectl
func testConfig() *config.ConferenceConfig {
	cfg := config.NewDefault()
	cfg.JWTSecret = testJWTSecret
	cfg.MaxLoginAttempts = testMaxLoginAttempts
	cfg.PasswordDeliveryDelaySeconds = int(testDeliveryDelay.Seconds())
	cfg.EmailProvider = "log"
	return cfg
}

// StartInlineServer wires the server in-process the way conferencectl does
func StartInlineServer(db *gorm.DB, cipher secretbox.Cipher, port string) (*ServerInstance, error) {
	cfg := testConfig()

	admins := gormstore.NewAdminsStore(db)
	surveys := gormstore.NewSurveysStore(db)
	stores := server.Stores{
		Admins:         admins,
		PasswordResets: admins,
		Conferences:    gormstore.NewConferencesStore(db),
		Surveys:        surveys,
		Questions:      surveys,
		Attendees:      gormstore.NewAttendeesStore(db),
		Responses:      gormstore.NewResponsesStore(db),
		Health:         gormstore.NewHealthStore(db),
	}

	registry := authenticator.NewRegistry()
	registry.Register(authn.New(stores.Admins))
	registry.Register(authn_attendee.New(stores.Conferences, stores.Attendees, auth.Policy{
		MaxAttempts: cfg.MaxLoginAttempts,
		Duration:    cfg.LockoutDuration(),
	}))
	_ = registry.Enable(authenticator.Admin)
	_ = registry.Enable(authenticator.Attendee)

	templates, err := mailer.NewTemplates()
	if err != nil {
		return nil, err
	}
	q := queue.NewMemory()

	s := server.NewServer(server.Options{
		Config:         cfg,
		DB:             db,
		Stores:         stores,
		Tokens:         auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL()),
		Authenticators: registry,
		Passwords:      delivery.NewService(gormstore.NewDeliveriesStore(db), q, cipher, cfg.DeliveryDelay()),
		Mailer:         mailer.LogMailer{},
		Templates:      templates,
	}, "127.0.0.1", port)
	endpoints.RegisterAll(s)

	instance := &ServerInstance{inline: s, queue: q, done: make(chan error, 1)}
	go func() {
		instance.done <- s.Start()
	}()
	return instance, nil
}

// StartBinaryServer runs `conferencectl server` against the test database
func StartBinaryServer(binaryPath, dbURL, dataKey, port string) (*ServerInstance, error) {
	ctx, cancel := context.WithCancel(context.Background())
	cmd, err := binaryCommand(ctx, binaryPath, dbURL, dataKey, port)
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{cancel: cancel, done: make(chan error, 1)}
	go func() {
		instance.done <- cmd.Wait()
	}()
	return instance, nil
}

// Stop shuts the server down and waits for it to exit
func (si *ServerInstance) Stop() {
	if si.inline != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = si.inline.Shutdown(ctx)
		_ = si.queue.Close()
	}
	if si.cancel != nil {
		si.cancel()
	}

	select {
	case err := <-si.done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("server exited: %v\n", err)
		}
	case <-time.After(5 * time.Second):
	}
}

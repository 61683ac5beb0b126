package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/config"
	"github.com/pmcoe-ai1/conference-app/pkg/mailer"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/realtime"
	"github.com/pmcoe-ai1/conference-app/pkg/server/middleware"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// PasswordScheduler queues generated attendee passwords for delivery.
// *delivery.Service implements it.
type PasswordScheduler interface {
	Schedule(ctx context.Context, attendee *model.Attendee, password string) (*model.PasswordQueue, error)
	Reschedule(ctx context.Context, attendee *model.Attendee, password string) (*model.PasswordQueue, error)
}

// Stores groups the storage backends used by the endpoints
type Stores struct {
	Admins         store.AdminsStore
	PasswordResets store.PasswordResetsStore
	Conferences    store.ConferencesStore
	Surveys        store.SurveysStore
	Questions      store.QuestionsStore
	Attendees      store.AttendeesStore
	Responses      store.ResponsesStore
	Health         store.HealthStore
}

type Server struct {
	Config         *config.ConferenceConfig
	Router         *mux.Router
	DB             *gorm.DB
	Tokens         *auth.TokenIssuer
	Authenticators *authenticator.Registry
	JWTMiddleware  *middleware.JWTAuthenticator
	Hub            *realtime.Hub
	Passwords      PasswordScheduler
	Mailer         mailer.Mailer
	Templates      *mailer.Templates

	// Store interfaces for dependency injection
	AdminsStore         store.AdminsStore
	PasswordResetsStore store.PasswordResetsStore
	ConferencesStore    store.ConferencesStore
	SurveysStore        store.SurveysStore
	QuestionsStore      store.QuestionsStore
	AttendeesStore      store.AttendeesStore
	ResponsesStore      store.ResponsesStore
	HealthStore         store.HealthStore

	srv *http.Server
}

// Options carries the collaborators NewServer wires together
type Options struct {
	Config         *config.ConferenceConfig
	DB             *gorm.DB
	Stores         Stores
	Tokens         *auth.TokenIssuer
	Authenticators *authenticator.Registry
	Passwords      PasswordScheduler
	Mailer         mailer.Mailer
	Templates      *mailer.Templates
}

func NewServer(opts Options, host string, port string) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefault()
	}

	router := mux.NewRouter().UseEncodedPath()

	s := &Server{
		Config:         cfg,
		Router:         router,
		DB:             opts.DB,
		Tokens:         opts.Tokens,
		Authenticators: opts.Authenticators,
		JWTMiddleware:  middleware.NewJWTAuthenticator(opts.Tokens),
		Passwords:      opts.Passwords,
		Mailer:         opts.Mailer,
		Templates:      opts.Templates,

		AdminsStore:         opts.Stores.Admins,
		PasswordResetsStore: opts.Stores.PasswordResets,
		ConferencesStore:    opts.Stores.Conferences,
		SurveysStore:        opts.Stores.Surveys,
		QuestionsStore:      opts.Stores.Questions,
		AttendeesStore:      opts.Stores.Attendees,
		ResponsesStore:      opts.Stores.Responses,
		HealthStore:         opts.Stores.Health,
	}
	s.Hub = realtime.NewHub(s.joinConference, cfg.CORSOrigins)

	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
	}
	if len(cfg.CORSOrigins) > 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedOrigins(cfg.CORSOrigins),
			handlers.AllowCredentials(),
		)
	}

	s.srv = &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, handlers.ProxyHeaders(handlers.CORS(corsOptions...)(router))),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler, as served by Start
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests and closes websocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.Hub.Close()
	return s.srv.Shutdown(ctx)
}

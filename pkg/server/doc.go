// Package server provides the HTTP server for the conference survey API.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logging,
// proxy headers and CORS. Handlers reach storage through the store
// interfaces held on Server, so they can be tested with mocks.
//
// # Server Setup
//
//	srv := server.NewServer(server.Options{
//	    Config: cfg,
//	    DB:     db,
//	    Stores: stores,
//	    Tokens: auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL()),
//	    ...
//	}, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection
//   - Tokens, JWTMiddleware: bearer token issuing and validation
//   - Authenticators: admin and attendee password authenticators
//   - Hub: websocket rooms, one per conference
//   - Passwords: delayed delivery of generated attendee passwords
//   - Mailer, Templates: admin password reset emails
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - /api/auth/* - organizer accounts
//   - /api/attendees/* - attendee registration, login and management
//   - /api/conferences/* - conferences, QR codes and statistics
//   - /api/surveys/*, /api/questions/* - survey authoring
//   - /api/responses - survey submission
//   - /api/export/* - CSV and PDF exports
//   - /ws - live updates
package server

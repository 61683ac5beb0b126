package endpoints

import (
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// Version is overridden at build time with -ldflags "-X ...endpoints.Version=..."
var Version = "0.1.0"

// StatusResponse is returned by GET /
type StatusResponse struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Authenticators []string `json:"authenticators"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.Authenticators)).Methods("GET")

	// GET /api/health - Database connectivity (no auth required)
	s.Router.HandleFunc("/api/health", handleHealth(s.HealthStore)).Methods("GET")
}

func handleStatus(registry *authenticator.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("CONFERENCE_VERSION_DISPLAY")
		if version == "" {
			version = Version
		}

		enabled := []string{}
		if registry != nil {
			enabled = registry.Enabled()
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{
			Name:           "conference-app",
			Version:        version,
			Authenticators: enabled,
		})
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

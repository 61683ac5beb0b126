package endpoints

import (
	"net/http"

	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/middleware"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthEndpoints(srv)
	RegisterAttendeesEndpoints(srv)
	RegisterConferencesEndpoints(srv)
	RegisterSurveysEndpoints(srv)
	RegisterQuestionsEndpoints(srv)
	RegisterResponsesEndpoints(srv)
	RegisterStatisticsEndpoints(srv)
	RegisterExportEndpoints(srv)
	RegisterWebSocketEndpoint(srv)
}

// adminOnly wraps h with token validation and an admin role check
func adminOnly(s *server.Server, h http.HandlerFunc) http.Handler {
	return s.JWTMiddleware.Middleware(middleware.RequireAdmin(h))
}

// attendeeOnly wraps h with token validation and an attendee role check
func attendeeOnly(s *server.Server, h http.HandlerFunc) http.Handler {
	return s.JWTMiddleware.Middleware(middleware.RequireAttendee(h))
}

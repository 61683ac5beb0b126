package endpoints

import (
	"net/http"

	"github.com/pmcoe-ai1/conference-app/pkg/server"
)

// RegisterWebSocketEndpoint registers /ws. Browsers cannot set headers on
// a websocket handshake, so the token travels in the query string.
func RegisterWebSocketEndpoint(s *server.Server) {
	s.Router.HandleFunc("/ws", handleWebSocket(s)).Methods("GET")
}

func handleWebSocket(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "token missing")
			return
		}
		id, err := s.JWTMiddleware.Authenticate(token, r)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		s.Hub.Serve(w, r, id)
	}
}

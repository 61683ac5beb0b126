package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"regexp"

	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/identity"
)

var tokenRegex = regexp.MustCompile(`^Bearer\s+(\S+)$`)

// JWTAuthenticator is middleware that validates bearer tokens
type JWTAuthenticator struct {
	Tokens *auth.TokenIssuer
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(tokens *auth.TokenIssuer) *JWTAuthenticator {
	return &JWTAuthenticator{Tokens: tokens}
}

// ClientIP returns the request's remote address without the port
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the caller's identity in the request context.
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			unauthorized(w, "Authorization missing")
			return
		}

		tokenMatches := tokenRegex.FindStringSubmatch(authHeader)

		if len(tokenMatches) != 2 {
			unauthorized(w, "Malformed authorization header")
			return
		}

		id, err := j.Authenticate(tokenMatches[1], r)
		if err != nil {
			unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// Authenticate verifies a raw token and attaches the caller's address
func (j *JWTAuthenticator) Authenticate(token string, r *http.Request) (*identity.Identity, error) {
	id, err := j.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return id.WithRemoteIP(net.ParseIP(ClientIP(r))), nil
}

// RequireRole rejects authenticated callers with another role
func RequireRole(role identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok {
				unauthorized(w, "Authorization missing")
				return
			}
			if id.Role != role {
				writeError(w, http.StatusForbidden, string(role)+" access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin only lets organizers through
var RequireAdmin = RequireRole(identity.RoleAdmin)

// RequireAttendee only lets attendees through
var RequireAttendee = RequireRole(identity.RoleAttendee)

func unauthorized(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusUnauthorized, msg)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

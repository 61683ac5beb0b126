package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/identity"
)

const testSecret = "middleware-test-secret"

func issue(t *testing.T, id *identity.Identity) string {
	token, _, err := auth.NewTokenIssuer(testSecret, time.Hour).Issue(id)
	require.NoError(t, err)
	return token
}

func TestNewJWTAuthenticator(t *testing.T) {
	tokens := auth.NewTokenIssuer(testSecret, time.Hour)
	a := NewJWTAuthenticator(tokens)
	assert.NotNil(t, a)
	assert.Same(t, tokens, a.Tokens)
}

func TestMiddleware_MissingAuthorization(t *testing.T) {
	a := NewJWTAuthenticator(auth.NewTokenIssuer(testSecret, time.Hour))

	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authorization missing"}`, rec.Body.String())
}

func TestMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	a := NewJWTAuthenticator(auth.NewTokenIssuer(testSecret, time.Hour))

	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"random string", "something random"},
		{"empty bearer", "Bearer "},
		{"token scheme", `Token token="abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Malformed authorization header")
		})
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	a := NewJWTAuthenticator(auth.NewTokenIssuer(testSecret, time.Hour))

	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	other, _, err := auth.NewTokenIssuer("another-secret", time.Hour).Issue(identity.NewAdmin(1, "a@example.com"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not.a.jwt",
		"wrong secret": other,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid or expired token")
		})
	}
}

func TestMiddleware_SetsIdentity(t *testing.T) {
	a := NewJWTAuthenticator(auth.NewTokenIssuer(testSecret, time.Hour))
	token := issue(t, identity.NewAttendee(40, 7, "sam@example.com"))

	var got *identity.Identity
	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, identity.RoleAttendee, got.Role)
	assert.Equal(t, uint(40), got.ID)
	assert.Equal(t, uint(7), got.ConferenceID)
	assert.Equal(t, "10.1.2.3", got.RemoteIP.String())
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		guard    func(http.Handler) http.Handler
		id       *identity.Identity
		expected int
	}{
		{"admin allowed", RequireAdmin, identity.NewAdmin(1, "a@example.com"), http.StatusOK},
		{"attendee rejected by admin guard", RequireAdmin, identity.NewAttendee(2, 3, "b@example.com"), http.StatusForbidden},
		{"attendee allowed", RequireAttendee, identity.NewAttendee(2, 3, "b@example.com"), http.StatusOK},
		{"admin rejected by attendee guard", RequireAttendee, identity.NewAdmin(1, "a@example.com"), http.StatusForbidden},
		{"anonymous", RequireAdmin, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.id != nil {
				req = req.WithContext(identity.Set(req.Context(), tt.id))
			}
			rec := httptest.NewRecorder()

			tt.guard(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", ClientIP(req))
}

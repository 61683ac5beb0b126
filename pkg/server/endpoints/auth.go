package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/identity"
	"github.com/pmcoe-ai1/conference-app/pkg/mailer"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/middleware"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

const forgotPasswordMessage = "If an account exists for this email, a reset link has been sent."

type adminRegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AdminAuthResponse is returned by admin register and login
type AdminAuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Admin     *model.Admin `json:"admin"`
}

// RegisterAuthEndpoints registers the organizer account endpoints
func RegisterAuthEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/auth").Subrouter()

	r.HandleFunc("/register", handleAdminRegister(s.AdminsStore, s.Tokens)).Methods("POST")
	r.HandleFunc("/login", handleAdminLogin(s.Authenticators, s.AdminsStore, s.Tokens)).Methods("POST")
	r.HandleFunc("/forgot-password", handleForgotPassword(s)).Methods("POST")
	r.HandleFunc("/reset-password", handleResetPassword(s.PasswordResetsStore)).Methods("POST")
	r.Handle("/me", adminOnly(s, handleAdminMe(s.AdminsStore))).Methods("GET")
}

func handleAdminRegister(admins store.AdminsStore, tokens *auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminRegisterRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondWithStoreError(w, err, "admin")
			return
		}
		admin := &model.Admin{
			Email:        model.NormalizeEmail(req.Email),
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: hash,
		}
		if err := admins.CreateAdmin(r.Context(), admin); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respondWithError(w, http.StatusConflict, "an account with this email already exists")
				return
			}
			respondWithStoreError(w, err, "admin")
			return
		}

		respondWithAdminToken(w, http.StatusCreated, tokens, admin)
	}
}

func handleAdminLogin(registry *authenticator.Registry, admins store.AdminsStore, tokens *auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminLoginRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		id, err := registry.Authenticate(r.Context(), authenticator.Admin, authenticator.Input{
			Email:    req.Email,
			Password: req.Password,
			ClientIP: middleware.ClientIP(r),
		})
		var failed *authenticator.FailedError
		switch {
		case errors.As(err, &failed):
			respondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		case errors.Is(err, authenticator.ErrNotEnabled):
			respondWithError(w, http.StatusForbidden, "admin login is disabled")
			return
		case err != nil:
			respondWithStoreError(w, err, "admin")
			return
		}

		admin, err := admins.GetAdmin(r.Context(), id.ID)
		if err != nil {
			respondWithStoreError(w, err, "admin")
			return
		}
		respondWithAdminToken(w, http.StatusOK, tokens, admin)
	}
}

func respondWithAdminToken(w http.ResponseWriter, code int, tokens *auth.TokenIssuer, admin *model.Admin) {
	token, expiresAt, err := tokens.Issue(identity.NewAdmin(admin.ID, admin.Email))
	if err != nil {
		respondWithStoreError(w, err, "token")
		return
	}
	respondWithJSON(w, code, AdminAuthResponse{Token: token, ExpiresAt: expiresAt, Admin: admin})
}

func handleAdminMe(admins store.AdminsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, err := admins.GetAdmin(r.Context(), caller(r).ID)
		if err != nil {
			respondWithStoreError(w, err, "admin")
			return
		}
		respondWithJSON(w, http.StatusOK, admin)
	}
}

// handleForgotPassword always answers 200 so it cannot be used to probe
// which emails have accounts.
func handleForgotPassword(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		email := model.NormalizeEmail(req.Email)

		admin, err := s.AdminsStore.FindAdminByEmail(r.Context(), email)
		switch {
		case errors.Is(err, store.ErrNotFound):
			audit.Log(audit.PasswordEvent{
				Subject:      email,
				ClientIP:     middleware.ClientIP(r),
				Operation:    audit.PasswordResetRequest,
				ErrorMessage: "unknown email",
			})
			respondWithJSON(w, http.StatusOK, map[string]string{"message": forgotPasswordMessage})
			return
		case err != nil:
			respondWithStoreError(w, err, "admin")
			return
		}

		token, hash, err := auth.NewResetToken()
		if err != nil {
			respondWithStoreError(w, err, "password reset")
			return
		}
		reset := &model.PasswordReset{
			AdminID:   admin.ID,
			TokenHash: hash,
			ExpiresAt: time.Now().Add(s.Config.PasswordResetTTL()),
		}
		if err := s.PasswordResetsStore.CreatePasswordReset(r.Context(), reset); err != nil {
			respondWithStoreError(w, err, "password reset")
			return
		}

		msg, err := s.Templates.PasswordReset(admin.Email, mailer.PasswordResetData{
			Name:     admin.Name,
			ResetURL: strings.TrimRight(s.Config.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token),
			ValidFor: fmt.Sprintf("%d minutes", s.Config.PasswordResetTTLMinutes),
		})
		if err == nil {
			err = s.Mailer.Send(r.Context(), msg)
		}
		if err != nil {
			log.Error().Err(err).Uint("admin_id", admin.ID).Msg("failed to send password reset email")
		}

		audit.Log(audit.PasswordEvent{
			Subject:   admin.Email,
			ClientIP:  middleware.ClientIP(r),
			Operation: audit.PasswordResetRequest,
			Success:   err == nil,
		})
		respondWithJSON(w, http.StatusOK, map[string]string{"message": forgotPasswordMessage})
	}
}

func handleResetPassword(resets store.PasswordResetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		now := time.Now()
		reset, err := resets.FindPasswordReset(r.Context(), auth.HashResetToken(req.Token))
		if errors.Is(err, store.ErrNotFound) || (err == nil && !reset.Usable(now)) {
			respondWithError(w, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		if err != nil {
			respondWithStoreError(w, err, "password reset")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondWithStoreError(w, err, "password reset")
			return
		}
		if err := resets.RedeemPasswordReset(r.Context(), reset, hash, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusBadRequest, "invalid or expired reset token")
				return
			}
			respondWithStoreError(w, err, "password reset")
			return
		}

		audit.Log(audit.PasswordEvent{
			Subject:   identity.Subject(identity.RoleAdmin, reset.AdminID),
			ClientIP:  middleware.ClientIP(r),
			Operation: audit.PasswordReset,
			Success:   true,
		})
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset."})
	}
}

package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/middleware"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

const registeredMessage = "Registration successful. Your password will be emailed to you shortly."

type attendeeRegisterRequest struct {
	URLCode string `json:"urlCode" validate:"required,max=16"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Name    string `json:"name" validate:"required,max=255"`
}

type attendeeLoginRequest struct {
	URLCode  string `json:"urlCode" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// AttendeeAuthResponse is returned by a successful attendee login
type AttendeeAuthResponse struct {
	Token                  string          `json:"token"`
	ExpiresAt              time.Time       `json:"expiresAt"`
	Attendee               *model.Attendee `json:"attendee"`
	RequiresPasswordChange bool            `json:"requiresPasswordChange"`
}

// RegisterAttendeesEndpoints registers attendee self-service and the
// organizer's attendee management endpoints
func RegisterAttendeesEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api").Subrouter()

	r.HandleFunc("/attendees/register", handleAttendeeRegister(s.ConferencesStore, s.AttendeesStore, s.Passwords)).Methods("POST")
	r.HandleFunc("/attendees/login", handleAttendeeLogin(s)).Methods("POST")
	r.Handle("/attendees/me", attendeeOnly(s, handleAttendeeMe(s.AttendeesStore))).Methods("GET")
	r.Handle("/attendees/change-password", attendeeOnly(s, handleChangePassword(s.AttendeesStore, lockoutPolicy(s)))).Methods("POST")

	r.Handle("/conferences/{id:[0-9]+}/attendees", adminOnly(s, handleListAttendees(s.ConferencesStore, s.AttendeesStore))).Methods("GET")
	r.Handle("/attendees/{id:[0-9]+}/unlock", adminOnly(s, handleUnlockAttendee(s.ConferencesStore, s.AttendeesStore))).Methods("POST")
	r.Handle("/attendees/{id:[0-9]+}/resend-password", adminOnly(s, handleResendPassword(s.ConferencesStore, s.AttendeesStore, s.Passwords))).Methods("POST")
	r.Handle("/attendees/{id:[0-9]+}", adminOnly(s, handleDeleteAttendee(s.ConferencesStore, s.AttendeesStore))).Methods("DELETE")
}

func handleAttendeeRegister(conferences store.ConferencesStore, attendees store.AttendeesStore, passwords server.PasswordScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req attendeeRegisterRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		conference, err := conferences.FindConferenceByURLCode(r.Context(), model.NormalizeURLCode(req.URLCode))
		if errors.Is(err, store.ErrNotFound) || (err == nil && !conference.IsActive) {
			respondWithError(w, http.StatusNotFound, "conference not found")
			return
		}
		if err != nil {
			respondWithStoreError(w, err, "conference")
			return
		}

		password, err := auth.GeneratePassword()
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}

		attendee := &model.Attendee{
			ConferenceID: conference.ID,
			Email:        model.NormalizeEmail(req.Email),
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: hash,
			Status:       model.AttendeeStatusFirstLogin,
		}
		if err := attendees.CreateAttendee(r.Context(), attendee); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respondWithError(w, http.StatusConflict, "this email is already registered for the conference")
				return
			}
			respondWithStoreError(w, err, "attendee")
			return
		}

		// The attendee exists at this point; a scheduling failure is left to
		// the organizer's resend rather than failing the registration.
		if _, err := passwords.Schedule(r.Context(), attendee, password); err != nil {
			log.Error().Err(err).Uint("attendee_id", attendee.ID).Msg("failed to schedule password delivery")
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"attendee": attendee,
			"message":  registeredMessage,
		})
	}
}

func handleAttendeeLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req attendeeLoginRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		id, err := s.Authenticators.Authenticate(r.Context(), authenticator.Attendee, authenticator.Input{
			URLCode:  req.URLCode,
			Email:    req.Email,
			Password: req.Password,
			ClientIP: middleware.ClientIP(r),
		})
		var (
			failed *authenticator.FailedError
			locked *auth.LockedError
		)
		switch {
		case errors.As(err, &locked):
			respondLocked(w, locked)
			return
		case errors.As(err, &failed):
			body := map[string]interface{}{"error": "invalid credentials"}
			if failed.Remaining >= 0 {
				body["remainingAttempts"] = failed.Remaining
			}
			respondWithJSON(w, http.StatusUnauthorized, body)
			return
		case errors.Is(err, authenticator.ErrNotEnabled):
			respondWithError(w, http.StatusForbidden, "attendee login is disabled")
			return
		case err != nil:
			respondWithStoreError(w, err, "attendee")
			return
		}

		attendee, err := s.AttendeesStore.GetAttendee(r.Context(), id.ID)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}
		token, expiresAt, err := s.Tokens.Issue(id)
		if err != nil {
			respondWithStoreError(w, err, "token")
			return
		}

		respondWithJSON(w, http.StatusOK, AttendeeAuthResponse{
			Token:                  token,
			ExpiresAt:              expiresAt,
			Attendee:               attendee,
			RequiresPasswordChange: attendee.RequiresPasswordChange(),
		})
	}
}

func handleAttendeeMe(attendees store.AttendeesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attendee, err := attendees.GetAttendee(r.Context(), caller(r).ID)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"attendee":               attendee,
			"requiresPasswordChange": attendee.RequiresPasswordChange(),
		})
	}
}

func handleChangePassword(attendees store.AttendeesStore, policy auth.Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		id := caller(r)

		attendee, err := attendees.GetAttendee(r.Context(), id.ID)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}

		fail := func(code int, msg string) {
			audit.Log(audit.PasswordEvent{
				Subject:      attendee.Email,
				ClientIP:     callerIP(r),
				Operation:    audit.PasswordChange,
				ErrorMessage: msg,
			})
			respondWithError(w, code, msg)
		}

		now := time.Now()
		unlocked, err := auth.CheckLock(attendee, now)
		if err != nil {
			respondLocked(w, err)
			return
		}
		if unlocked {
			if err := attendees.SaveAttendee(r.Context(), attendee); err != nil {
				respondWithStoreError(w, err, "attendee")
				return
			}
		}

		// wrong current passwords count towards the login lockout
		if !auth.CheckPassword(attendee.PasswordHash, req.CurrentPassword) {
			stored, err := attendees.RecordLoginFailure(r.Context(), attendee.ID, policy.MaxAttempts, policy.LockUntil(now))
			if err != nil {
				respondWithStoreError(w, err, "attendee")
				return
			}
			audit.Log(audit.PasswordEvent{
				Subject:      attendee.Email,
				ClientIP:     callerIP(r),
				Operation:    audit.PasswordChange,
				ErrorMessage: "current password is incorrect",
			})
			remaining, lockErr := auth.FailureOutcome(stored, policy)
			if lockErr != nil {
				respondLocked(w, lockErr)
				return
			}
			respondWithJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"error":             "current password is incorrect",
				"remainingAttempts": remaining,
			})
			return
		}
		if req.NewPassword == req.CurrentPassword {
			fail(http.StatusBadRequest, "new password must differ from the current one")
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}
		auth.CompletePasswordChange(attendee, hash, now)
		if err := attendees.SaveAttendee(r.Context(), attendee); err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}

		audit.Log(audit.PasswordEvent{
			Subject:   attendee.Email,
			ClientIP:  callerIP(r),
			Operation: audit.PasswordChange,
			Success:   true,
		})
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Password changed.",
			"attendee": attendee,
		})
	}
}

func lockoutPolicy(s *server.Server) auth.Policy {
	return auth.Policy{
		MaxAttempts: s.Config.MaxLoginAttempts,
		Duration:    s.Config.LockoutDuration(),
	}
}

func respondLocked(w http.ResponseWriter, err error) {
	body := map[string]interface{}{"error": "account is locked after too many failed attempts"}
	var locked *auth.LockedError
	if errors.As(err, &locked) {
		body["lockedUntil"] = locked.Until.UTC()
	}
	respondWithJSON(w, http.StatusLocked, body)
}

func handleListAttendees(conferences store.ConferencesStore, attendees store.AttendeesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference, ok := ownConferenceParam(w, r, conferences)
		if !ok {
			return
		}

		var status *model.AttendeeStatus
		if v := r.URL.Query().Get("status"); v != "" {
			st, err := model.AttendeeStatusString(v)
			if err != nil {
				respondWithValidationErrors(w, []FieldError{{
					Field:   "status",
					Message: "must be one of " + strings.Join(model.AttendeeStatusStrings(), " "),
				}})
				return
			}
			status = &st
		}

		list, err := attendees.ListAttendees(r.Context(), conference.ID, status)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}
		if list == nil {
			list = []model.Attendee{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleUnlockAttendee(conferences store.ConferencesStore, attendees store.AttendeesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attendee, ok := ownAttendeeParam(w, r, attendees, conferences)
		if !ok {
			return
		}

		auth.Unlock(attendee)
		if err := attendees.SaveAttendee(r.Context(), attendee); err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}

		audit.Log(audit.LockoutEvent{
			Email:        attendee.Email,
			ConferenceID: attendee.ConferenceID,
			ClientIP:     callerIP(r),
			UnlockedBy:   auditName(caller(r)),
		})
		respondWithJSON(w, http.StatusOK, attendee)
	}
}

func handleResendPassword(conferences store.ConferencesStore, attendees store.AttendeesStore, passwords server.PasswordScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attendee, ok := ownAttendeeParam(w, r, attendees, conferences)
		if !ok {
			return
		}

		password, err := auth.GeneratePassword()
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}
		auth.ResetGeneratedPassword(attendee, hash)
		if err := attendees.SaveAttendee(r.Context(), attendee); err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}
		if _, err := passwords.Reschedule(r.Context(), attendee, password); err != nil {
			respondWithStoreError(w, err, "password delivery")
			return
		}

		audit.Log(audit.PasswordEvent{
			Subject:   auditName(caller(r)),
			Target:    attendee.Email,
			ClientIP:  callerIP(r),
			Operation: audit.PasswordResend,
			Success:   true,
		})
		respondWithJSON(w, http.StatusAccepted, map[string]interface{}{
			"message":  "A new password will be emailed to the attendee shortly.",
			"attendee": attendee,
		})
	}
}

func handleDeleteAttendee(conferences store.ConferencesStore, attendees store.AttendeesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attendee, ok := ownAttendeeParam(w, r, attendees, conferences)
		if !ok {
			return
		}
		if err := attendees.DeleteAttendee(r.Context(), attendee.ID); err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}

		audit.Log(audit.ResourceEvent{
			Admin:        auditName(caller(r)),
			ClientIP:     callerIP(r),
			Kind:         "attendee",
			ID:           attendee.ID,
			Operation:    "delete",
			Detail:       attendee.Email,
			ConferenceID: attendee.ConferenceID,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

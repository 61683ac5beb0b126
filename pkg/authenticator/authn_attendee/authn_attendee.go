package authn_attendee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/identity"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// Authenticator implements attendee login with failed-attempt lockout
type Authenticator struct {
	conferences store.ConferencesStore
	attendees   store.AttendeesStore
	policy      auth.Policy
	now         func() time.Time
}

// New creates an attendee authenticator enforcing policy
func New(conferences store.ConferencesStore, attendees store.AttendeesStore, policy auth.Policy) *Authenticator {
	return &Authenticator{
		conferences: conferences,
		attendees:   attendees,
		policy:      policy,
		now:         time.Now,
	}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return authenticator.Attendee
}

// Authenticate checks the attendee's password for the conference selected by
// input.URLCode. Failed attempts count towards a lockout; while locked every
// attempt returns *auth.LockedError without checking the password.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.Input) (*identity.Identity, error) {
	email := model.NormalizeEmail(input.Email)
	code := model.NormalizeURLCode(input.URLCode)
	if email == "" || code == "" || input.Password == "" {
		return nil, a.fail(input, email, 0, "conference code, email and password are required", -1)
	}

	conference, err := a.conferences.FindConferenceByURLCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, a.fail(input, email, 0, "unknown conference "+code, -1)
	}
	if err != nil {
		return nil, fmt.Errorf("conference lookup failed: %w", err)
	}

	attendee, err := a.attendees.FindAttendee(ctx, conference.ID, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, a.fail(input, email, conference.ID, "not registered", -1)
	}
	if err != nil {
		return nil, fmt.Errorf("attendee lookup failed: %w", err)
	}

	now := a.now()
	unlocked, err := auth.CheckLock(attendee, now)
	if err != nil {
		audit.Log(audit.AuthenticateEvent{
			Email:         email,
			Authenticator: a.Name(),
			ConferenceID:  conference.ID,
			ClientIP:      input.ClientIP,
			ErrorMessage:  err.Error(),
		})
		return nil, err
	}
	if unlocked {
		if err := a.attendees.SaveAttendee(ctx, attendee); err != nil {
			return nil, fmt.Errorf("failed to lift expired lock: %w", err)
		}
		audit.Log(audit.LockoutEvent{
			Email:        email,
			ConferenceID: conference.ID,
			ClientIP:     input.ClientIP,
		})
	}

	if !auth.CheckPassword(attendee.PasswordHash, input.Password) {
		stored, err := a.attendees.RecordLoginFailure(ctx, attendee.ID, a.policy.MaxAttempts, a.policy.LockUntil(now))
		if err != nil {
			return nil, fmt.Errorf("failed to record login failure: %w", err)
		}

		remaining, lockErr := auth.FailureOutcome(stored, a.policy)
		var locked *auth.LockedError
		if errors.As(lockErr, &locked) {
			log.Warn().Str("email", email).Uint("conference_id", conference.ID).Time("until", locked.Until).Msg("attendee locked out")
			a.fail(input, email, conference.ID, "wrong password", 0)
			audit.Log(audit.LockoutEvent{
				Email:        email,
				ConferenceID: conference.ID,
				ClientIP:     input.ClientIP,
				Locked:       true,
				Until:        locked.Until.UTC().Format(time.RFC3339),
			})
			return nil, lockErr
		}
		return nil, a.fail(input, email, conference.ID, "wrong password", remaining)
	}

	auth.RegisterSuccess(attendee, now)
	if err := a.attendees.SaveAttendee(ctx, attendee); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	audit.Log(audit.AuthenticateEvent{
		Email:         email,
		Authenticator: a.Name(),
		ConferenceID:  conference.ID,
		ClientIP:      input.ClientIP,
		Success:       true,
	})
	return identity.NewAttendee(attendee.ID, conference.ID, attendee.Email), nil
}

func (a *Authenticator) fail(input authenticator.Input, email string, conferenceID uint, reason string, remaining int) error {
	audit.Log(audit.AuthenticateEvent{
		Email:         email,
		Authenticator: a.Name(),
		ConferenceID:  conferenceID,
		ClientIP:      input.ClientIP,
		ErrorMessage:  reason,
	})
	return &authenticator.FailedError{Remaining: remaining, Err: auth.ErrInvalidCredentials}
}

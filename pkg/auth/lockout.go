package auth

import (
	"fmt"
	"time"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// Policy configures attendee lockout
type Policy struct {
	MaxAttempts int
	Duration    time.Duration
}

// LockedError is returned while an attendee is locked out
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
}

// CheckLock returns a *LockedError if the attendee is still locked at now.
// An expired lock is lifted in place; the caller persists the change when
// the returned bool is true.
func CheckLock(a *model.Attendee, now time.Time) (bool, error) {
	if a.Status != model.AttendeeStatusLocked && a.LockedUntil == nil {
		return false, nil
	}
	if a.LockedUntil != nil && now.Before(*a.LockedUntil) {
		return false, &LockedError{Until: *a.LockedUntil}
	}
	Unlock(a)
	return true, nil
}

// Unlock lifts a lock and restores the status the attendee had before it
func Unlock(a *model.Attendee) {
	a.LockedUntil = nil
	a.FailedLoginAttempts = 0
	if a.PasswordChangedAt != nil {
		a.Status = model.AttendeeStatusActive
	} else {
		a.Status = model.AttendeeStatusFirstLogin
	}
}

// LockUntil is when a lock taken at now ends
func (p Policy) LockUntil(now time.Time) time.Time {
	return now.Add(p.Duration)
}

// FailureOutcome reads an attendee as stored right after a failed login.
// It returns the attempts left before lockout, or a *LockedError when the
// failure locked the account.
func FailureOutcome(a *model.Attendee, p Policy) (int, error) {
	if a.Status == model.AttendeeStatusLocked && a.LockedUntil != nil {
		return 0, &LockedError{Until: *a.LockedUntil}
	}
	remaining := p.MaxAttempts - a.FailedLoginAttempts
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// RegisterSuccess clears the failure counter after a good login
func RegisterSuccess(a *model.Attendee, now time.Time) {
	a.FailedLoginAttempts = 0
	a.LockedUntil = nil
	a.LastLoginAt = &now
}

// CompletePasswordChange moves a first_login attendee to active
func CompletePasswordChange(a *model.Attendee, hash string, now time.Time) {
	a.PasswordHash = hash
	a.PasswordChangedAt = &now
	if a.Status == model.AttendeeStatusFirstLogin {
		a.Status = model.AttendeeStatusActive
	}
}

// ResetGeneratedPassword puts the attendee back on a freshly generated password
func ResetGeneratedPassword(a *model.Attendee, hash string) {
	a.PasswordHash = hash
	a.PasswordChangedAt = nil
	a.FailedLoginAttempts = 0
	a.LockedUntil = nil
	a.Status = model.AttendeeStatusFirstLogin
}

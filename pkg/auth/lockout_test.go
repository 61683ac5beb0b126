package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

var testPolicy = Policy{MaxAttempts: 5, Duration: 30 * time.Minute}

func TestFailureOutcome(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	until := testPolicy.LockUntil(now)
	assert.Equal(t, now.Add(30*time.Minute), until)

	tests := []struct {
		name          string
		attendee      model.Attendee
		wantRemaining int
		wantLocked    bool
	}{
		{"first failure", model.Attendee{FailedLoginAttempts: 1}, 4, false},
		{"last attempt left", model.Attendee{FailedLoginAttempts: 4}, 1, false},
		{"locking failure", model.Attendee{FailedLoginAttempts: 5, Status: model.AttendeeStatusLocked, LockedUntil: &until}, 0, true},
		{"counted past the limit", model.Attendee{FailedLoginAttempts: 7, Status: model.AttendeeStatusLocked, LockedUntil: &until}, 0, true},
		{"over the limit without a lock", model.Attendee{FailedLoginAttempts: 6}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, err := FailureOutcome(&tt.attendee, testPolicy)
			assert.Equal(t, tt.wantRemaining, remaining)
			if !tt.wantLocked {
				require.NoError(t, err)
				return
			}
			var locked *LockedError
			require.True(t, errors.As(err, &locked))
			assert.Equal(t, until, locked.Until)
		})
	}
}

func TestCheckLock(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	until := now.Add(10 * time.Minute)
	changed := now.Add(-time.Hour)

	tests := []struct {
		name        string
		attendee    model.Attendee
		at          time.Time
		wantLocked  bool
		wantChanged bool
		wantStatus  model.AttendeeStatus
	}{
		{
			name:       "not locked",
			attendee:   model.Attendee{Status: model.AttendeeStatusActive},
			at:         now,
			wantStatus: model.AttendeeStatusActive,
		},
		{
			name:       "still locked",
			attendee:   model.Attendee{Status: model.AttendeeStatusLocked, LockedUntil: &until, FailedLoginAttempts: 5},
			at:         now,
			wantLocked: true,
			wantStatus: model.AttendeeStatusLocked,
		},
		{
			name:        "expired lock returns to first login",
			attendee:    model.Attendee{Status: model.AttendeeStatusLocked, LockedUntil: &until, FailedLoginAttempts: 5},
			at:          until,
			wantChanged: true,
			wantStatus:  model.AttendeeStatusFirstLogin,
		},
		{
			name:        "expired lock returns to active",
			attendee:    model.Attendee{Status: model.AttendeeStatusLocked, LockedUntil: &until, PasswordChangedAt: &changed},
			at:          until.Add(time.Second),
			wantChanged: true,
			wantStatus:  model.AttendeeStatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.attendee
			changed, err := CheckLock(&a, tt.at)
			if tt.wantLocked {
				var locked *LockedError
				assert.True(t, errors.As(err, &locked))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, a.Status)
			if tt.wantChanged {
				assert.Nil(t, a.LockedUntil)
				assert.Zero(t, a.FailedLoginAttempts)
			}
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	now := time.Now()
	a := &model.Attendee{FailedLoginAttempts: 3}
	RegisterSuccess(a, now)
	assert.Zero(t, a.FailedLoginAttempts)
	assert.Equal(t, &now, a.LastLoginAt)
}

func TestPasswordTransitions(t *testing.T) {
	now := time.Now()
	a := &model.Attendee{Status: model.AttendeeStatusFirstLogin}
	assert.True(t, a.RequiresPasswordChange())

	CompletePasswordChange(a, "hash-1", now)
	assert.Equal(t, model.AttendeeStatusActive, a.Status)
	assert.False(t, a.RequiresPasswordChange())

	until := now.Add(time.Minute)
	a.Status = model.AttendeeStatusLocked
	a.LockedUntil = &until
	ResetGeneratedPassword(a, "hash-2")
	assert.Equal(t, model.AttendeeStatusFirstLogin, a.Status)
	assert.Nil(t, a.LockedUntil)
	assert.Equal(t, "hash-2", a.PasswordHash)
	assert.True(t, a.RequiresPasswordChange())
}

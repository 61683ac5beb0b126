package authn_attendee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store/mocks"
)

func init() {
	audit.SetEnabled(false)
}

const password = "Xk7pQ2mN4r"

type fixture struct {
	auth        *Authenticator
	conferences *mocks.ConferencesStore
	attendees   *mocks.AttendeesStore
	attendee    *model.Attendee
	clock       time.Time
}

func setup(t *testing.T) *fixture {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	f := &fixture{
		conferences: &mocks.ConferencesStore{},
		attendees:   &mocks.AttendeesStore{},
		attendee: &model.Attendee{
			ID:           40,
			ConferenceID: 3,
			Email:        "guest@example.com",
			PasswordHash: hash,
			Status:       model.AttendeeStatusFirstLogin,
		},
		clock: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	f.conferences.On("FindConferenceByURLCode", mock.Anything, "K7M2Q9XD").
		Return(&model.Conference{ID: 3, URLCode: "K7M2Q9XD", IsActive: true}, nil)
	f.conferences.On("FindConferenceByURLCode", mock.Anything, mock.Anything).
		Return(nil, store.ErrNotFound)
	f.attendees.On("FindAttendee", mock.Anything, uint(3), "guest@example.com").Return(f.attendee, nil)
	f.attendees.On("FindAttendee", mock.Anything, uint(3), mock.Anything).Return(nil, store.ErrNotFound)
	f.attendees.On("SaveAttendee", mock.Anything, f.attendee).Return(nil)
	f.attendees.OnRecordLoginFailure(f.attendee)

	f.auth = New(f.conferences, f.attendees, auth.Policy{MaxAttempts: 5, Duration: 30 * time.Minute})
	f.auth.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) login(pw string) error {
	_, err := f.auth.Authenticate(context.Background(), authenticator.Input{
		URLCode:  "k7m2q9xd",
		Email:    "Guest@Example.com",
		Password: pw,
		ClientIP: "10.0.0.1",
	})
	return err
}

func TestAuthenticate_Success(t *testing.T) {
	f := setup(t)
	f.attendee.FailedLoginAttempts = 2

	id, err := f.auth.Authenticate(context.Background(), authenticator.Input{
		URLCode:  " k7m2q9xd ",
		Email:    "guest@example.com",
		Password: password,
	})
	require.NoError(t, err)

	assert.True(t, id.IsAttendee())
	assert.Equal(t, uint(40), id.ID)
	assert.Equal(t, uint(3), id.ConferenceID)
	assert.Equal(t, 0, f.attendee.FailedLoginAttempts)
	require.NotNil(t, f.attendee.LastLoginAt)
	assert.Equal(t, f.clock, *f.attendee.LastLoginAt)
	f.attendees.AssertCalled(t, "SaveAttendee", mock.Anything, f.attendee)
}

func TestAuthenticate_LocksAfterMaxAttempts(t *testing.T) {
	f := setup(t)

	for want := 4; want >= 1; want-- {
		err := f.login("wrong-password")
		var failed *authenticator.FailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, want, failed.Remaining)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	err := f.login("wrong-password")
	var locked *auth.LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, f.clock.Add(30*time.Minute), locked.Until)
	assert.Equal(t, model.AttendeeStatusLocked, f.attendee.Status)

	// The right password does not help while locked
	f.clock = f.clock.Add(29 * time.Minute)
	err = f.login(password)
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, 5, f.attendee.FailedLoginAttempts)
	f.attendees.AssertNumberOfCalls(t, "RecordLoginFailure", 5)
}

func TestAuthenticate_LockExpires(t *testing.T) {
	f := setup(t)
	for i := 0; i < 5; i++ {
		_ = f.login("wrong-password")
	}
	require.Equal(t, model.AttendeeStatusLocked, f.attendee.Status)

	f.clock = f.clock.Add(31 * time.Minute)
	require.NoError(t, f.login(password))

	assert.Equal(t, model.AttendeeStatusFirstLogin, f.attendee.Status)
	assert.Nil(t, f.attendee.LockedUntil)
	assert.Equal(t, 0, f.attendee.FailedLoginAttempts)
}

func TestAuthenticate_ExpiredLockThenWrongPassword(t *testing.T) {
	f := setup(t)
	changed := f.clock.Add(-time.Hour)
	f.attendee.PasswordChangedAt = &changed
	f.attendee.Status = model.AttendeeStatusActive
	for i := 0; i < 5; i++ {
		_ = f.login("wrong-password")
	}

	f.clock = f.clock.Add(time.Hour)
	err := f.login("wrong-password")

	var failed *authenticator.FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 4, failed.Remaining)
	assert.Equal(t, model.AttendeeStatusActive, f.attendee.Status)
}

func TestAuthenticate_UnknownConferenceOrAttendee(t *testing.T) {
	f := setup(t)

	_, err := f.auth.Authenticate(context.Background(), authenticator.Input{
		URLCode: "NOPE1234", Email: "guest@example.com", Password: password,
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.auth.Authenticate(context.Background(), authenticator.Input{
		URLCode: "K7M2Q9XD", Email: "stranger@example.com", Password: password,
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	f.attendees.AssertNotCalled(t, "SaveAttendee", mock.Anything, mock.Anything)
	f.attendees.AssertNotCalled(t, "RecordLoginFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthenticate_SaveFailure(t *testing.T) {
	f := setup(t)
	attendees := &mocks.AttendeesStore{}
	attendees.On("FindAttendee", mock.Anything, uint(3), "guest@example.com").Return(f.attendee, nil)
	attendees.On("RecordLoginFailure", mock.Anything, uint(40), 5, mock.Anything).Return(nil, errors.New("disk full"))
	f.auth.attendees = attendees

	err := f.login("wrong-password")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

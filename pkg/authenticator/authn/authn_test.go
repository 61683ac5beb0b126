package authn

import (
	"context"
	"errors"
	"testing"

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

func newAdmin(t *testing.T, password string) *model.Admin {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &model.Admin{ID: 7, Email: "org@example.com", Name: "Org", PasswordHash: hash}
}

func TestAuthenticator_Name(t *testing.T) {
	assert.Equal(t, "admin", New(&mocks.AdminsStore{}).Name())
}

func TestAuthenticator_Authenticate_Success(t *testing.T) {
	admins := &mocks.AdminsStore{}
	admins.On("FindAdminByEmail", mock.Anything, "org@example.com").Return(newAdmin(t, "correct-horse"), nil)

	id, err := New(admins).Authenticate(context.Background(), authenticator.Input{
		Email:    "  Org@Example.com ",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, uint(7), id.ID)
	assert.Equal(t, "admin:7", id.Subject())
	admins.AssertExpectations(t)
}

func TestAuthenticator_Authenticate_WrongPassword(t *testing.T) {
	admins := &mocks.AdminsStore{}
	admins.On("FindAdminByEmail", mock.Anything, "org@example.com").Return(newAdmin(t, "correct-horse"), nil)

	_, err := New(admins).Authenticate(context.Background(), authenticator.Input{
		Email:    "org@example.com",
		Password: "battery-staple",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	var failed *authenticator.FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, -1, failed.Remaining)
}

func TestAuthenticator_Authenticate_UnknownAdmin(t *testing.T) {
	admins := &mocks.AdminsStore{}
	admins.On("FindAdminByEmail", mock.Anything, "nobody@example.com").Return(nil, store.ErrNotFound)

	_, err := New(admins).Authenticate(context.Background(), authenticator.Input{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticator_Authenticate_MissingFields(t *testing.T) {
	admins := &mocks.AdminsStore{}

	_, err := New(admins).Authenticate(context.Background(), authenticator.Input{Email: "org@example.com"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	admins.AssertNotCalled(t, "FindAdminByEmail", mock.Anything, mock.Anything)
}

func TestAuthenticator_Authenticate_StoreError(t *testing.T) {
	admins := &mocks.AdminsStore{}
	admins.On("FindAdminByEmail", mock.Anything, "org@example.com").Return(nil, errors.New("connection refused"))

	_, err := New(admins).Authenticate(context.Background(), authenticator.Input{
		Email:    "org@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

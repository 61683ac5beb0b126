package authn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/identity"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

var (
	dummyHash     string
	dummyHashOnce sync.Once
)

// Authenticator implements organizer email and password authentication
type Authenticator struct {
	admins store.AdminsStore
}

// New creates a new admin password authenticator
func New(admins store.AdminsStore) *Authenticator {
	return &Authenticator{admins: admins}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return authenticator.Admin
}

// Authenticate checks an admin's email and password
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.Input) (*identity.Identity, error) {
	email := model.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, a.fail(input, email, "email and password are required")
	}

	admin, err := a.admins.FindAdminByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Spend the same bcrypt time as a real comparison
		auth.CheckPassword(fakeHash(), input.Password)
		return nil, a.fail(input, email, "unknown admin")
	}
	if err != nil {
		return nil, fmt.Errorf("admin lookup failed: %w", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, input.Password) {
		return nil, a.fail(input, email, "wrong password")
	}

	audit.Log(audit.AuthenticateEvent{
		Email:         email,
		Authenticator: a.Name(),
		ClientIP:      input.ClientIP,
		Success:       true,
	})
	return identity.NewAdmin(admin.ID, admin.Email), nil
}

func (a *Authenticator) fail(input authenticator.Input, email, reason string) error {
	audit.Log(audit.AuthenticateEvent{
		Email:         email,
		Authenticator: a.Name(),
		ClientIP:      input.ClientIP,
		Success:       false,
		ErrorMessage:  reason,
	})
	return &authenticator.FailedError{Remaining: -1, Err: auth.ErrInvalidCredentials}
}

func fakeHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("not-a-real-password")
	})
	return dummyHash
}

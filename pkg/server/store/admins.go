package store

import (
	"context"
	"time"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// AdminsStore abstracts admin account storage
type AdminsStore interface {
	// CreateAdmin inserts an admin. Returns ErrConflict if the email is taken.
	CreateAdmin(ctx context.Context, admin *model.Admin) error

	GetAdmin(ctx context.Context, id uint) (*model.Admin, error)

	// FindAdminByEmail looks up an admin by normalized email
	FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error)

	UpdateAdminPassword(ctx context.Context, id uint, hash string) error
}

// PasswordResetsStore abstracts admin password reset storage
type PasswordResetsStore interface {
	CreatePasswordReset(ctx context.Context, reset *model.PasswordReset) error

	// FindPasswordReset looks up a reset by token hash
	FindPasswordReset(ctx context.Context, tokenHash string) (*model.PasswordReset, error)

	// RedeemPasswordReset marks the reset used and stores the new password hash
	// atomically. Returns ErrNotFound if the reset was already used.
	RedeemPasswordReset(ctx context.Context, reset *model.PasswordReset, hash string, now time.Time) error
}

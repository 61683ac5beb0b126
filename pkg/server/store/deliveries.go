package store

import (
	"context"
	"time"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// DeliveriesStore abstracts the password_queue table
type DeliveriesStore interface {
	CreateDelivery(ctx context.Context, delivery *model.PasswordQueue) error

	// ClaimDelivery moves a pending delivery to processing. Returns
	// ErrNotFound if it is missing or not pending.
	ClaimDelivery(ctx context.Context, id uint) (*model.PasswordQueue, error)

	// MarkSent records success and wipes the encrypted password
	MarkSent(ctx context.Context, id uint, at time.Time) error

	// MarkRetry puts a delivery back to pending for another attempt at next
	MarkRetry(ctx context.Context, id uint, attempts int, lastErr string, next time.Time) error

	// MarkFailed gives up on a delivery and wipes the encrypted password
	MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error

	// ListPending returns pending deliveries ordered by schedule
	ListPending(ctx context.Context) ([]model.PasswordQueue, error)

	// ListDue returns the ids of at most limit pending deliveries scheduled
	// at or before now
	ListDue(ctx context.Context, now time.Time, limit int) ([]uint, error)

	// CancelPending fails every pending delivery of an attendee
	CancelPending(ctx context.Context, attendeeID uint, reason string) error
}

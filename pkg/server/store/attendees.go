package store

import (
	"context"
	"time"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// AttendeesStore abstracts attendee storage
type AttendeesStore interface {
	// CreateAttendee inserts an attendee. Returns ErrConflict if the email
	// is already registered for the conference.
	CreateAttendee(ctx context.Context, attendee *model.Attendee) error

	GetAttendee(ctx context.Context, id uint) (*model.Attendee, error)

	FindAttendee(ctx context.Context, conferenceID uint, email string) (*model.Attendee, error)

	// ListAttendees returns attendees of a conference, optionally filtered by status
	ListAttendees(ctx context.Context, conferenceID uint, status *model.AttendeeStatus) ([]model.Attendee, error)

	// SaveAttendee persists status, lockout counters and password fields
	SaveAttendee(ctx context.Context, attendee *model.Attendee) error

	// RecordLoginFailure counts a failed login in one atomic step and locks
	// the attendee until lockUntil once maxAttempts is reached. It returns the
	// attendee as stored after the update.
	RecordLoginFailure(ctx context.Context, id uint, maxAttempts int, lockUntil time.Time) (*model.Attendee, error)

	// DeleteAttendee removes an attendee and their responses
	DeleteAttendee(ctx context.Context, id uint) error

	// CountAttendeesByStatus returns attendee counts keyed by status name
	CountAttendeesByStatus(ctx context.Context, conferenceID uint) (map[string]int64, error)
}

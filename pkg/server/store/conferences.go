package store

import (
	"context"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// ConferencesStore abstracts conference storage
type ConferencesStore interface {
	// CreateConference inserts a conference. Returns ErrConflict if the
	// URL code is already used.
	CreateConference(ctx context.Context, conference *model.Conference) error

	GetConference(ctx context.Context, id uint) (*model.Conference, error)

	FindConferenceByURLCode(ctx context.Context, urlCode string) (*model.Conference, error)

	// ListConferences returns the conferences owned by an admin, newest first
	ListConferences(ctx context.Context, adminID uint) ([]model.Conference, error)

	UpdateConference(ctx context.Context, conference *model.Conference) error

	// DeleteConference removes a conference with its surveys, attendees and responses
	DeleteConference(ctx context.Context, id uint) error
}

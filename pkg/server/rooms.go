package server

import (
	"context"
	"errors"

	"github.com/pmcoe-ai1/conference-app/pkg/identity"
	"github.com/pmcoe-ai1/conference-app/pkg/realtime"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// joinConference lets admins into rooms of conferences they own and
// attendees into the room of their own conference.
func (s *Server) joinConference(ctx context.Context, id *identity.Identity, conferenceID uint) error {
	if id.IsAttendee() {
		if id.ConferenceID != conferenceID {
			return realtime.ErrJoinDenied
		}
		return nil
	}

	conference, err := s.ConferencesStore.GetConference(ctx, conferenceID)
	if errors.Is(err, store.ErrNotFound) {
		return realtime.ErrJoinDenied
	}
	if err != nil {
		return err
	}
	if !id.IsAdmin() || conference.AdminID != id.ID {
		return realtime.ErrJoinDenied
	}
	return nil
}

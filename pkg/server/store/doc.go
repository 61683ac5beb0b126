// Package store provides storage abstractions for the conference server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation
// and tested with mocks.
//
// # Available Stores
//
//   - AdminsStore, PasswordResetsStore: organizer accounts
//   - ConferencesStore: conferences and their URL codes
//   - SurveysStore, QuestionsStore: surveys, activation and questions
//   - AttendeesStore: registrations and lockout state
//   - ResponsesStore: submitted answers
//   - DeliveriesStore: scheduled password emails
//   - HealthStore: database connectivity
//
// # Usage
//
//	conferences := gorm.NewConferencesStore(db)
//	c, err := conferences.FindConferenceByURLCode(ctx, "K7M2Q9XD")
//	if errors.Is(err, store.ErrNotFound) {
//	    // Handle not found
//	}
package store

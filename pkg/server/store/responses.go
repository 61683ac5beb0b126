package store

import (
	"context"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// ResponsesStore abstracts survey answer storage
type ResponsesStore interface {
	// SubmitResponses stores all answers of one attendee for one survey in a
	// transaction. Returns ErrAlreadySubmitted if the attendee already
	// answered any question of the survey.
	SubmitResponses(ctx context.Context, surveyID, attendeeID uint, responses []model.Response) error

	HasSubmitted(ctx context.Context, surveyID, attendeeID uint) (bool, error)

	// ListSurveyResponses returns every answer of a survey, newest first
	ListSurveyResponses(ctx context.Context, surveyID uint) ([]model.Response, error)

	// CountRespondents returns the number of distinct attendees who answered
	CountRespondents(ctx context.Context, surveyID uint) (int64, error)
}

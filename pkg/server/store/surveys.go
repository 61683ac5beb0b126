package store

import (
	"context"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// SurveysStore abstracts survey storage
type SurveysStore interface {
	// CreateSurvey inserts a survey together with any questions it carries
	CreateSurvey(ctx context.Context, survey *model.Survey) error

	// GetSurvey returns a survey with its questions ordered by position
	GetSurvey(ctx context.Context, id uint) (*model.Survey, error)

	ListSurveys(ctx context.Context, conferenceID uint) ([]model.Survey, error)

	UpdateSurvey(ctx context.Context, survey *model.Survey) error

	DeleteSurvey(ctx context.Context, id uint) error

	// ActivateSurvey deactivates every other active survey of the same
	// conference and activates this one in a single transaction. It returns
	// the ids of the surveys it deactivated.
	ActivateSurvey(ctx context.Context, id uint) ([]uint, error)

	DeactivateSurvey(ctx context.Context, id uint) error

	// ActiveSurvey returns the active survey of a conference with its questions
	ActiveSurvey(ctx context.Context, conferenceID uint) (*model.Survey, error)
}

// QuestionsStore abstracts question storage
type QuestionsStore interface {
	// CreateQuestion appends a question to its survey. Returns
	// ErrHasResponses if the survey was already answered.
	CreateQuestion(ctx context.Context, question *model.Question) error

	GetQuestion(ctx context.Context, id uint) (*model.Question, error)

	UpdateQuestion(ctx context.Context, question *model.Question) error

	DeleteQuestion(ctx context.Context, id uint) error

	// ReorderQuestions assigns positions following ids. Returns
	// ErrInvalidOrder unless ids is a permutation of the survey's questions.
	ReorderQuestions(ctx context.Context, surveyID uint, ids []uint) error
}

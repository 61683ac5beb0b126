package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// Ensure ResponsesStore implements store.ResponsesStore
var _ store.ResponsesStore = (*ResponsesStore)(nil)

// ResponsesStore implements store.ResponsesStore using GORM
type ResponsesStore struct {
	db *gorm.DB
}

// NewResponsesStore creates a new ResponsesStore
func NewResponsesStore(db *gorm.DB) *ResponsesStore {
	return &ResponsesStore{db: db}
}

func (s *ResponsesStore) SubmitResponses(ctx context.Context, surveyID, attendeeID uint, responses []model.Response) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Submissions of one attendee queue on the attendee row, so the count
		// below sees answers committed by a parallel submission even when the
		// two answer different questions.
		var holder model.Attendee
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&holder, attendeeID).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&model.Response{}).
			Where("survey_id = ? AND attendee_id = ?", surveyID, attendeeID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return store.ErrAlreadySubmitted
		}

		for i := range responses {
			responses[i].SurveyID = surveyID
			responses[i].AttendeeID = attendeeID
		}
		if len(responses) == 0 {
			return nil
		}
		err := translate(tx.Create(&responses).Error)
		if errors.Is(err, store.ErrConflict) {
			return store.ErrAlreadySubmitted
		}
		return err
	})
	return translate(err)
}

func (s *ResponsesStore) HasSubmitted(ctx context.Context, surveyID, attendeeID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Response{}).
		Where("survey_id = ? AND attendee_id = ?", surveyID, attendeeID).
		Count(&n).Error
	return n > 0, err
}

func (s *ResponsesStore) ListSurveyResponses(ctx context.Context, surveyID uint) ([]model.Response, error) {
	var list []model.Response
	err := s.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created_at desc, id desc").
		Find(&list).Error
	return list, translate(err)
}

func (s *ResponsesStore) CountRespondents(ctx context.Context, surveyID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Response{}).
		Where("survey_id = ?", surveyID).
		Distinct("attendee_id").
		Count(&n).Error
	return n, err
}

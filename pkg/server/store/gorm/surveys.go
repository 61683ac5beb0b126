package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

var (
	_ store.SurveysStore   = (*SurveysStore)(nil)
	_ store.QuestionsStore = (*SurveysStore)(nil)
)

// SurveysStore implements store.SurveysStore and store.QuestionsStore using GORM
type SurveysStore struct {
	db *gorm.DB
}

// NewSurveysStore creates a new SurveysStore
func NewSurveysStore(db *gorm.DB) *SurveysStore {
	return &SurveysStore{db: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, id asc")
}

func (s *SurveysStore) CreateSurvey(ctx context.Context, survey *model.Survey) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := survey.Questions
		survey.Questions = nil
		if err := tx.Create(survey).Error; err != nil {
			return translate(err)
		}
		for i := range questions {
			questions[i].SurveyID = survey.ID
			if questions[i].Position == 0 {
				questions[i].Position = i + 1
			}
			if err := tx.Create(&questions[i]).Error; err != nil {
				return translate(err)
			}
		}
		survey.Questions = questions
		return nil
	})
}

func (s *SurveysStore) GetSurvey(ctx context.Context, id uint) (*model.Survey, error) {
	var survey model.Survey
	err := s.db.WithContext(ctx).Preload("Questions", orderedQuestions).First(&survey, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &survey, nil
}

func (s *SurveysStore) ListSurveys(ctx context.Context, conferenceID uint) ([]model.Survey, error) {
	var list []model.Survey
	err := s.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("conference_id = ?", conferenceID).
		Order("created_at asc, id asc").
		Find(&list).Error
	return list, translate(err)
}

func (s *SurveysStore) UpdateSurvey(ctx context.Context, survey *model.Survey) error {
	res := s.db.WithContext(ctx).Model(&model.Survey{}).Where("id = ?", survey.ID).Updates(map[string]interface{}{
		"title":       survey.Title,
		"description": survey.Description,
	})
	return affected(res)
}

func (s *SurveysStore) DeleteSurvey(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("survey_id = ?", id).Delete(&model.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("survey_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&model.Survey{}, id))
	})
}

func (s *SurveysStore) ActivateSurvey(ctx context.Context, id uint) ([]uint, error) {
	var deactivated []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var survey model.Survey
		if err := tx.First(&survey, id).Error; err != nil {
			return translate(err)
		}

		if err := tx.Model(&model.Survey{}).
			Where("conference_id = ? AND is_active = ? AND id <> ?", survey.ConferenceID, true, id).
			Pluck("id", &deactivated).Error; err != nil {
			return err
		}
		if len(deactivated) > 0 {
			if err := tx.Model(&model.Survey{}).
				Where("id IN ?", deactivated).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return translate(tx.Model(&model.Survey{}).Where("id = ?", id).Update("is_active", true).Error)
	})
	if err != nil {
		return nil, err
	}
	return deactivated, nil
}

func (s *SurveysStore) DeactivateSurvey(ctx context.Context, id uint) error {
	return affected(s.db.WithContext(ctx).Model(&model.Survey{}).Where("id = ?", id).Update("is_active", false))
}

func (s *SurveysStore) ActiveSurvey(ctx context.Context, conferenceID uint) (*model.Survey, error) {
	var survey model.Survey
	err := s.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("conference_id = ? AND is_active = ?", conferenceID, true).
		First(&survey).Error
	if err != nil {
		return nil, translate(err)
	}
	return &survey, nil
}

func (s *SurveysStore) hasResponses(tx *gorm.DB, surveyID uint) error {
	var n int64
	if err := tx.Model(&model.Response{}).Where("survey_id = ?", surveyID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return store.ErrHasResponses
	}
	return nil
}

func (s *SurveysStore) CreateQuestion(ctx context.Context, q *model.Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Survey{}, q.SurveyID).Error; err != nil {
			return translate(err)
		}
		if err := s.hasResponses(tx, q.SurveyID); err != nil {
			return err
		}
		if q.Position == 0 {
			var last int
			row := tx.Model(&model.Question{}).Where("survey_id = ?", q.SurveyID).
				Select("COALESCE(MAX(position), 0)").Row()
			if err := row.Scan(&last); err != nil {
				return err
			}
			q.Position = last + 1
		}
		return translate(tx.Create(q).Error)
	})
}

func (s *SurveysStore) GetQuestion(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	if err := s.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (s *SurveysStore) UpdateQuestion(ctx context.Context, q *model.Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.hasResponses(tx, q.SurveyID); err != nil {
			return err
		}
		return affected(tx.Model(&model.Question{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
			"text":     q.Text,
			"type":     q.Type,
			"options":  q.Options,
			"required": q.Required,
		}))
	})
}

func (s *SurveysStore) DeleteQuestion(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q model.Question
		if err := tx.First(&q, id).Error; err != nil {
			return translate(err)
		}
		if err := s.hasResponses(tx, q.SurveyID); err != nil {
			return err
		}
		return affected(tx.Delete(&model.Question{}, id))
	})
}

func (s *SurveysStore) ReorderQuestions(ctx context.Context, surveyID uint, ids []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uint
		if err := tx.Model(&model.Question{}).Where("survey_id = ?", surveyID).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if !isPermutation(existing, ids) {
			return store.ErrInvalidOrder
		}
		for i, id := range ids {
			if err := tx.Model(&model.Question{}).Where("id = ?", id).Update("position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func isPermutation(existing, ids []uint) bool {
	if len(existing) != len(ids) {
		return false
	}
	want := make(map[uint]bool, len(existing))
	for _, id := range existing {
		want[id] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}

package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// Ensure ConferencesStore implements store.ConferencesStore
var _ store.ConferencesStore = (*ConferencesStore)(nil)

// ConferencesStore implements store.ConferencesStore using GORM
type ConferencesStore struct {
	db *gorm.DB
}

// NewConferencesStore creates a new ConferencesStore
func NewConferencesStore(db *gorm.DB) *ConferencesStore {
	return &ConferencesStore{db: db}
}

// urlCodeAttempts bounds retries after a generated code collides
const urlCodeAttempts = 5

// CreateConference inserts conference. A missing URL code is generated and
// regenerated on collision; a caller-chosen code that is taken returns
// ErrConflict.
func (s *ConferencesStore) CreateConference(ctx context.Context, conference *model.Conference) error {
	if conference.URLCode != "" {
		return translate(s.db.WithContext(ctx).Omit("Surveys").Create(conference).Error)
	}

	var err error
	for i := 0; i < urlCodeAttempts; i++ {
		conference.URLCode = model.NewURLCode()
		err = translate(s.db.WithContext(ctx).Omit("Surveys").Create(conference).Error)
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
		conference.ID = 0
	}
	conference.URLCode = ""
	return err
}

func (s *ConferencesStore) GetConference(ctx context.Context, id uint) (*model.Conference, error) {
	var c model.Conference
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *ConferencesStore) FindConferenceByURLCode(ctx context.Context, urlCode string) (*model.Conference, error) {
	var c model.Conference
	if err := s.db.WithContext(ctx).Where("url_code = ?", urlCode).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *ConferencesStore) ListConferences(ctx context.Context, adminID uint) ([]model.Conference, error) {
	var list []model.Conference
	err := s.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("created_at desc, id desc").
		Find(&list).Error
	return list, translate(err)
}

// UpdateConference writes the editable columns of c. A URL code taken by
// another conference returns ErrConflict.
func (s *ConferencesStore) UpdateConference(ctx context.Context, c *model.Conference) error {
	res := s.db.WithContext(ctx).Model(&model.Conference{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
		"location":    c.Location,
		"start_date":  c.StartDate,
		"end_date":    c.EndDate,
		"url_code":    c.URLCode,
		"is_active":   c.IsActive,
	})
	return affected(res)
}

// DeleteConference deletes children explicitly so the behaviour does not
// depend on foreign key enforcement in the backing database.
func (s *ConferencesStore) DeleteConference(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		surveyIDs := tx.Model(&model.Survey{}).Select("id").Where("conference_id = ?", id)
		attendeeIDs := tx.Model(&model.Attendee{}).Select("id").Where("conference_id = ?", id)

		steps := []func() error{
			func() error { return tx.Where("survey_id IN (?)", surveyIDs).Delete(&model.Response{}).Error },
			func() error { return tx.Where("survey_id IN (?)", surveyIDs).Delete(&model.Question{}).Error },
			func() error { return tx.Where("conference_id = ?", id).Delete(&model.Survey{}).Error },
			func() error { return tx.Where("attendee_id IN (?)", attendeeIDs).Delete(&model.PasswordQueue{}).Error },
			func() error { return tx.Where("conference_id = ?", id).Delete(&model.Attendee{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return affected(tx.Delete(&model.Conference{}, id))
	})
}

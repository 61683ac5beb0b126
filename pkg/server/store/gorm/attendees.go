package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// Ensure AttendeesStore implements store.AttendeesStore
var _ store.AttendeesStore = (*AttendeesStore)(nil)

// AttendeesStore implements store.AttendeesStore using GORM
type AttendeesStore struct {
	db *gorm.DB
}

// NewAttendeesStore creates a new AttendeesStore
func NewAttendeesStore(db *gorm.DB) *AttendeesStore {
	return &AttendeesStore{db: db}
}

func (s *AttendeesStore) CreateAttendee(ctx context.Context, a *model.Attendee) error {
	a.Email = model.NormalizeEmail(a.Email)
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

func (s *AttendeesStore) GetAttendee(ctx context.Context, id uint) (*model.Attendee, error) {
	var a model.Attendee
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *AttendeesStore) FindAttendee(ctx context.Context, conferenceID uint, email string) (*model.Attendee, error) {
	var a model.Attendee
	err := s.db.WithContext(ctx).
		Where("conference_id = ? AND email = ?", conferenceID, model.NormalizeEmail(email)).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *AttendeesStore) ListAttendees(ctx context.Context, conferenceID uint, status *model.AttendeeStatus) ([]model.Attendee, error) {
	q := s.db.WithContext(ctx).Where("conference_id = ?", conferenceID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var list []model.Attendee
	err := q.Order("created_at asc, id asc").Find(&list).Error
	return list, translate(err)
}

func (s *AttendeesStore) SaveAttendee(ctx context.Context, a *model.Attendee) error {
	res := s.db.WithContext(ctx).Model(&model.Attendee{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"name":                  a.Name,
		"password_hash":         a.PasswordHash,
		"status":                a.Status,
		"failed_login_attempts": a.FailedLoginAttempts,
		"locked_until":          a.LockedUntil,
		"password_changed_at":   a.PasswordChangedAt,
		"last_login_at":         a.LastLoginAt,
	})
	return affected(res)
}

// RecordLoginFailure increments the counter in SQL so parallel failures
// cannot overwrite each other. On postgres the UPDATE holds the row lock
// until commit, so the count read back belongs to this attempt.
func (s *AttendeesStore) RecordLoginFailure(ctx context.Context, id uint, maxAttempts int, lockUntil time.Time) (*model.Attendee, error) {
	var a model.Attendee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Attendee{}).Where("id = ?", id).
			UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1"))
		if err := affected(res); err != nil {
			return err
		}
		if err := tx.First(&a, id).Error; err != nil {
			return err
		}
		if a.FailedLoginAttempts < maxAttempts || a.Status == model.AttendeeStatusLocked {
			return nil
		}

		a.Status = model.AttendeeStatusLocked
		a.LockedUntil = &lockUntil
		return tx.Model(&model.Attendee{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":       a.Status,
			"locked_until": lockUntil,
		}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *AttendeesStore) DeleteAttendee(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attendee_id = ?", id).Delete(&model.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attendee_id = ?", id).Delete(&model.PasswordQueue{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&model.Attendee{}, id))
	})
}

func (s *AttendeesStore) CountAttendeesByStatus(ctx context.Context, conferenceID uint) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&model.Attendee{}).
		Select("status, COUNT(*) AS count").
		Where("conference_id = ?", conferenceID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(model.AttendeeStatusValues()))
	for _, st := range model.AttendeeStatusStrings() {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

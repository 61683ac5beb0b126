package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// Ensure DeliveriesStore implements store.DeliveriesStore
var _ store.DeliveriesStore = (*DeliveriesStore)(nil)

// DeliveriesStore implements store.DeliveriesStore using GORM
type DeliveriesStore struct {
	db *gorm.DB
}

// NewDeliveriesStore creates a new DeliveriesStore
func NewDeliveriesStore(db *gorm.DB) *DeliveriesStore {
	return &DeliveriesStore{db: db}
}

func (s *DeliveriesStore) CreateDelivery(ctx context.Context, d *model.PasswordQueue) error {
	return translate(s.db.WithContext(ctx).Create(d).Error)
}

func (s *DeliveriesStore) ClaimDelivery(ctx context.Context, id uint) (*model.PasswordQueue, error) {
	var d model.PasswordQueue
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PasswordQueue{}).
			Where("id = ? AND status = ?", id, model.DeliveryStatusPending).
			Update("status", model.DeliveryStatusProcessing)
		if err := affected(res); err != nil {
			return err
		}
		return translate(tx.First(&d, id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DeliveriesStore) MarkSent(ctx context.Context, id uint, at time.Time) error {
	return affected(s.db.WithContext(ctx).Model(&model.PasswordQueue{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":             model.DeliveryStatusSent,
		"sent_at":            at,
		"encrypted_password": nil,
		"last_error":         "",
	}))
}

func (s *DeliveriesStore) MarkRetry(ctx context.Context, id uint, attempts int, lastErr string, next time.Time) error {
	return affected(s.db.WithContext(ctx).Model(&model.PasswordQueue{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       model.DeliveryStatusPending,
		"attempts":     attempts,
		"last_error":   lastErr,
		"scheduled_at": next,
	}))
}

func (s *DeliveriesStore) MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error {
	return affected(s.db.WithContext(ctx).Model(&model.PasswordQueue{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":             model.DeliveryStatusFailed,
		"attempts":           attempts,
		"last_error":         lastErr,
		"encrypted_password": nil,
	}))
}

func (s *DeliveriesStore) ListPending(ctx context.Context) ([]model.PasswordQueue, error) {
	var list []model.PasswordQueue
	err := s.db.WithContext(ctx).
		Where("status = ?", model.DeliveryStatusPending).
		Order("scheduled_at asc, id asc").
		Find(&list).Error
	return list, err
}

func (s *DeliveriesStore) ListDue(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&model.PasswordQueue{}).
		Where("status = ? AND scheduled_at <= ?", model.DeliveryStatusPending, now).
		Order("scheduled_at asc, id asc").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *DeliveriesStore) CancelPending(ctx context.Context, attendeeID uint, reason string) error {
	return s.db.WithContext(ctx).Model(&model.PasswordQueue{}).
		Where("attendee_id = ? AND status = ?", attendeeID, model.DeliveryStatusPending).
		Updates(map[string]interface{}{
			"status":             model.DeliveryStatusFailed,
			"last_error":         reason,
			"encrypted_password": nil,
		}).Error
}

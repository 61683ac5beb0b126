package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/queue"
	"github.com/pmcoe-ai1/conference-app/pkg/secretbox"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// Service schedules delayed delivery of generated attendee passwords
type Service struct {
	deliveries store.DeliveriesStore
	queue      queue.Queue
	cipher     secretbox.Cipher
	delay      time.Duration
	now        func() time.Time
}

func NewService(deliveries store.DeliveriesStore, q queue.Queue, cipher secretbox.Cipher, delay time.Duration) *Service {
	return &Service{
		deliveries: deliveries,
		queue:      q,
		cipher:     cipher,
		delay:      delay,
		now:        time.Now,
	}
}

// Schedule stores the password encrypted for attendee and queues its email
// for now plus the configured delay.
func (s *Service) Schedule(ctx context.Context, attendee *model.Attendee, password string) (*model.PasswordQueue, error) {
	sealed, err := s.cipher.Seal(model.PasswordAAD(attendee.ID), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt password: %w", err)
	}

	d := &model.PasswordQueue{
		AttendeeID:        attendee.ID,
		Email:             attendee.Email,
		EncryptedPassword: sealed,
		Status:            model.DeliveryStatusPending,
		ScheduledAt:       s.now().Add(s.delay),
	}
	if err := s.deliveries.CreateDelivery(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to store password delivery: %w", err)
	}

	// The row stays pending if this fails; Worker.Recover picks it up
	if err := s.queue.Enqueue(ctx, d.ID, d.ScheduledAt); err != nil {
		log.Error().Err(err).Uint("delivery_id", d.ID).Msg("failed to enqueue password delivery")
	}

	log.Debug().Uint("delivery_id", d.ID).Uint("attendee_id", attendee.ID).Time("scheduled_at", d.ScheduledAt).Msg("password delivery scheduled")
	return d, nil
}

// Reschedule cancels any pending delivery for attendee and schedules a new
// one with password.
func (s *Service) Reschedule(ctx context.Context, attendee *model.Attendee, password string) (*model.PasswordQueue, error) {
	if err := s.deliveries.CancelPending(ctx, attendee.ID, "superseded by a new password"); err != nil {
		return nil, fmt.Errorf("failed to cancel pending deliveries: %w", err)
	}
	return s.Schedule(ctx, attendee, password)
}

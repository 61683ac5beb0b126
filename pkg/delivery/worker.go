package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/mailer"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/queue"
	"github.com/pmcoe-ai1/conference-app/pkg/secretbox"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

const (
	DefaultPollInterval = time.Second
	DefaultBatchSize    = 20
)

// errPermanent marks failures that retrying cannot fix
var errPermanent = errors.New("permanent delivery failure")

// WorkerConfig tunes retries and polling
type WorkerConfig struct {
	MaxAttempts  int
	Backoff      time.Duration
	PollInterval time.Duration
	BatchSize    int
	// FrontendURL is used to build the login link in the email
	FrontendURL string
}

// Stores groups the tables the worker reads
type Stores struct {
	Deliveries  store.DeliveriesStore
	Attendees   store.AttendeesStore
	Conferences store.ConferencesStore
}

// Worker sends queued password emails one at a time
type Worker struct {
	stores    Stores
	queue     queue.Queue
	cipher    secretbox.Cipher
	mailer    mailer.Mailer
	templates *mailer.Templates
	cfg       WorkerConfig
	now       func() time.Time
}

func NewWorker(stores Stores, q queue.Queue, cipher secretbox.Cipher, m mailer.Mailer, templates *mailer.Templates, cfg WorkerConfig) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Worker{
		stores:    stores,
		queue:     q,
		cipher:    cipher,
		mailer:    m,
		templates: templates,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run recovers pending deliveries, then polls the queue until ctx is done
func (w *Worker) Run(ctx context.Context) error {
	n, err := w.Recover(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("recovered", n).Dur("poll_interval", w.cfg.PollInterval).Msg("password delivery worker started")

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("password delivery worker stopped")
			return nil
		case <-ticker.C:
			if _, err := w.Poll(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("password delivery poll failed")
			}
		}
	}
}

// Recover enqueues every pending delivery at its scheduled time. Pending
// rows survive a restart while an in-process queue does not.
func (w *Worker) Recover(ctx context.Context) (int, error) {
	pending, err := w.stores.Deliveries.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending deliveries: %w", err)
	}
	for _, d := range pending {
		if err := w.queue.Enqueue(ctx, d.ID, d.ScheduledAt); err != nil {
			return 0, err
		}
	}
	return len(pending), nil
}

// Poll processes the jobs that are due and returns how many it handled.
// Besides the queue it sweeps password_queue for due pending rows, so a
// worker that does not share the API server's queue still delivers.
func (w *Worker) Poll(ctx context.Context) (int, error) {
	now := w.now()
	ids, err := w.queue.Due(ctx, now, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	swept, err := w.stores.Deliveries.ListDue(ctx, now, w.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due deliveries: %w", err)
	}
	seen := make(map[uint]bool, len(ids)+len(swept))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range swept {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		if err := w.Process(ctx, id); err != nil {
			log.Error().Err(err).Uint("delivery_id", id).Msg("password delivery bookkeeping failed")
		}
	}
	return len(ids), nil
}

// Process sends one delivery and records the outcome. A failed send is
// retried after Backoff·2^(attempts-1) until MaxAttempts is reached.
func (w *Worker) Process(ctx context.Context, id uint) error {
	d, err := w.stores.Deliveries.ClaimDelivery(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug().Uint("delivery_id", id).Msg("delivery no longer pending, dropped")
		return nil
	}
	if err != nil {
		return err
	}

	sendErr := w.send(ctx, d)
	now := w.now()
	if sendErr == nil {
		log.Info().Uint("delivery_id", d.ID).Str("email", d.Email).Msg("password delivered")
		return w.stores.Deliveries.MarkSent(ctx, d.ID, now)
	}

	attempts := d.Attempts + 1
	msg := sendErr.Error()
	if errors.Is(sendErr, errPermanent) || attempts >= w.cfg.MaxAttempts {
		log.Error().Err(sendErr).Uint("delivery_id", d.ID).Int("attempts", attempts).Msg("password delivery failed")
		return w.stores.Deliveries.MarkFailed(ctx, d.ID, attempts, msg)
	}

	next := now.Add(Backoff(w.cfg.Backoff, attempts))
	log.Warn().Err(sendErr).Uint("delivery_id", d.ID).Int("attempts", attempts).Time("retry_at", next).Msg("password delivery will be retried")
	if err := w.stores.Deliveries.MarkRetry(ctx, d.ID, attempts, msg, next); err != nil {
		return err
	}
	return w.queue.Enqueue(ctx, d.ID, next)
}

func (w *Worker) send(ctx context.Context, d *model.PasswordQueue) error {
	attendee, err := w.stores.Attendees.GetAttendee(ctx, d.AttendeeID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: attendee %d was deleted", errPermanent, d.AttendeeID)
	}
	if err != nil {
		return err
	}
	conference, err := w.stores.Conferences.GetConference(ctx, attendee.ConferenceID)
	if err != nil {
		return err
	}

	password, err := w.cipher.Open(d.AAD(), d.EncryptedPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", errPermanent, err)
	}

	msg, err := w.templates.Credentials(d.Email, mailer.CredentialsData{
		Name:           attendee.Name,
		Email:          attendee.Email,
		Password:       string(password),
		ConferenceName: conference.Name,
		URLCode:        conference.URLCode,
		LoginURL:       strings.TrimRight(w.cfg.FrontendURL, "/") + "/login/" + conference.URLCode,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errPermanent, err)
	}
	return w.mailer.Send(ctx, msg)
}

// Backoff returns base·2^(attempts-1)
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return base << (attempts - 1)
}

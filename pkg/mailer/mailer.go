package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"github.com/pmcoe-ai1/conference-app/pkg/config"
)

// Message is a rendered email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends rendered messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the mailer selected by cfg.EmailProvider
func New(cfg *config.ConferenceConfig) (Mailer, error) {
	switch cfg.EmailProvider {
	case "smtp":
		return NewSMTPMailer(cfg)
	case "log", "":
		return LogMailer{}, nil
	}
	return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
}

// SMTPMailer delivers messages through an SMTP relay
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg *config.ConferenceConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.EmailFrom}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out := mail.NewMsg()
	if err := out.From(m.from); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.from, err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp delivery to %s failed: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes messages to the application log instead of sending them.
// Intended for development; message bodies include generated passwords.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("email (log provider)")
	return nil
}

package resend

//go:generate go run go.uber.org/mock/mockgen -source=./resend.go -destination=./mocks/resend_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"purohit/config"
	"purohit/infras/otel"
	"purohit/shared/constant"

	"github.com/resend/resend-go/v2"
)

var ErrNotConfigured = errors.New("email credentials not configured")

type Email struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// Mailer sends transactional email from the configured sender address.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, email Email) (string, error)
}

type Option func(*resend.Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(raw string) Option {
	return func(client *resend.Client) {
		if parsed, err := url.Parse(raw); err == nil {
			client.BaseURL = parsed
		}
	}
}

type mailer struct {
	client *resend.Client
	apiKey string
	from   string
	otel   otel.Otel
}

func New(cfg *config.Config, ot otel.Otel, opts ...Option) Mailer {
	client := resend.NewClient(cfg.Notification.Email.APIKey)
	for _, opt := range opts {
		opt(client)
	}

	return &mailer{
		client: client,
		apiKey: cfg.Notification.Email.APIKey,
		from:   cfg.Notification.Email.FromEmail,
		otel:   ot,
	}
}

func (m *mailer) Configured() bool {
	return m.apiKey != "" && m.from != ""
}

func (m *mailer) Send(ctx context.Context, email Email) (id string, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".resend.Send")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !m.Configured() {
		return "", ErrNotConfigured
	}

	scope.SetAttribute("email.subject", email.Subject)

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		ReplyTo: email.ReplyTo,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}

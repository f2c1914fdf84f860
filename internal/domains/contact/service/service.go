package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"purohit/config"
	"purohit/infras/otel"
	"purohit/infras/resend"
	"purohit/internal/domains/contact/model/dto"
	"purohit/shared/constant"
	"purohit/shared/failure"
	"purohit/shared/validator"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	MessageSendFailed = "Email send failed"

	subjectFormat = "Website Contact: %s"
)

var contactTemplate = template.Must(template.New("contact").Parse(`
<h2>New Contact Message</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{- if .Phone}}
<p><strong>Phone:</strong> {{.Phone}}</p>
{{- end}}
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong><br/>{{.Lines}}</p>
`))

// Contact relays website enquiries to the configured inbox.
type Contact interface {
	Send(ctx context.Context, req dto.ContactRequest) error
}

type serviceImpl struct {
	mailer    resend.Mailer
	recipient string
	otel      otel.Otel
}

func New(mailer resend.Mailer, cfg *config.Config, otel otel.Otel) Contact {
	return &serviceImpl{
		mailer:    mailer,
		recipient: cfg.Notification.Email.ContactRecipient,
		otel:      otel,
	}
}

func (s *serviceImpl) Send(ctx context.Context, req dto.ContactRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".contact.Send")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.Trim()

	if err = validator.ValidateStruct(&req); err != nil {
		return err //nolint:wrapcheck
	}

	if s.recipient == "" || !s.mailer.Configured() {
		log.Error().Msg("contact relay is missing email credentials or recipient")

		return failure.InternalError(errors.New(MessageSendFailed)) //nolint:wrapcheck
	}

	body, err := renderContact(req)
	if err != nil {
		log.Error().Err(err).Msg("failed to render contact email")

		return failure.InternalError(errors.New(MessageSendFailed)) //nolint:wrapcheck
	}

	id, err := s.mailer.Send(ctx, resend.Email{
		To:      []string{s.recipient},
		Subject: fmt.Sprintf(subjectFormat, req.Subject),
		HTML:    body,
		ReplyTo: req.Email,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to relay contact message")

		return failure.InternalError(errors.New(MessageSendFailed)) //nolint:wrapcheck
	}

	log.Info().Str("emailID", id).Msg("contact message relayed")

	return nil
}

func renderContact(req dto.ContactRequest) (string, error) {
	lines := strings.Split(req.Message, "\n")
	escaped := make([]string, len(lines))

	for i, line := range lines {
		escaped[i] = template.HTMLEscapeString(line)
	}

	var out bytes.Buffer

	err := contactTemplate.Execute(&out, struct {
		dto.ContactRequest
		Lines template.HTML
	}{
		ContactRequest: req,
		Lines:          template.HTML(strings.Join(escaped, "<br/>")), //nolint:gosec
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute contact template: %w", err)
	}

	return out.String(), nil
}

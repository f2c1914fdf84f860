package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"purohit/config"
	"purohit/infras/otel"
	"purohit/infras/resend"
	"purohit/infras/telegram"
	bookingModel "purohit/internal/domains/booking/model"
	"purohit/shared/constant"
	"purohit/shared/failure"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	ChannelChat  = "telegram"
	ChannelEmail = "email"

	MessageChatFailed  = "Telegram notification failed after retries"
	MessageEmailFailed = "Email confirmation failed"

	emailSubject = "Your Pooja Booking Confirmation: %s"
)

// Notifier delivers the two best-effort side effects of a stored booking.
// Missing credentials make either call a logged no-op.
type Notifier interface {
	NotifyChat(ctx context.Context, booking bookingModel.Record) error
	SendConfirmation(ctx context.Context, booking bookingModel.Record) error
}

type notifierImpl struct {
	telegram    telegram.Client
	mailer      resend.Mailer
	maxAttempts int
	retryDelay  time.Duration
	otel        otel.Otel
}

func New(telegram telegram.Client, mailer resend.Mailer, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		telegram:    telegram,
		mailer:      mailer,
		maxAttempts: max(1, cfg.Notification.Telegram.MaxAttempts),
		retryDelay:  time.Duration(cfg.Notification.Telegram.RetryDelayMs) * time.Millisecond,
		otel:        otel,
	}
}

// linearBackOff waits attempt × step before each retry.
type linearBackOff struct {
	step    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++

	return time.Duration(b.attempt) * b.step
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

func (n *notifierImpl) NotifyChat(ctx context.Context, booking bookingModel.Record) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".NotifyChat")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !n.telegram.Configured() {
		log.Warn().Str("reference", booking.BookingReference).Msg("telegram credentials missing, skipping chat notification")

		return nil
	}

	text := chatMessage(booking)
	attempts := 0

	_, err = backoff.Retry(ctx,
		func() (struct{}, error) {
			attempts++

			return struct{}{}, n.telegram.SendMessage(ctx, text)
		},
		backoff.WithBackOff(&linearBackOff{step: n.retryDelay}),
		backoff.WithMaxTries(uint(n.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Str("reference", booking.BookingReference).Dur("retryIn", next).Msg("telegram notification failed, retrying")
		}),
	)

	scope.SetAttribute("notification.attempts", attempts)

	if err != nil {
		log.Error().Err(err).Str("reference", booking.BookingReference).Int("attempts", attempts).Msg("telegram notification failed after retries")

		return failure.NewNotificationError(ChannelChat, MessageChatFailed, err)
	}

	return nil
}

func (n *notifierImpl) SendConfirmation(ctx context.Context, booking bookingModel.Record) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SendConfirmation")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !n.mailer.Configured() {
		log.Warn().Str("reference", booking.BookingReference).Msg("email credentials missing, skipping confirmation email")

		return nil
	}

	html, err := renderMarkdown(confirmationMarkdown(booking))
	if err != nil {
		log.Error().Err(err).Msg("failed to render confirmation email")

		return failure.NewNotificationError(ChannelEmail, MessageEmailFailed, err)
	}

	id, err := n.mailer.Send(ctx, resend.Email{
		To:      []string{booking.Email},
		Subject: fmt.Sprintf(emailSubject, booking.BookingReference),
		HTML:    html,
	})
	if err != nil {
		log.Error().Err(err).Str("reference", booking.BookingReference).Msg("failed to send confirmation email")

		return failure.NewNotificationError(ChannelEmail, MessageEmailFailed, err)
	}

	log.Info().Str("reference", booking.BookingReference).Str("emailID", id).Msg("confirmation email sent")

	return nil
}

func chatMessage(booking bookingModel.Record) string {
	requests := booking.SpecialRequests
	if requests == "" {
		requests = "None"
	}

	lines := []string{
		"🛕 *New Pooja Booking*",
		"*Ref*: " + escapeMarkdown(booking.BookingReference),
		"*Name*: " + escapeMarkdown(booking.Name),
		"*Pooja*: " + escapeMarkdown(booking.PoojaType),
		"*Date*: " + escapeMarkdown(booking.Date+" "+booking.Time),
		"*Location*: " + escapeMarkdown(booking.Location),
		"*Requests*: " + escapeMarkdown(requests),
	}

	if booking.UserID != "" {
		lines = append(lines, "*User ID*: "+escapeMarkdown(booking.UserID))
	}

	return strings.Join(lines, "\n")
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

func escapeMarkdown(value string) string {
	return markdownEscaper.Replace(value)
}

var emailEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`, "|", `\|`, "<", "&lt;", ">", "&gt;")

func escapeEmail(value string) string {
	return emailEscaper.Replace(value)
}

func confirmationMarkdown(booking bookingModel.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Namaste %s,\n\n", escapeEmail(booking.Name))
	fmt.Fprintf(&b, "Thank you for booking with us. Your reference is **%s**.\n\n", booking.BookingReference)
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Pooja | %s |\n", escapeEmail(booking.PoojaType))
	fmt.Fprintf(&b, "| Date | %s |\n", booking.Date)
	fmt.Fprintf(&b, "| Time | %s |\n", booking.Time)
	fmt.Fprintf(&b, "| Location | %s |\n", escapeEmail(booking.Location))
	fmt.Fprintf(&b, "| Status | %s |\n", booking.Status.Label())

	if booking.SpecialRequests != "" {
		fmt.Fprintf(&b, "\n**Special requests:** %s\n", escapeEmail(booking.SpecialRequests))
	}

	b.WriteString("\nWe will contact you shortly to confirm the details.\n")

	return b.String()
}

var (
	markdownOnce   sync.Once
	markdownEngine goldmark.Markdown
)

// renderMarkdown leaves raw HTML in the source unrendered.
func renderMarkdown(source string) (string, error) {
	markdownOnce.Do(func() {
		markdownEngine = goldmark.New(goldmark.WithExtensions(extension.Table))
	})

	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &out); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	if out.Len() == 0 {
		return "", errors.New("empty email body")
	}

	return out.String(), nil
}

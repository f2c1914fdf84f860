package resend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purohit/config"
	"purohit/infras/otel/mocks"
	"purohit/infras/resend"
)

func newConfig(key, from string) *config.Config {
	cfg := &config.Config{}
	cfg.Notification.Email.APIKey = key
	cfg.Notification.Email.FromEmail = from

	return cfg
}

func TestSend(t *testing.T) {
	var got map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer server.Close()

	mailer := resend.New(newConfig("re_key", "Purohit <noreply@example.com>"), mocks.NewOtel(), resend.WithBaseURL(server.URL+"/"))

	id, err := mailer.Send(context.Background(), resend.Email{
		To:      []string{"asha@example.com"},
		Subject: "Your Pooja Booking Confirmation: BK123456",
		HTML:    "<p>hi</p>",
		ReplyTo: "desk@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "email-1", id)
	assert.Equal(t, "Purohit <noreply@example.com>", got["from"])
	assert.Equal(t, "Your Pooja Booking Confirmation: BK123456", got["subject"])
	assert.Equal(t, "<p>hi</p>", got["html"])
}

func TestSendNotConfigured(t *testing.T) {
	mailer := resend.New(newConfig("", ""), mocks.NewOtel())

	assert.False(t, mailer.Configured())

	_, err := mailer.Send(context.Background(), resend.Email{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, resend.ErrNotConfigured)
}

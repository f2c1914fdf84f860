package telegram

//go:generate go run go.uber.org/mock/mockgen -source=./telegram.go -destination=./mocks/telegram_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"purohit/config"
	"purohit/infras/otel"
	"purohit/shared/constant"
	"time"
)

const (
	ParseModeMarkdown = "Markdown"

	sendMessagePath = "/bot%s/sendMessage"
)

var ErrNotConfigured = errors.New("telegram credentials not configured")

// Client posts messages to the configured chat through the Bot API.
type Client interface {
	Configured() bool
	SendMessage(ctx context.Context, text string) error
}

// APIError is a non-ok Bot API reply.
type APIError struct {
	Status      int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api status %d: %s", e.Status, e.Description)
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

type client struct {
	http    *http.Client
	baseURL string
	token   string
	chatID  string
	otel    otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) Client {
	telegram := cfg.Notification.Telegram

	return &client{
		http:    &http.Client{Timeout: time.Duration(telegram.TimeoutSeconds) * time.Second},
		baseURL: telegram.BaseURL,
		token:   telegram.BotToken,
		chatID:  telegram.ChatID,
		otel:    ot,
	}
}

func (c *client) Configured() bool {
	return c.token != "" && c.chatID != ""
}

func (c *client) SendMessage(ctx context.Context, text string) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".telegram.SendMessage")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: c.chatID, Text: text, ParseMode: ParseModeMarkdown})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fmt.Sprintf(sendMessagePath, c.token), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call telegram: %w", err)
	}
	defer resp.Body.Close()

	var reply apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&reply); err != nil && resp.StatusCode == http.StatusOK {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}

	scope.SetAttribute("http.status_code", resp.StatusCode)

	if resp.StatusCode != http.StatusOK || !reply.OK {
		return &APIError{Status: resp.StatusCode, Description: reply.Description}
	}

	return nil
}

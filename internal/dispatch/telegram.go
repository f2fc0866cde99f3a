package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"context"
)

// TelegramProvider delivers through the Telegram bot API. The channel
// target is the chat id.
type TelegramProvider struct {
	botToken string
	baseURL  string
	client   *http.Client
}

// NewTelegramProvider creates a Telegram provider.
func NewTelegramProvider(botToken string) *TelegramProvider {
	return &TelegramProvider{
		botToken: botToken,
		baseURL:  "https://api.telegram.org",
		client:   &http.Client{},
	}
}

// NewTelegramProviderWithBase creates a Telegram provider against a custom
// base URL, used by tests.
func NewTelegramProviderWithBase(botToken, baseURL string) *TelegramProvider {
	p := NewTelegramProvider(botToken)
	p.baseURL = strings.TrimSuffix(baseURL, "/")
	return p
}

// Name returns the provider name recorded in the delivery ledger.
func (t *TelegramProvider) Name() string {
	return "telegram"
}

// Send posts a sendMessage call and returns the Telegram message id.
func (t *TelegramProvider) Send(ctx context.Context, target, text string) (string, error) {
	if t.botToken == "" {
		return "", fmt.Errorf("telegram bot token not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	payload := map[string]interface{}{
		"chat_id": target,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling telegram payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	var parsed struct {
		OK     bool `json:"ok"`
		Result struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding telegram response: %w", err)
	}
	if !parsed.OK {
		return "", fmt.Errorf("telegram API rejected the message")
	}
	return fmt.Sprintf("%d", parsed.Result.MessageID), nil
}

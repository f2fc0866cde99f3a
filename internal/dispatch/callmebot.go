package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// CallMeBotProvider delivers through the CallMeBot WhatsApp gateway. The
// channel target is the phone number in international format.
type CallMeBotProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewCallMeBotProvider creates a CallMeBot provider.
func NewCallMeBotProvider(apiKey string) *CallMeBotProvider {
	return &CallMeBotProvider{
		apiKey:  apiKey,
		baseURL: "https://api.callmebot.com",
		client:  &http.Client{},
	}
}

// NewCallMeBotProviderWithBase creates a CallMeBot provider against a
// custom base URL, used by tests.
func NewCallMeBotProviderWithBase(apiKey, baseURL string) *CallMeBotProvider {
	p := NewCallMeBotProvider(apiKey)
	p.baseURL = strings.TrimSuffix(baseURL, "/")
	return p
}

// Name returns the provider name recorded in the delivery ledger.
func (c *CallMeBotProvider) Name() string {
	return "callmebot"
}

// Send issues the gateway GET call. CallMeBot has no message id; an empty
// id with a nil error means accepted.
func (c *CallMeBotProvider) Send(ctx context.Context, target, text string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("callmebot api key not configured")
	}

	endpoint := fmt.Sprintf("%s/whatsapp.php?phone=%s&text=%s&apikey=%s",
		c.baseURL,
		url.QueryEscape(target),
		url.QueryEscape(text),
		url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating callmebot request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending callmebot message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("callmebot returned status %d", resp.StatusCode)
	}

	// The gateway signals business-level rejections in a 200 body.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if strings.Contains(strings.ToLower(string(body)), "error") {
		return "", fmt.Errorf("callmebot rejected the message")
	}
	return "", nil
}

// Package source provides the upstream source adapters. Each adapter
// returns raw events in the normalized-output contract; the scraping and
// transport details stay behind this boundary.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	apperrors "fiialert/internal/errors"
	"fiialert/internal/models"
	"fiialert/pkg/utils"
)

// EventSource fetches recent raw events since a point in time. It must be
// safe to call repeatedly with overlapping windows; natural keys absorb the
// duplicates downstream.
type EventSource interface {
	Name() string
	FetchRecent(ctx context.Context, since time.Time) ([]models.RawEvent, error)
}

// Options configures the shared transport behavior of every adapter.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

func (o Options) policy() utils.RetryPolicy {
	p := utils.DefaultRetryPolicy()
	if o.MaxRetries > 0 {
		p.MaxAttempts = o.MaxRetries
	}
	if o.BaseDelay > 0 {
		p.BaseDelay = o.BaseDelay
	}
	p.Retryable = retryable
	return p
}

func (o Options) client() *http.Client {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// retryable treats 5xx/429 and transport timeouts as transient; client
// errors are permanent.
func retryable(err error) bool {
	var statusErr *apperrors.HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// getJSON performs a GET with the retry policy and decodes the body into
// target.
func getJSON(ctx context.Context, client *http.Client, policy utils.RetryPolicy, url string, target interface{}) error {
	body, err := utils.DoWithResult(ctx, policy, func() ([]byte, error) {
		return fetchOnce(ctx, client, url)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

func fetchOnce(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fiialert/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return buf, nil
}

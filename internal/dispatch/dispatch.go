// Package dispatch sends notification texts through an ordered chain of
// delivery providers with per-provider timeouts and fallback.
package dispatch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "fiialert/internal/errors"
)

// Provider is one delivery transport in the chain.
type Provider interface {
	Name() string
	// Send delivers text to target and returns the provider message id.
	// A non-2xx response or timeout is an error; business-level rejections
	// are errors too but are reported distinguishably by the provider.
	Send(ctx context.Context, target, text string) (string, error)
}

// Result is the outcome of a dispatch attempt through the whole chain.
type Result struct {
	Sent      bool
	Provider  string
	MessageID string
	Err       error
}

// Chain tries providers in order. A failing provider is not retried within
// the same cycle; the next provider is tried instead. Sequential fallback
// rather than parallel racing keeps one event from reaching the same user
// through two transports.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewChain creates a provider chain with a per-provider timeout.
func NewChain(providers []Provider, timeout time.Duration, logger zerolog.Logger) *Chain {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Chain{providers: providers, timeout: timeout, logger: logger}
}

// Dispatch sends text to target through the chain. It never panics past
// this boundary; the caller finalizes the ledger claim from the Result.
func (c *Chain) Dispatch(ctx context.Context, target, text string) Result {
	var lastErr error

	for _, p := range c.providers {
		provCtx, cancel := context.WithTimeout(ctx, c.timeout)
		messageID, err := p.Send(provCtx, target, text)
		cancel()

		if err == nil {
			return Result{Sent: true, Provider: p.Name(), MessageID: messageID}
		}

		lastErr = apperrors.NewDispatchError(p.Name(), target, err)
		c.logger.Warn().
			Str("provider", p.Name()).
			Err(err).
			Msg("Provider failed, falling through")

		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		lastErr = apperrors.ErrAllProvidersFailed
	}
	return Result{Err: lastErr}
}

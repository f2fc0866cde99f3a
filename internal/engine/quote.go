package engine

import (
	"context"

	apperrors "fiialert/internal/errors"
	"fiialert/internal/format"
	"fiialert/internal/models"
	"fiialert/internal/normalizer"
)

// QuoteOnDemand serves a user-initiated quote request. This path is gated
// by the cooldown limiter, never by the delivery ledger: repeated manual
// queries are legitimate once the cooldown expires.
func (e *Engine) QuoteOnDemand(ctx context.Context, userID, ticker string) (string, error) {
	if !e.limiter.Allow(userID, ticker) {
		return "", apperrors.ErrRateLimited
	}
	e.limiter.Record(userID, ticker)

	raws, err := e.quotes.FetchQuotes(ctx, []string{ticker})
	if err != nil {
		return "", err
	}
	if len(raws) == 0 {
		return "", apperrors.ErrFundNotFound
	}

	event, err := normalizer.Normalize(raws[0], e.quotes.Name())
	if err != nil {
		return "", err
	}

	return format.Message(event, models.DetailComplete), nil
}

// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"fiialert/internal/models"
)

// DataStore defines the interface for data persistence. The delivery ledger
// operations are the only writes the engine performs; subscriptions are
// owned by the web application and only read here (the CRUD surface exists
// for operators and tests).
type DataStore interface {
	// Funds
	UpsertFund(ctx context.Context, ticker, displayName string) (*models.Fund, error)
	GetFundByTicker(ctx context.Context, ticker string) (*models.Fund, error)
	ListFunds(ctx context.Context) ([]models.Fund, error)

	// Subscriptions
	SaveSubscription(ctx context.Context, sub *models.Subscription) error
	DeleteSubscription(ctx context.Context, userID, ticker string) error
	// ResolveSubscribers returns a ticker -> subscriptions multimap in one
	// round trip. Tickers without a fund or without followers are simply
	// absent from the result.
	ResolveSubscribers(ctx context.Context, tickers []string) (map[string][]models.Subscription, error)
	// TrackedTickers lists every ticker with at least one subscription.
	TrackedTickers(ctx context.Context) ([]string, error)

	// Delivery ledger. TryClaim is a single atomic conditional write: it
	// claims (userID, naturalKey) unless a pending or sent record already
	// holds the key. A failed record is reclaimable. The returned event key
	// finalizes the claim via MarkSent or MarkFailed.
	TryClaim(ctx context.Context, userID, naturalKey string) (eventKey string, claimed bool, err error)
	MarkSent(ctx context.Context, eventKey, channel, providerMessageID string) error
	MarkFailed(ctx context.Context, eventKey string) error
	GetDelivery(ctx context.Context, eventKey string) (*models.DeliveryRecord, error)

	// Manual-review sink for unresolved normalizations.
	EnqueueReview(ctx context.Context, item *models.ReviewItem) error
	ListReview(ctx context.Context, limit int) ([]models.ReviewItem, error)

	// Lifecycle
	Close() error
}

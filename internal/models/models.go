// Package models provides domain models for the alert engine.
package models

import (
	"time"
)

// EventKind represents the kind of a market event.
type EventKind string

const (
	KindPriceVariation    EventKind = "PRICE_VARIATION"
	KindDividendAnnounced EventKind = "DIVIDEND_ANNOUNCED"
	KindDocumentFiled     EventKind = "DOCUMENT_FILED"
)

// DetailLevel selects between the minimal and extended notification templates.
type DetailLevel string

const (
	DetailSimple   DetailLevel = "SIMPLE"
	DetailComplete DetailLevel = "COMPLETE"
)

// Fund represents a tracked real-estate fund (FII).
type Fund struct {
	ID          int64
	Ticker      string // canonical 4-letter + 2-digit code, immutable
	DisplayName string
	CreatedAt   time.Time
}

// Subscription represents a user following a fund.
// Owned by the web application; the engine only reads it.
type Subscription struct {
	UserID              string
	FundID              int64
	Ticker              string
	Categories          []EventKind
	MinVariationPercent float64
	Cooldown            time.Duration
	ChannelTarget       string // opaque delivery address (chat id, phone)
	ExtendedInfo        bool
	CreatedAt           time.Time
}

// WantsCategory reports whether the subscription has the given event kind enabled.
func (s *Subscription) WantsCategory(kind EventKind) bool {
	for _, c := range s.Categories {
		if c == kind {
			return true
		}
	}
	return false
}

// Detail returns the template detail level for this subscription.
func (s *Subscription) Detail() DetailLevel {
	if s.ExtendedInfo {
		return DetailComplete
	}
	return DetailSimple
}

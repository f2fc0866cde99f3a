package models

import "time"

// RawEvent is the normalized-output contract of a source adapter. Fields are
// populated per kind; the normalizer maps them into a canonical MarketEvent.
type RawEvent struct {
	Kind        EventKind
	Ticker      string // may be empty or dirty
	TradingName string
	LegalName   string

	// Quote fields (PRICE_VARIATION)
	Price            float64
	PreviousClose    float64
	VariationPercent float64
	Volume           int64
	BookValue        float64
	Patrimony        float64
	TradingDate      time.Time

	// Dividend fields (DIVIDEND_ANNOUNCED)
	Rate          float64
	PaymentDate   time.Time
	RelatedPeriod string // e.g. "Dezembro/2025"

	// Document fields (DOCUMENT_FILED)
	DocumentID   string // provider document id when available
	DocumentType string
	DocumentURL  string
	ReceivedDate time.Time
}

// MarketEvent is the canonical, ephemeral representation of a market fact.
// Only its NaturalKey outlives the cycle, inside the delivery ledger.
type MarketEvent struct {
	Ticker     string
	Kind       EventKind
	NaturalKey string
	Source     string

	Quote    *QuotePayload
	Dividend *DividendPayload
	Document *DocumentPayload
}

// QuotePayload carries price-variation data.
type QuotePayload struct {
	Price            float64
	PreviousClose    float64
	VariationPercent float64
	Volume           int64
	BookValue        float64
	Patrimony        float64
	TradingDate      time.Time
}

// DividendPayload carries dividend-announcement data.
type DividendPayload struct {
	Rate          float64
	PaymentDate   time.Time
	RelatedPeriod string
}

// DocumentPayload carries regulatory-filing data.
type DocumentPayload struct {
	DocumentID   string
	DocumentType string
	URL          string
	ReceivedDate time.Time
	Summary      string // filled by the summarizer when available
}

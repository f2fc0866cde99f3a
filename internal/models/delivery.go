package models

import "time"

// DeliveryStatus represents the lifecycle of a ledger claim.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// DeliveryRecord is one row of the dedup ledger. The uniqueness of EventKey
// is the at-most-once guarantee: no two sent records share an EventKey.
type DeliveryRecord struct {
	EventKey          string // hash(naturalKey, userID)
	UserID            string
	Channel           string
	ProviderMessageID string
	Status            DeliveryStatus
	SentAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReviewItem is an event whose ticker could not be resolved confidently,
// queued for manual curation instead of automated delivery.
type ReviewItem struct {
	ID          int64
	Source      string
	Kind        EventKind
	TradingName string
	LegalName   string
	Reason      string
	CreatedAt   time.Time
}

// CycleReport summarizes one scheduled engine invocation.
type CycleReport struct {
	StartedAt       time.Time `json:"started_at"`
	Duration        string    `json:"duration"`
	EventsSeen      int       `json:"events_seen"`
	Unresolved      int       `json:"unresolved"`
	EligiblePairs   int       `json:"eligible_pairs"`
	Delivered       int       `json:"delivered"`
	Failed          int       `json:"failed"`
	SkippedDeadline int       `json:"skipped_deadline"`
	SourceErrors    []string  `json:"source_errors,omitempty"`
}

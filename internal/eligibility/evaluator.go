// Package eligibility decides, per (event, subscription) pair, whether a
// notification is warranted. Evaluation is pure and stateless.
package eligibility

import (
	"math"
	"time"

	"fiialert/internal/models"
)

// DefaultMinVariation is the threshold applied when a subscription leaves
// its minimum variation unset. A small positive epsilon instead of zero
// avoids alert storms on rounding noise.
const DefaultMinVariation = 0.05

// SuppressionReason explains why a pair was excluded.
type SuppressionReason string

const (
	ReasonCategoryDisabled   SuppressionReason = "category_disabled"
	ReasonBelowThreshold     SuppressionReason = "below_threshold"
	ReasonOutsideMarketHours SuppressionReason = "outside_market_hours"
)

// Result is the outcome of evaluating one (event, subscription) pair.
type Result struct {
	Eligible bool
	Reason   SuppressionReason
}

var eligible = Result{Eligible: true}

func suppressed(reason SuppressionReason) Result {
	return Result{Reason: reason}
}

// Evaluator applies the category, threshold and trading-window gates.
type Evaluator struct {
	window *MarketWindow
}

// NewEvaluator creates an evaluator gated by the given market window.
func NewEvaluator(window *MarketWindow) *Evaluator {
	return &Evaluator{window: window}
}

// Evaluate runs the gates in order. The threshold and trading-window gates
// apply only to price-variation events; other kinds pass on category alone.
func (e *Evaluator) Evaluate(event models.MarketEvent, sub models.Subscription, now time.Time) Result {
	if !sub.WantsCategory(event.Kind) {
		return suppressed(ReasonCategoryDisabled)
	}

	if event.Kind != models.KindPriceVariation {
		return eligible
	}

	threshold := sub.MinVariationPercent
	if threshold <= 0 {
		threshold = DefaultMinVariation
	}

	var variation float64
	if event.Quote != nil {
		variation = event.Quote.VariationPercent
	}
	// Boundary is inclusive: a variation exactly at the threshold alerts.
	if math.Abs(variation) < threshold {
		return suppressed(ReasonBelowThreshold)
	}

	if !e.window.Contains(now) {
		return suppressed(ReasonOutsideMarketHours)
	}

	return eligible
}

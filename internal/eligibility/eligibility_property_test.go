package eligibility

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any variation v and threshold tr > 0, a price event inside the trading
// window with the category enabled is eligible exactly when |v| >= tr.
func TestPropertyThresholdIsInclusiveOnAbsoluteValue(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	loc := saoPaulo(t)
	midSession := time.Date(2026, 8, 26, 14, 0, 0, 0, loc)
	eval := NewEvaluator(b3Window(t))

	properties.Property("eligible iff abs(variation) >= threshold", prop.ForAll(
		func(variation, threshold float64) bool {
			if math.IsNaN(variation) || math.IsInf(variation, 0) {
				return true
			}

			res := eval.Evaluate(priceEvent(variation), allKindsSub(threshold), midSession)
			want := math.Abs(variation) >= threshold

			if res.Eligible != want {
				t.Logf("variation=%f threshold=%f eligible=%v want=%v",
					variation, threshold, res.Eligible, want)
				return false
			}
			if !res.Eligible && res.Reason != ReasonBelowThreshold {
				t.Logf("variation=%f threshold=%f unexpected reason %q",
					variation, threshold, res.Reason)
				return false
			}
			return true
		},
		gen.Float64Range(-15, 15),
		gen.Float64Range(0.01, 10),
	))

	properties.Property("sign of variation never changes the outcome", prop.ForAll(
		func(variation, threshold float64) bool {
			pos := eval.Evaluate(priceEvent(variation), allKindsSub(threshold), midSession)
			neg := eval.Evaluate(priceEvent(-variation), allKindsSub(threshold), midSession)
			return pos.Eligible == neg.Eligible
		},
		gen.Float64Range(0, 15),
		gen.Float64Range(0.01, 10),
	))

	properties.TestingRun(t)
}

// A disabled category suppresses every event of that kind regardless of
// variation, threshold or time of day.
func TestPropertyCategoryGateIsAbsolute(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	loc := saoPaulo(t)
	eval := NewEvaluator(b3Window(t))

	properties.Property("price events suppressed when category off", prop.ForAll(
		func(variation float64, hour int) bool {
			sub := allKindsSub(0.01)
			sub.Categories = nil
			now := time.Date(2026, 8, 26, hour, 0, 0, 0, loc)

			res := eval.Evaluate(priceEvent(variation), sub, now)
			return !res.Eligible && res.Reason == ReasonCategoryDisabled
		},
		gen.Float64Range(-15, 15),
		gen.IntRange(0, 23),
	))

	properties.TestingRun(t)
}

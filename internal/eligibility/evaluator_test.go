package eligibility

import (
	"testing"
	"time"

	"fiialert/internal/config"
	"fiialert/internal/models"
)

func b3Window(t *testing.T) *MarketWindow {
	t.Helper()
	w, err := NewMarketWindow(config.MarketWindowConfig{
		Timezone:  "America/Sao_Paulo",
		OpenHour:  10,
		CloseHour: 18,
	})
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func priceEvent(variation float64) models.MarketEvent {
	return models.MarketEvent{
		Ticker: "HGLG11",
		Kind:   models.KindPriceVariation,
		Quote:  &models.QuotePayload{Price: 160.00, VariationPercent: variation},
	}
}

func allKindsSub(minVariation float64) models.Subscription {
	return models.Subscription{
		UserID: "u1",
		Ticker: "HGLG11",
		Categories: []models.EventKind{
			models.KindPriceVariation,
			models.KindDividendAnnounced,
			models.KindDocumentFiled,
		},
		MinVariationPercent: minVariation,
	}
}

func TestEvaluateGates(t *testing.T) {
	loc := saoPaulo(t)
	midSession := time.Date(2026, 8, 26, 14, 0, 0, 0, loc) // Wednesday
	evening := time.Date(2026, 8, 26, 21, 0, 0, 0, loc)
	saturday := time.Date(2026, 8, 29, 14, 0, 0, 0, loc)

	eval := NewEvaluator(b3Window(t))

	tests := []struct {
		name       string
		event      models.MarketEvent
		sub        models.Subscription
		now        time.Time
		wantOK     bool
		wantReason SuppressionReason
	}{
		{"variation above threshold in session", priceEvent(3.1), allKindsSub(2.0), midSession, true, ""},
		{"negative variation counts absolute", priceEvent(-3.1), allKindsSub(2.0), midSession, true, ""},
		{"variation exactly at threshold alerts", priceEvent(2.0), allKindsSub(2.0), midSession, true, ""},
		{"variation below threshold", priceEvent(1.9), allKindsSub(2.0), midSession, false, ReasonBelowThreshold},
		{"zero threshold falls back to epsilon", priceEvent(0.01), allKindsSub(0), midSession, false, ReasonBelowThreshold},
		{"epsilon boundary is inclusive", priceEvent(DefaultMinVariation), allKindsSub(0), midSession, true, ""},
		{"price outside market hours", priceEvent(3.1), allKindsSub(2.0), evening, false, ReasonOutsideMarketHours},
		{"price on weekend", priceEvent(3.1), allKindsSub(2.0), saturday, false, ReasonOutsideMarketHours},
		{
			"category disabled wins over everything",
			priceEvent(9.9),
			models.Subscription{Categories: []models.EventKind{models.KindDividendAnnounced}},
			midSession, false, ReasonCategoryDisabled,
		},
		{
			"dividend ignores threshold and window",
			models.MarketEvent{Kind: models.KindDividendAnnounced, Dividend: &models.DividendPayload{Rate: 0.92}},
			allKindsSub(99),
			saturday, true, "",
		},
		{
			"document ignores threshold and window",
			models.MarketEvent{Kind: models.KindDocumentFiled, Document: &models.DocumentPayload{DocumentType: "Relatório Gerencial"}},
			allKindsSub(99),
			evening, true, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eval.Evaluate(tt.event, tt.sub, tt.now)
			if got.Eligible != tt.wantOK {
				t.Fatalf("Eligible = %v, want %v (reason %q)", got.Eligible, tt.wantOK, got.Reason)
			}
			if !tt.wantOK && got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestMarketWindowBoundaries(t *testing.T) {
	loc := saoPaulo(t)
	w := b3Window(t)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"opening minute", time.Date(2026, 8, 26, 10, 0, 0, 0, loc), true},
		{"minute before open", time.Date(2026, 8, 26, 9, 59, 0, 0, loc), false},
		{"closing minute is excluded", time.Date(2026, 8, 26, 18, 0, 0, 0, loc), false},
		{"minute before close", time.Date(2026, 8, 26, 17, 59, 0, 0, loc), true},
		{"sunday mid-session hours", time.Date(2026, 8, 30, 14, 0, 0, 0, loc), false},
		{"utc timestamp converted to market zone", time.Date(2026, 8, 26, 20, 30, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestNewMarketWindowRejectsUnknownTimezone(t *testing.T) {
	_, err := NewMarketWindow(config.MarketWindowConfig{Timezone: "Mars/Olympus_Mons"})
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

package normalizer

import (
	"testing"
	"time"

	apperrors "fiialert/internal/errors"
	"fiialert/internal/models"
)

func TestResolveTickerTable(t *testing.T) {
	tests := []struct {
		name        string
		ticker      string
		tradingName string
		legalName   string
		want        string
		wantOK      bool
	}{
		{"explicit clean ticker", "HGLG11", "", "", "HGLG11", true},
		{"explicit lowercase", "mxrf11", "", "", "MXRF11", true},
		{"trading name is ticker", "", "KNRI11", "", "KNRI11", true},
		{"short alpha code gets default suffix", "", "HGRE", "", "HGRE11", true},
		{"five letter code truncated", "", "VISCA", "", "VISC11", true},
		{"derived from legal name", "", "", "MAXI RENDA FDO INV IMOB", "MAXI11", true},
		{"derived keeps numeric suffix", "", "", "BTG PACTUAL LOGISTICA FII 11", "BTGP11", true},
		{"short first word uses initials", "", "", "RBR ALPHA MULTIESTRATEGIA FDO INV IMOB", "RBRA11", true},
		{"noise only is unresolved", "", "", "FII FDO DE INV IMOB", "", false},
		{"empty input is unresolved", "", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := ResolveTicker(tt.ticker, tt.tradingName, tt.legalName)
			if ok != tt.wantOK {
				t.Fatalf("ResolveTicker ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && res.Ticker != tt.want {
				t.Errorf("ResolveTicker = %q, want %q", res.Ticker, tt.want)
			}
		})
	}
}

func TestResolveTickerMarksHeuristics(t *testing.T) {
	res, ok := ResolveTicker("HGLG11", "", "")
	if !ok || res.Heuristic {
		t.Errorf("explicit ticker should not be heuristic, got %+v", res)
	}

	res, ok = ResolveTicker("", "", "MAXI RENDA FDO INV IMOB")
	if !ok || !res.Heuristic {
		t.Errorf("derived ticker should be heuristic, got %+v", res)
	}
}

func TestNormalizeUnresolvedRoutesToReview(t *testing.T) {
	raw := models.RawEvent{
		Kind:      models.KindDocumentFiled,
		LegalName: "FII FDO DE INV IMOB",
	}
	_, err := Normalize(raw, "disclosure-portal")
	if !apperrors.Is(err, apperrors.ErrUnresolvedTicker) {
		t.Fatalf("expected ErrUnresolvedTicker, got %v", err)
	}
}

func TestNormalizeDividendKeyIsStable(t *testing.T) {
	raw := models.RawEvent{
		Kind:          models.KindDividendAnnounced,
		Ticker:        "MXRF11",
		Rate:          0.92,
		PaymentDate:   time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		RelatedPeriod: "Dezembro/2025",
	}

	first, err := Normalize(raw, "dividend-feed")
	if err != nil {
		t.Fatal(err)
	}
	// Re-ingesting the same upstream record must yield the same key.
	second, err := Normalize(raw, "dividend-feed")
	if err != nil {
		t.Fatal(err)
	}
	if first.NaturalKey != second.NaturalKey {
		t.Errorf("natural key not stable: %s != %s", first.NaturalKey, second.NaturalKey)
	}

	changed := raw
	changed.Rate = 0.93
	third, err := Normalize(changed, "dividend-feed")
	if err != nil {
		t.Fatal(err)
	}
	if third.NaturalKey == first.NaturalKey {
		t.Error("different rate must produce a different natural key")
	}
}

func TestNormalizePriceKeyPerTradingDay(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	morning := models.RawEvent{
		Kind:             models.KindPriceVariation,
		Ticker:           "HGLG11",
		Price:            160.00,
		VariationPercent: 1.2,
		TradingDate:      day,
	}
	afternoon := morning
	afternoon.Price = 163.50
	afternoon.VariationPercent = 3.4

	a, err := Normalize(morning, "market-data")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Normalize(afternoon, "market-data")
	if err != nil {
		t.Fatal(err)
	}
	if a.NaturalKey != b.NaturalKey {
		t.Error("price events on the same trading day must share a natural key")
	}

	nextDay := morning
	nextDay.TradingDate = day.AddDate(0, 0, 1)
	c, err := Normalize(nextDay, "market-data")
	if err != nil {
		t.Fatal(err)
	}
	if c.NaturalKey == a.NaturalKey {
		t.Error("price events on different trading days must differ")
	}
}

func TestNormalizeDocumentKeyPrefersProviderID(t *testing.T) {
	withID := models.RawEvent{
		Kind:         models.KindDocumentFiled,
		Ticker:       "HGLG11",
		DocumentID:   "987654",
		DocumentType: "Relatório Gerencial",
		ReceivedDate: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}
	withoutID := withID
	withoutID.DocumentID = ""

	a, err := Normalize(withID, "disclosure-portal")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Normalize(withoutID, "disclosure-portal")
	if err != nil {
		t.Fatal(err)
	}
	if a.NaturalKey == b.NaturalKey {
		t.Error("id-based and fallback keys must differ")
	}
}

func TestNormalizeMalformedRecordsReturnErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawEvent
	}{
		{"price without price", models.RawEvent{Kind: models.KindPriceVariation, Ticker: "HGLG11", TradingDate: time.Now()}},
		{"price without trading date", models.RawEvent{Kind: models.KindPriceVariation, Ticker: "HGLG11", Price: 100}},
		{"dividend without rate", models.RawEvent{Kind: models.KindDividendAnnounced, Ticker: "MXRF11", PaymentDate: time.Now()}},
		{"document without id or type", models.RawEvent{Kind: models.KindDocumentFiled, Ticker: "HGLG11"}},
		{"unknown kind", models.RawEvent{Kind: "BOGUS", Ticker: "HGLG11"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(tt.raw, "test"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestEventKeyBindsUser(t *testing.T) {
	if EventKey("nk", "user-a") == EventKey("nk", "user-b") {
		t.Error("event keys for different users must differ")
	}
	if EventKey("nk", "user-a") != EventKey("nk", "user-a") {
		t.Error("event key must be deterministic")
	}
}

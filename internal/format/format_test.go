package format

import (
	"strings"
	"testing"
	"time"

	"fiialert/internal/models"
)

func fullQuoteEvent() models.MarketEvent {
	return models.MarketEvent{
		Ticker: "HGLG11",
		Kind:   models.KindPriceVariation,
		Quote: &models.QuotePayload{
			Price:            160.50,
			PreviousClose:    155.00,
			VariationPercent: 3.55,
			Volume:           125000,
			BookValue:        158.20,
			Patrimony:        3100000000,
			TradingDate:      time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestPriceMessageSimple(t *testing.T) {
	got := Message(fullQuoteEvent(), models.DetailSimple)
	want := "📈 HGLG11\nCotação: R$ 160,50 (+3,55%)"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPriceMessageComplete(t *testing.T) {
	got := Message(fullQuoteEvent(), models.DetailComplete)
	want := "📈 HGLG11\n" +
		"Cotação: R$ 160,50 (+3,55%)\n" +
		"Fechamento anterior: R$ 155,00\n" +
		"Volume: 125.000\n" +
		"Valor patrimonial: R$ 158,20\n" +
		"Patrimônio líquido: R$ 3,10 bi\n" +
		"Pregão: 28/08/2026"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPriceMessageNegativeVariationEmoji(t *testing.T) {
	event := fullQuoteEvent()
	event.Quote.VariationPercent = -2.1

	got := Message(event, models.DetailSimple)
	if !strings.HasPrefix(got, "📉 ") {
		t.Errorf("expected falling emoji, got %q", got)
	}
	if !strings.Contains(got, "(-2,10%)") {
		t.Errorf("expected signed percent, got %q", got)
	}
}

func TestPriceMessageOmitsAbsentFields(t *testing.T) {
	event := models.MarketEvent{
		Ticker: "MXRF11",
		Kind:   models.KindPriceVariation,
		Quote:  &models.QuotePayload{Price: 10.40, VariationPercent: 0.5},
	}

	got := Message(event, models.DetailComplete)
	for _, label := range []string{"Fechamento", "Volume", "patrimonial", "líquido", "Pregão"} {
		if strings.Contains(got, label) {
			t.Errorf("absent field %q should be omitted, got:\n%s", label, got)
		}
	}
}

func TestDividendMessage(t *testing.T) {
	event := models.MarketEvent{
		Ticker: "MXRF11",
		Kind:   models.KindDividendAnnounced,
		Dividend: &models.DividendPayload{
			Rate:          0.92,
			PaymentDate:   time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
			RelatedPeriod: "Dezembro/2025",
		},
	}

	simple := Message(event, models.DetailSimple)
	want := "💰 MXRF11: novo rendimento\nValor: R$ 0,92 por cota\nPagamento: 15/12/2025"
	if simple != want {
		t.Errorf("got:\n%s\nwant:\n%s", simple, want)
	}

	complete := Message(event, models.DetailComplete)
	if !strings.Contains(complete, "Referência: Dezembro/2025") {
		t.Errorf("complete template missing period, got:\n%s", complete)
	}
	if strings.Contains(simple, "Referência") {
		t.Error("simple template must not include the period")
	}
}

func TestDocumentMessage(t *testing.T) {
	event := models.MarketEvent{
		Ticker: "HGLG11",
		Kind:   models.KindDocumentFiled,
		Document: &models.DocumentPayload{
			DocumentType: "Relatório Gerencial",
			ReceivedDate: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
			URL:          "https://fnet.example/doc/987654",
			Summary:      "Vacância caiu para 4,2% no trimestre.",
		},
	}

	simple := Message(event, models.DetailSimple)
	if !strings.Contains(simple, "📄 HGLG11: novo documento") ||
		!strings.Contains(simple, "Tipo: Relatório Gerencial") ||
		!strings.Contains(simple, "Resumo: Vacância caiu") {
		t.Errorf("unexpected simple document message:\n%s", simple)
	}
	if strings.Contains(simple, "Link:") {
		t.Error("simple template must not include the link")
	}

	complete := Message(event, models.DetailComplete)
	if !strings.Contains(complete, "Link: https://fnet.example/doc/987654") {
		t.Errorf("complete template missing link:\n%s", complete)
	}
}

func TestMessageIsDeterministic(t *testing.T) {
	event := fullQuoteEvent()
	first := Message(event, models.DetailComplete)
	for i := 0; i < 5; i++ {
		if got := Message(event, models.DetailComplete); got != first {
			t.Fatalf("rendering not deterministic on iteration %d", i)
		}
	}
}

func TestMessageHandlesMissingPayload(t *testing.T) {
	for _, kind := range []models.EventKind{
		models.KindPriceVariation,
		models.KindDividendAnnounced,
		models.KindDocumentFiled,
	} {
		event := models.MarketEvent{Ticker: "HGLG11", Kind: kind}
		if got := Message(event, models.DetailSimple); got != "" {
			t.Errorf("kind %s without payload should render empty, got %q", kind, got)
		}
	}
}

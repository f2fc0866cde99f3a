// Package format renders notification texts. Rendering is pure: the same
// (event, subscription, detail level) triple always yields the same bytes,
// and absent optional fields are omitted instead of rendered blank.
package format

import (
	"fmt"
	"strings"

	"fiialert/internal/models"
	"fiialert/pkg/utils"
)

const dateLayoutBR = "02/01/2006"

// Message renders the notification text for one event at the given detail
// level.
func Message(event models.MarketEvent, level models.DetailLevel) string {
	switch event.Kind {
	case models.KindPriceVariation:
		return priceMessage(event, level)
	case models.KindDividendAnnounced:
		return dividendMessage(event, level)
	case models.KindDocumentFiled:
		return documentMessage(event, level)
	}
	return ""
}

func priceMessage(event models.MarketEvent, level models.DetailLevel) string {
	q := event.Quote
	if q == nil {
		return ""
	}

	emoji := "📈"
	if q.VariationPercent < 0 {
		emoji = "📉"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", emoji, event.Ticker)
	fmt.Fprintf(&sb, "Cotação: %s (%s)", utils.FormatBRL(q.Price), utils.FormatPercentBR(q.VariationPercent))

	if level == models.DetailComplete {
		if q.PreviousClose > 0 {
			fmt.Fprintf(&sb, "\nFechamento anterior: %s", utils.FormatBRL(q.PreviousClose))
		}
		if q.Volume > 0 {
			fmt.Fprintf(&sb, "\nVolume: %s", utils.FormatQuantityBR(q.Volume))
		}
		if q.BookValue > 0 {
			fmt.Fprintf(&sb, "\nValor patrimonial: %s", utils.FormatBRL(q.BookValue))
		}
		if q.Patrimony > 0 {
			fmt.Fprintf(&sb, "\nPatrimônio líquido: %s", utils.FormatCompactBRL(q.Patrimony))
		}
		if !q.TradingDate.IsZero() {
			fmt.Fprintf(&sb, "\nPregão: %s", q.TradingDate.Format(dateLayoutBR))
		}
	}
	return sb.String()
}

func dividendMessage(event models.MarketEvent, level models.DetailLevel) string {
	d := event.Dividend
	if d == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 %s: novo rendimento\n", event.Ticker)
	fmt.Fprintf(&sb, "Valor: %s por cota\n", utils.FormatBRL(d.Rate))
	fmt.Fprintf(&sb, "Pagamento: %s", d.PaymentDate.Format(dateLayoutBR))

	if level == models.DetailComplete && d.RelatedPeriod != "" {
		fmt.Fprintf(&sb, "\nReferência: %s", d.RelatedPeriod)
	}
	return sb.String()
}

func documentMessage(event models.MarketEvent, level models.DetailLevel) string {
	doc := event.Document
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📄 %s: novo documento", event.Ticker)
	if doc.DocumentType != "" {
		fmt.Fprintf(&sb, "\nTipo: %s", doc.DocumentType)
	}
	if !doc.ReceivedDate.IsZero() {
		fmt.Fprintf(&sb, "\nRecebido: %s", doc.ReceivedDate.Format(dateLayoutBR))
	}
	if doc.Summary != "" {
		fmt.Fprintf(&sb, "\n\nResumo: %s", doc.Summary)
	}
	if level == models.DetailComplete && doc.URL != "" {
		fmt.Fprintf(&sb, "\nLink: %s", doc.URL)
	}
	return sb.String()
}

// Package normalizer maps source-specific raw events into canonical market
// events with stable natural keys. Normalization is pure: errors are
// returned, never thrown across the batch boundary.
package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	apperrors "fiialert/internal/errors"
	"fiialert/internal/models"
)

const dateLayout = "2006-01-02"

// Normalize maps one raw event into a canonical MarketEvent. An error that
// matches apperrors.ErrUnresolvedTicker means the event belongs in the
// manual-review sink; any other error means the record was malformed.
func Normalize(raw models.RawEvent, sourceID string) (models.MarketEvent, error) {
	res, ok := ResolveTicker(raw.Ticker, raw.TradingName, raw.LegalName)
	if !ok {
		return models.MarketEvent{}, fmt.Errorf("%w: trading_name=%q legal_name=%q",
			apperrors.ErrUnresolvedTicker, raw.TradingName, raw.LegalName)
	}

	event := models.MarketEvent{
		Ticker: res.Ticker,
		Kind:   raw.Kind,
		Source: sourceID,
	}

	switch raw.Kind {
	case models.KindPriceVariation:
		if raw.Price <= 0 {
			return models.MarketEvent{}, apperrors.NewNormalizationError(sourceID, "price", "missing or non-positive price")
		}
		if raw.TradingDate.IsZero() {
			return models.MarketEvent{}, apperrors.NewNormalizationError(sourceID, "trading_date", "missing trading date")
		}
		event.Quote = &models.QuotePayload{
			Price:            raw.Price,
			PreviousClose:    raw.PreviousClose,
			VariationPercent: raw.VariationPercent,
			Volume:           raw.Volume,
			BookValue:        raw.BookValue,
			Patrimony:        raw.Patrimony,
			TradingDate:      raw.TradingDate,
		}
		// One variation event per ticker per trading day; the evaluator
		// re-checks magnitude against the latest price each cycle.
		event.NaturalKey = naturalKey("price", res.Ticker, raw.TradingDate.Format(dateLayout))

	case models.KindDividendAnnounced:
		if raw.Rate <= 0 {
			return models.MarketEvent{}, apperrors.NewNormalizationError(sourceID, "rate", "missing or non-positive rate")
		}
		if raw.PaymentDate.IsZero() {
			return models.MarketEvent{}, apperrors.NewNormalizationError(sourceID, "payment_date", "missing payment date")
		}
		event.Dividend = &models.DividendPayload{
			Rate:          raw.Rate,
			PaymentDate:   raw.PaymentDate,
			RelatedPeriod: raw.RelatedPeriod,
		}
		event.NaturalKey = naturalKey("dividend", res.Ticker,
			raw.PaymentDate.Format(dateLayout),
			fmt.Sprintf("%.6f", raw.Rate),
			raw.RelatedPeriod)

	case models.KindDocumentFiled:
		if raw.DocumentID == "" && raw.DocumentType == "" {
			return models.MarketEvent{}, apperrors.NewNormalizationError(sourceID, "document", "missing document id and type")
		}
		event.Document = &models.DocumentPayload{
			DocumentID:   raw.DocumentID,
			DocumentType: raw.DocumentType,
			URL:          raw.DocumentURL,
			ReceivedDate: raw.ReceivedDate,
		}
		if raw.DocumentID != "" {
			event.NaturalKey = naturalKey("document", raw.DocumentID)
		} else {
			event.NaturalKey = naturalKey("document", res.Ticker, raw.DocumentType,
				raw.ReceivedDate.Format(dateLayout))
		}

	default:
		return models.MarketEvent{}, apperrors.NewNormalizationError(sourceID, "kind", fmt.Sprintf("unknown event kind %q", raw.Kind))
	}

	return event, nil
}

// ResolutionFor exposes the rule that produced a ticker so callers can audit
// heuristic derivations.
func ResolutionFor(raw models.RawEvent) (Resolution, bool) {
	return ResolveTicker(raw.Ticker, raw.TradingName, raw.LegalName)
}

// EventKey derives the per-user dedup key from a natural key. It is the
// value under the delivery ledger's uniqueness constraint.
func EventKey(naturalKey, userID string) string {
	return hash(naturalKey + "|" + userID)
}

func naturalKey(parts ...string) string {
	return hash(strings.Join(parts, "|"))
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

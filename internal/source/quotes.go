package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "fiialert/internal/errors"
	"fiialert/internal/models"
	"fiialert/pkg/utils"
)

// QuoteSource fetches quote snapshots from the market-data API. Requests
// are batched into multi-ticker calls to bound outbound volume.
type QuoteSource struct {
	baseURL   string
	batchSize int
	loc       *time.Location
	client    *http.Client
	policy    utils.RetryPolicy
	now       func() time.Time
}

// NewQuoteSource creates a quote source. loc is the market timezone used to
// stamp the trading day; nil falls back to UTC.
func NewQuoteSource(baseURL string, batchSize int, loc *time.Location, opts Options) *QuoteSource {
	if batchSize <= 0 {
		batchSize = 20
	}
	if loc == nil {
		loc = time.UTC
	}
	return &QuoteSource{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		batchSize: batchSize,
		loc:       loc,
		client:    opts.client(),
		policy:    opts.policy(),
		now:       time.Now,
	}
}

// Name returns the source identifier.
func (s *QuoteSource) Name() string {
	return "market-data"
}

type quoteResponse struct {
	Results []struct {
		Symbol                     string  `json:"symbol"`
		ShortName                  string  `json:"shortName"`
		RegularMarketPrice         float64 `json:"regularMarketPrice"`
		RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
		RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
		RegularMarketVolume        int64   `json:"regularMarketVolume"`
		BookValue                  float64 `json:"bookValue"`
		MarketCap                  float64 `json:"marketCap"`
	} `json:"results"`
}

// FetchQuotes returns one price-variation raw event per requested ticker,
// batching tickers into multi-ticker requests.
func (s *QuoteSource) FetchQuotes(ctx context.Context, tickers []string) ([]models.RawEvent, error) {
	var events []models.RawEvent

	for start := 0; start < len(tickers); start += s.batchSize {
		end := start + s.batchSize
		if end > len(tickers) {
			end = len(tickers)
		}
		batch := tickers[start:end]

		url := fmt.Sprintf("%s/quote/%s", s.baseURL, strings.Join(batch, ","))
		var resp quoteResponse
		if err := getJSON(ctx, s.client, s.policy, url, &resp); err != nil {
			return events, apperrors.NewSourceError(s.Name(), "fetch quotes", err)
		}

		// The trading day is the calendar day in the market timezone; a
		// late-night cycle must not roll the session onto the next UTC day.
		local := s.now().In(s.loc)
		tradingDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
		for _, r := range resp.Results {
			events = append(events, models.RawEvent{
				Kind:             models.KindPriceVariation,
				Ticker:           r.Symbol,
				TradingName:      r.ShortName,
				Price:            r.RegularMarketPrice,
				PreviousClose:    r.RegularMarketPreviousClose,
				VariationPercent: r.RegularMarketChangePercent,
				Volume:           r.RegularMarketVolume,
				BookValue:        r.BookValue,
				Patrimony:        r.MarketCap,
				TradingDate:      tradingDate,
			})
		}
	}

	return events, nil
}

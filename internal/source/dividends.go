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

// DividendSource fetches dividend announcements from the investor-info API.
type DividendSource struct {
	baseURL string
	client  *http.Client
	policy  utils.RetryPolicy
}

// NewDividendSource creates a dividend source.
func NewDividendSource(baseURL string, opts Options) *DividendSource {
	return &DividendSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  opts.client(),
		policy:  opts.policy(),
	}
}

// Name returns the source identifier.
func (s *DividendSource) Name() string {
	return "dividend-feed"
}

type dividendRecord struct {
	Ticker        string  `json:"ticker"`
	FundName      string  `json:"fundName"`
	Rate          float64 `json:"rate"`
	PaymentDate   string  `json:"paymentDate"` // 2006-01-02
	RelatedPeriod string  `json:"relatedPeriod"`
}

// FetchRecent returns dividend announcements published since the cursor.
// Overlapping windows are fine; natural keys absorb duplicates.
func (s *DividendSource) FetchRecent(ctx context.Context, since time.Time) ([]models.RawEvent, error) {
	url := fmt.Sprintf("%s/dividends?since=%s", s.baseURL, since.Format("2006-01-02"))

	var records []dividendRecord
	if err := getJSON(ctx, s.client, s.policy, url, &records); err != nil {
		return nil, apperrors.NewSourceError(s.Name(), "fetch dividends", err)
	}

	events := make([]models.RawEvent, 0, len(records))
	for _, r := range records {
		paymentDate, err := time.Parse("2006-01-02", r.PaymentDate)
		if err != nil {
			// One malformed record must not abort the batch.
			continue
		}
		events = append(events, models.RawEvent{
			Kind:          models.KindDividendAnnounced,
			Ticker:        r.Ticker,
			TradingName:   r.FundName,
			Rate:          r.Rate,
			PaymentDate:   paymentDate,
			RelatedPeriod: r.RelatedPeriod,
		})
	}
	return events, nil
}

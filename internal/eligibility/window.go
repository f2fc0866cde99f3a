package eligibility

import (
	"fmt"
	"time"

	"fiialert/internal/config"
)

// MarketWindow is the trading-hours gate. It applies only to price-variation
// alerts; filings and dividends are not intraday phenomena.
type MarketWindow struct {
	loc         *time.Location
	openMinute  int
	closeMinute int
}

// NewMarketWindow builds a window from configuration. An unknown timezone is
// an error; the gate must not silently fall back to the host zone.
func NewMarketWindow(cfg config.MarketWindowConfig) (*MarketWindow, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading market timezone %q: %w", cfg.Timezone, err)
	}
	return &MarketWindow{
		loc:         loc,
		openMinute:  cfg.OpenHour*60 + cfg.OpenMinute,
		closeMinute: cfg.CloseHour*60 + cfg.CloseMinute,
	}, nil
}

// Location returns the market timezone.
func (w *MarketWindow) Location() *time.Location {
	return w.loc
}

// Contains reports whether t falls inside the trading window: a weekday
// between open (inclusive) and close (exclusive) in the market timezone.
func (w *MarketWindow) Contains(t time.Time) bool {
	local := t.In(w.loc)
	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	return minute >= w.openMinute && minute < w.closeMinute
}

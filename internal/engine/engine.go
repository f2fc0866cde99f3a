// Package engine drives one alert cycle end to end: fetch, normalize,
// resolve, evaluate, claim, format, dispatch. The engine is not a long
// running loop; an external scheduler invokes RunCycle periodically.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"fiialert/internal/dispatch"
	"fiialert/internal/eligibility"
	apperrors "fiialert/internal/errors"
	"fiialert/internal/format"
	"fiialert/internal/logging"
	"fiialert/internal/models"
	"fiialert/internal/normalizer"
	"fiialert/internal/ratelimit"
	"fiialert/internal/source"
	"fiialert/internal/store"
	"fiialert/internal/summary"
)

// QuoteFetcher is the batched quote contract the engine needs from the
// market-data source.
type QuoteFetcher interface {
	Name() string
	FetchQuotes(ctx context.Context, tickers []string) ([]models.RawEvent, error)
}

// Feed pairs an event source with its lookback window. Lookback windows are
// configured per event kind because no single value fits every feed.
type Feed struct {
	Source   source.EventSource
	Lookback time.Duration
}

// Params holds the engine dependencies.
type Params struct {
	Store      store.DataStore
	Quotes     QuoteFetcher
	Feeds      []Feed
	Evaluator  *eligibility.Evaluator
	Chain      *dispatch.Chain
	Summarizer summary.Summarizer
	Limiter    ratelimit.Limiter
	Logger     zerolog.Logger

	CycleTimeout   time.Duration
	InterSendDelay time.Duration
}

// Engine orchestrates alert cycles.
type Engine struct {
	store      store.DataStore
	quotes     QuoteFetcher
	feeds      []Feed
	evaluator  *eligibility.Evaluator
	chain      *dispatch.Chain
	summarizer summary.Summarizer
	limiter    ratelimit.Limiter
	logger     zerolog.Logger

	cycleTimeout time.Duration
	// pacer spaces consecutive sends. Pacing is global, not per outbound
	// channel: one limiter covers every target this process dispatches to.
	pacer *rate.Limiter
	now   func() time.Time
}

// New creates an engine.
func New(p Params) *Engine {
	cycleTimeout := p.CycleTimeout
	if cycleTimeout <= 0 {
		cycleTimeout = 4 * time.Minute
	}
	interSend := p.InterSendDelay
	if interSend <= 0 {
		interSend = time.Second
	}
	summarizer := p.Summarizer
	if summarizer == nil {
		summarizer = summary.Disabled{}
	}

	return &Engine{
		store:        p.Store,
		quotes:       p.Quotes,
		feeds:        p.Feeds,
		evaluator:    p.Evaluator,
		chain:        p.Chain,
		summarizer:   summarizer,
		limiter:      p.Limiter,
		logger:       p.Logger,
		cycleTimeout: cycleTimeout,
		pacer:        rate.NewLimiter(rate.Every(interSend), 1),
		now:          time.Now,
	}
}

// RunCycle processes one bounded batch of events end to end and reports
// what happened. Per-event and per-user failures are isolated; only a
// store-level failure aborts the cycle.
func (e *Engine) RunCycle(ctx context.Context) (models.CycleReport, error) {
	started := e.now()
	report := models.CycleReport{StartedAt: started}

	cycleCtx, cancel := context.WithTimeout(ctx, e.cycleTimeout)
	defer cancel()

	raws := e.gather(cycleCtx, &report)
	events := e.normalize(cycleCtx, raws, &report)
	report.EventsSeen = len(events)

	tickers := distinctTickers(events)
	subscribers, err := e.store.ResolveSubscribers(cycleCtx, tickers)
	if err != nil {
		return report, apperrors.Wrap(err, "resolving subscribers")
	}

	e.summarizeDocuments(cycleCtx, events, subscribers)

	for _, event := range events {
		subs := subscribers[event.Ticker]
		for i := range subs {
			e.processPair(ctx, cycleCtx, event, &subs[i], &report)
		}
	}

	report.Duration = e.now().Sub(started).String()
	logging.LogCycle(e.logger, report.EventsSeen, report.EligiblePairs,
		report.Delivered, report.Failed, report.SkippedDeadline)
	return report, nil
}

// sourcedRaw tags a raw event with the adapter that produced it.
type sourcedRaw struct {
	raw    models.RawEvent
	source string
}

// gather fetches from every source concurrently. A failing source degrades
// its own coverage for the cycle without aborting the others.
func (e *Engine) gather(ctx context.Context, report *models.CycleReport) []sourcedRaw {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		raws []sourcedRaw
	)

	collect := func(name string, events []models.RawEvent, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.SourceErrors = append(report.SourceErrors, err.Error())
			e.logger.Error().Err(err).Str("source", name).Msg("Source unavailable this cycle")
		}
		for _, ev := range events {
			raws = append(raws, sourcedRaw{raw: ev, source: name})
		}
	}

	if e.quotes != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tickers, err := e.store.TrackedTickers(ctx)
			if err != nil {
				collect(e.quotes.Name(), nil, apperrors.Wrap(err, "listing tracked tickers"))
				return
			}
			if len(tickers) == 0 {
				return
			}
			events, err := e.quotes.FetchQuotes(ctx, tickers)
			collect(e.quotes.Name(), events, err)
		}()
	}

	for _, feed := range e.feeds {
		wg.Add(1)
		go func(f Feed) {
			defer wg.Done()
			since := e.now().Add(-f.Lookback)
			events, err := f.Source.FetchRecent(ctx, since)
			collect(f.Source.Name(), events, err)
		}(feed)
	}

	wg.Wait()
	return raws
}

// normalize maps raw events to canonical ones. Unresolved tickers go to the
// manual-review sink; malformed records are logged and skipped.
func (e *Engine) normalize(ctx context.Context, raws []sourcedRaw, report *models.CycleReport) []models.MarketEvent {
	var events []models.MarketEvent
	for _, sr := range raws {
		event, err := normalizer.Normalize(sr.raw, sr.source)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUnresolvedTicker) {
				report.Unresolved++
				item := &models.ReviewItem{
					Source:      sr.source,
					Kind:        sr.raw.Kind,
					TradingName: sr.raw.TradingName,
					LegalName:   sr.raw.LegalName,
					Reason:      err.Error(),
				}
				if qErr := e.store.EnqueueReview(ctx, item); qErr != nil {
					e.logger.Error().Err(qErr).Msg("Failed to enqueue review item")
				}
				continue
			}
			e.logger.Debug().Err(err).Str("source", sr.source).Msg("Skipping malformed record")
			continue
		}

		if res, ok := normalizer.ResolutionFor(sr.raw); ok && res.Heuristic {
			logging.LogMistag(e.logger, sr.source, sr.raw.TradingName, res.Ticker, res.Rule)
		}

		// Funds are created on first discovery.
		name := sr.raw.TradingName
		if name == "" {
			name = sr.raw.LegalName
		}
		if _, err := e.store.UpsertFund(ctx, event.Ticker, name); err != nil {
			e.logger.Error().Err(err).Str("ticker", event.Ticker).Msg("Failed to upsert fund")
		}

		events = append(events, event)
	}
	return events
}

// summarizeDocuments fills document summaries once per event, only for
// events that actually have subscribers. Summary failures leave the
// document deliverable without a summary section.
func (e *Engine) summarizeDocuments(ctx context.Context, events []models.MarketEvent, subscribers map[string][]models.Subscription) {
	for i := range events {
		event := &events[i]
		if event.Kind != models.KindDocumentFiled || event.Document == nil {
			continue
		}
		if len(subscribers[event.Ticker]) == 0 {
			continue
		}
		text, err := e.summarizer.Summarize(ctx, event.Document.DocumentType+" "+event.Document.URL)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrSummaryDisabled) {
				e.logger.Warn().Err(err).Str("ticker", event.Ticker).Msg("Summary unavailable")
			}
			continue
		}
		event.Document.Summary = text
	}
}

// processPair runs the eligibility, dedup, format and dispatch stages for
// one (event, subscription) pair. parentCtx outlives the cycle deadline so
// an in-flight dispatch may complete; cycleCtx gates the start of new work.
func (e *Engine) processPair(parentCtx, cycleCtx context.Context, event models.MarketEvent, sub *models.Subscription, report *models.CycleReport) {
	result := e.evaluator.Evaluate(event, *sub, e.now())
	if !result.Eligible {
		logging.LogSuppression(e.logger, sub.UserID, event.Ticker, string(result.Reason))
		return
	}
	report.EligiblePairs++

	if cycleCtx.Err() != nil {
		report.SkippedDeadline++
		return
	}

	eventKey, claimed, err := e.store.TryClaim(cycleCtx, sub.UserID, event.NaturalKey)
	if err != nil {
		e.logger.Error().Err(err).Str("user_id", sub.UserID).Msg("Ledger claim failed")
		report.Failed++
		return
	}
	if !claimed {
		e.logger.Debug().
			Str("user_id", sub.UserID).
			Str("ticker", event.Ticker).
			Msg("Already delivered, skipping")
		return
	}

	// Pace only real sends; already-delivered pairs must not consume slots.
	// A claim whose slot never arrives is released for the next cycle.
	if err := e.pacer.Wait(cycleCtx); err != nil {
		if mErr := e.store.MarkFailed(parentCtx, eventKey); mErr != nil {
			e.logger.Error().Err(mErr).Str("event_key", eventKey).Msg("Failed to release unpaced claim")
		}
		report.SkippedDeadline++
		return
	}

	text := format.Message(event, sub.Detail())
	outcome := e.chain.Dispatch(parentCtx, sub.ChannelTarget, text)

	// Finalize with the parent context: a dispatch that completed past the
	// cycle deadline must still settle its claim.
	if outcome.Sent {
		if err := e.store.MarkSent(parentCtx, eventKey, outcome.Provider, outcome.MessageID); err != nil {
			e.logger.Error().Err(err).Str("event_key", eventKey).Msg("Failed to finalize sent claim")
		}
		report.Delivered++
		logging.LogDispatch(e.logger, sub.UserID, event.Ticker, outcome.Provider, "sent")
		return
	}

	if err := e.store.MarkFailed(parentCtx, eventKey); err != nil {
		e.logger.Error().Err(err).Str("event_key", eventKey).Msg("Failed to finalize failed claim")
	}
	report.Failed++
	e.logger.Error().Err(outcome.Err).Str("user_id", sub.UserID).Msg("Dispatch failed on every provider")
	logging.LogDispatch(e.logger, sub.UserID, event.Ticker, "", "failed")
}

func distinctTickers(events []models.MarketEvent) []string {
	seen := make(map[string]bool, len(events))
	var tickers []string
	for _, ev := range events {
		if !seen[ev.Ticker] {
			seen[ev.Ticker] = true
			tickers = append(tickers, ev.Ticker)
		}
	}
	return tickers
}

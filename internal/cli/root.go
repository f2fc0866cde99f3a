// Package cli provides the command-line interface for the alert engine.
package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fiialert/internal/config"
	"fiialert/internal/dispatch"
	"fiialert/internal/eligibility"
	"fiialert/internal/engine"
	"fiialert/internal/ratelimit"
	"fiialert/internal/source"
	"fiialert/internal/store"
	"fiialert/internal/summary"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies. The store and engine are built
// lazily so informational commands do not open the database.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	store  store.DataStore
	engine *engine.Engine
}

func (a *App) init() error {
	if a.engine != nil {
		return nil
	}

	st, err := store.NewSQLiteStore(a.Config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	a.store = st

	window, err := eligibility.NewMarketWindow(a.Config.MarketWindow)
	if err != nil {
		return err
	}

	opts := source.Options{
		Timeout:    a.Config.Sources.RequestTimeout,
		MaxRetries: a.Config.Sources.MaxRetries,
		BaseDelay:  a.Config.Sources.RetryBaseDelay,
	}
	quotes := source.NewQuoteSource(a.Config.Sources.QuoteBaseURL, a.Config.Sources.QuoteBatchSize, window.Location(), opts)
	feeds := []engine.Feed{
		{
			Source:   source.NewDividendSource(a.Config.Sources.DividendBaseURL, opts),
			Lookback: time.Duration(a.Config.Sources.DividendLookbackDays) * 24 * time.Hour,
		},
		{
			Source:   source.NewDocumentSource(a.Config.Sources.DocumentBaseURL, opts),
			Lookback: time.Duration(a.Config.Sources.DocumentLookbackDays) * 24 * time.Hour,
		},
	}

	var providers []dispatch.Provider
	if a.Config.Notifications.Telegram.Enabled && a.Config.Credentials.Telegram.BotToken != "" {
		providers = append(providers, dispatch.NewTelegramProvider(a.Config.Credentials.Telegram.BotToken))
	}
	if a.Config.Notifications.CallMeBot.Enabled && a.Config.Credentials.CallMeBot.APIKey != "" {
		providers = append(providers, dispatch.NewCallMeBotProvider(a.Config.Credentials.CallMeBot.APIKey))
	}
	if a.Config.Notifications.LogFallback || len(providers) == 0 {
		providers = append(providers, dispatch.NewLogProvider(a.Logger))
	}
	chain := dispatch.NewChain(providers, a.Config.Notifications.ProviderTimeout, a.Logger)

	var summarizer summary.Summarizer = summary.Disabled{}
	if a.Config.Summary.Enabled {
		summarizer = summary.NewOpenAISummarizer(a.Config.Credentials.OpenAI.APIKey, a.Config.Summary.Model)
	}

	a.engine = engine.New(engine.Params{
		Store:          st,
		Quotes:         quotes,
		Feeds:          feeds,
		Evaluator:      eligibility.NewEvaluator(window),
		Chain:          chain,
		Summarizer:     summarizer,
		Limiter:        ratelimit.NewMemoryLimiter(a.Config.Engine.QuoteCooldown),
		Logger:         a.Logger,
		CycleTimeout:   a.Config.Engine.CycleTimeout,
		InterSendDelay: a.Config.Engine.InterSendDelay,
	})
	return nil
}

func (a *App) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// NewRootCmd creates the root command for the CLI. The returned cleanup
// function closes lazily opened resources and must run after Execute even
// when the command fails; cobra skips post-run hooks on RunE errors.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) (*cobra.Command, func()) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:     "fiialert",
		Short:   "FII market-event alert engine",
		Long:    "Tracks Brazilian real-estate fund market events and delivers deduplicated, preference-filtered push notifications.",
		Version: Version,
	}

	rootCmd.AddCommand(newCycleCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newFollowCmd(app))
	rootCmd.AddCommand(newUnfollowCmd(app))
	rootCmd.AddCommand(newFundsCmd(app))
	rootCmd.AddCommand(newReviewCmd(app))

	return rootCmd, app.close
}

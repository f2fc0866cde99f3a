package dispatch

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// LogProvider is the terminal link of the chain: it records the message in
// the log instead of delivering it, and always succeeds. With real
// providers disabled it doubles as a simulated transport.
type LogProvider struct {
	logger  zerolog.Logger
	counter atomic.Int64
}

// NewLogProvider creates a log-only provider.
func NewLogProvider(logger zerolog.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

// Name returns the provider name recorded in the delivery ledger.
func (l *LogProvider) Name() string {
	return "log"
}

// Send logs the message and returns a synthetic message id.
func (l *LogProvider) Send(_ context.Context, target, text string) (string, error) {
	id := l.counter.Add(1)
	l.logger.Info().
		Str("target", target).
		Str("text", text).
		Msg("Simulated delivery")
	return fmt.Sprintf("log-%d", id), nil
}

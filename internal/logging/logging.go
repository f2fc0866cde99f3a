// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "fiialert", "logs", "fiialert.log"),
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		writers = append(writers, consoleWriter)
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	var writer io.Writer
	if len(writers) == 0 {
		writer = os.Stdout
	} else if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ContextKey is the type for context keys.
type ContextKey string

// LoggerKey is the context key for the logger.
const LoggerKey ContextKey = "logger"

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithTicker adds a ticker to the logger context.
func WithTicker(logger zerolog.Logger, ticker string) zerolog.Logger {
	return logger.With().Str("ticker", ticker).Logger()
}

// WithSource adds a source name to the logger context.
func WithSource(logger zerolog.Logger, source string) zerolog.Logger {
	return logger.With().Str("source", source).Logger()
}

// LogDispatch logs a dispatch outcome for the audit trail.
func LogDispatch(logger zerolog.Logger, userID, ticker, provider, status string) {
	logger.Info().
		Str("event", "dispatch").
		Str("user_id", userID).
		Str("ticker", ticker).
		Str("provider", provider).
		Str("status", status).
		Msg("Dispatch finished")
}

// LogSuppression logs a suppressed (user, event) pair for the audit trail.
func LogSuppression(logger zerolog.Logger, userID, ticker, reason string) {
	logger.Debug().
		Str("event", "suppression").
		Str("user_id", userID).
		Str("ticker", ticker).
		Str("reason", reason).
		Msg("Pair suppressed")
}

// LogCycle logs a completed cycle summary.
func LogCycle(logger zerolog.Logger, eventsSeen, eligible, delivered, failed, skipped int) {
	logger.Info().
		Str("event", "cycle").
		Int("events_seen", eventsSeen).
		Int("eligible_pairs", eligible).
		Int("delivered", delivered).
		Int("failed", failed).
		Int("skipped_deadline", skipped).
		Msg("Cycle completed")
}

// LogMistag logs a ticker derived heuristically so mis-tags can be audited.
func LogMistag(logger zerolog.Logger, source, input, ticker, rule string) {
	logger.Warn().
		Str("event", "ticker_heuristic").
		Str("source", source).
		Str("input", input).
		Str("ticker", ticker).
		Str("rule", rule).
		Msg("Ticker derived heuristically")
}

// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrAlreadyDelivered   = errors.New("event already delivered")
	ErrFundNotFound       = errors.New("fund not found")
	ErrSubscriptionExists = errors.New("subscription already exists")
	ErrRateLimited        = errors.New("rate limited")
	ErrSourceUnavailable  = errors.New("source unavailable")
	ErrUnresolvedTicker   = errors.New("ticker could not be resolved")
	ErrAllProvidersFailed = errors.New("all delivery providers failed")
	ErrSummaryDisabled    = errors.New("summarizer disabled")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDatabaseError      = errors.New("database error")
	ErrDeadlineExceeded   = errors.New("cycle deadline exceeded")
)

// SourceError represents an upstream fetch failure after the retry budget
// was exhausted. It degrades one source's coverage, never the whole cycle.
type SourceError struct {
	Source string
	Op     string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source error [%s] %s: %v", e.Source, e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, op string, err error) *SourceError {
	return &SourceError{Source: source, Op: op, Err: err}
}

// NormalizationError represents a record that could not be mapped into a
// canonical event. Returned, never panicked, so one malformed record cannot
// abort a batch.
type NormalizationError struct {
	Source  string
	Field   string
	Message string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization error [%s] %s: %s", e.Source, e.Field, e.Message)
}

// NewNormalizationError creates a new NormalizationError.
func NewNormalizationError(source, field, message string) *NormalizationError {
	return &NormalizationError{Source: source, Field: field, Message: message}
}

// DispatchError represents a delivery failure on one provider in the chain.
type DispatchError struct {
	Provider string
	Target   string
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch error [%s] to %s: %v", e.Provider, e.Target, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NewDispatchError creates a new DispatchError.
func NewDispatchError(provider, target string, err error) *DispatchError {
	return &DispatchError{Provider: provider, Target: target, Err: err}
}

// HTTPStatusError carries a non-2xx upstream status so retry policies can
// distinguish retryable server failures from permanent client errors.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d from %s", e.StatusCode, e.URL)
}

// Retryable reports whether the status indicates a transient failure.
func (e *HTTPStatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

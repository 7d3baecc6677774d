package helpers

import (
	"context"
	"fmt"
	"time"

	"stock-board/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type StockBoardError struct {
	Message string
	Cause   error
}

func (e *StockBoardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StockBoardError) Unwrap() error {
	return e.Cause
}

// Distinct error types so callers can branch with errors.As
type ConfigurationError struct{ StockBoardError }
type DatasetError struct{ StockBoardError }
type StoreError struct{ StockBoardError }
type ValidationError struct{ StockBoardError }

func NewConfigurationError(msg string, cause error) error {
	return &ConfigurationError{StockBoardError{Message: msg, Cause: cause}}
}

func NewDatasetError(msg string, cause error) error {
	return &DatasetError{StockBoardError{Message: msg, Cause: cause}}
}

func NewStoreError(msg string, cause error) error {
	return &StoreError{StockBoardError{Message: msg, Cause: cause}}
}

func NewValidationError(msg string) error {
	return &ValidationError{StockBoardError{Message: msg}}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff runs fn up to maxRetries times, doubling the delay after
// each failure. It stops early when ctx is cancelled.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries, operation, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &StockBoardError{Message: fmt.Sprintf("%s failed after %d attempts", operation, maxRetries), Cause: lastErr}
}

// Package retry implements a small call-with-retry helper with exponential
// back-off, independent of the operation being retried.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy holds the parameters of the retry strategy.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Multiplier applied to the delay after each failed attempt. Values
	// below 1 are treated as 2 (plain exponential doubling).
	Multiplier float64

	// OnRetry, when set, is called before each wait between attempts.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Do executes fn until it succeeds, the attempts are exhausted or the
// context is cancelled.
func (p Policy) Do(ctx context.Context, operationName string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	var lastErr error
	delay := p.BaseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr, delay)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after attempt %d: %w", operationName, attempt, ctx.Err())
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * multiplier)
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, lastErr)
}

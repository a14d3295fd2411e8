// Package retry runs operations with bounded attempts and backoff.
// This is part of the platform layer and contains no business logic.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Backoff returns the wait before the next attempt, given the attempt that just failed (1-based).
type Backoff func(attempt int, base time.Duration) time.Duration

// Linear waits base × attempt.
func Linear(attempt int, base time.Duration) time.Duration {
	return time.Duration(attempt) * base
}

// Quadratic waits base × attempt².
func Quadratic(attempt int, base time.Duration) time.Duration {
	return time.Duration(attempt*attempt) * base
}

// Policy describes how an operation is retried.
type Policy struct {
	// Attempts is the total number of calls, including the first one.
	Attempts  int
	BaseDelay time.Duration
	Backoff   Backoff
	// Retryable decides whether a failure is transient. Nil retries every error.
	Retryable func(error) bool
	// OnFailure is called after every failed attempt.
	OnFailure func(attempt int, err error)
}

// Do calls fn until it succeeds, returns a non-retryable error, or attempts run out.
// The last error is returned unwrapped so callers can classify it.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		return fmt.Errorf("retry: invalid attempts %d", p.Attempts)
	}
	backoff := p.Backoff
	if backoff == nil {
		backoff = Linear
	}

	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if p.OnFailure != nil {
			p.OnFailure(attempt, err)
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}

		if attempt < p.Attempts {
			select {
			case <-ctx.Done():
				return lastErr
			case <-time.After(backoff(attempt, p.BaseDelay)):
			}
		}
	}

	return lastErr
}

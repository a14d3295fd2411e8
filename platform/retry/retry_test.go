package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")
var errTerminal = errors.New("terminal")

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		Retryable: func(err error) bool { return !errors.Is(err, errTerminal) },
	}, func(context.Context) error {
		calls++
		return errTerminal
	})
	if !errors.Is(err, errTerminal) {
		t.Fatalf("expected terminal error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	var failures []int
	err := Do(context.Background(), Policy{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		OnFailure: func(attempt int, _ error) { failures = append(failures, attempt) },
	}, func(context.Context) error {
		return errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if len(failures) != 3 || failures[2] != 3 {
		t.Fatalf("unexpected failure attempts %v", failures)
	}
}

func TestDoHonoursCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, Policy{Attempts: 3, BaseDelay: time.Hour}, func(context.Context) error {
			calls++
			return errTransient
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, errTransient) {
			t.Fatalf("expected last error after cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("backoff did not observe cancellation")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestBackoffShapes(t *testing.T) {
	base := time.Second
	if Linear(2, base) != 2*time.Second {
		t.Errorf("linear(2) = %v", Linear(2, base))
	}
	if Quadratic(3, base) != 9*time.Second {
		t.Errorf("quadratic(3) = %v", Quadratic(3, base))
	}
}

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_TransientFailureEventuallySucceeds(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 4, BaseBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return MarkTransient(errors.New("store hiccup"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_NonTransientReturnsImmediately(t *testing.T) {
	t.Parallel()

	permanent := errors.New("constraint violated")
	attempts := 0
	err := Retry(context.Background(), DefaultRetryConfig(), func(context.Context) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_ExhaustsAttemptBudget(t *testing.T) {
	t.Parallel()

	flaky := MarkTransient(errors.New("still down"))
	attempts := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}, func(context.Context) error {
		attempts++
		return flaky
	})
	if !errors.Is(err, flaky) {
		t.Fatalf("expected flaky error after budget, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_ContextCancelStopsBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- Retry(ctx, RetryConfig{MaxAttempts: 10, BaseBackoff: time.Hour, MaxBackoff: time.Hour}, func(context.Context) error {
			attempts++
			return MarkTransient(errors.New("down"))
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("retry did not observe cancellation")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	if IsTransient(errors.New("plain")) {
		t.Fatal("plain error reported transient")
	}
	if !IsTransient(MarkTransient(errors.New("flaky"))) {
		t.Fatal("marked error not reported transient")
	}
	if MarkTransient(nil) != nil {
		t.Fatal("marking nil produced an error")
	}
}

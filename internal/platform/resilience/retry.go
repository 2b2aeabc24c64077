package resilience

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var errTransient = crerr.New("transient failure")

// MarkTransient tags an error as retryable. Validation and constraint
// errors must not be marked; the retry loop passes them through on the
// first attempt.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return crerr.Mark(err, errTransient)
}

func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

type RetryConfig struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseBackoff: 200 * time.Millisecond,
		MaxBackoff:  5 * time.Second,
	}
}

func NormalizeRetryConfig(cfg RetryConfig) RetryConfig {
	defaults := DefaultRetryConfig()
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaults.BaseBackoff
	}
	if cfg.MaxBackoff < cfg.BaseBackoff {
		cfg.MaxBackoff = defaults.MaxBackoff
	}
	return cfg
}

// Retry runs fn until it succeeds, returns a non-transient error, or
// the attempt budget is spent. Backoff doubles per attempt up to the
// configured cap and respects context cancellation.
func Retry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	cfg = NormalizeRetryConfig(cfg)

	backoff := cfg.BaseBackoff
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil || !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if backoff *= 2; backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return lastErr
}

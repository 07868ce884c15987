package pipeline

import (
	"context"
	"time"

	perr "bookmarkd/internal/platform/errors"
)

// RetryConfig tunes the retry policy per failure kind
type RetryConfig struct {
	// MaxAttempts bounds transient and unclassified failures
	MaxAttempts int
	// RateLimitAttempts is the higher ceiling for upstream rate limits
	RateLimitAttempts int
	// BaseDelay is doubled on every attempt up to MaxDelay
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// MalformedDelay is the single fixed delay before the one malformed retry
	MalformedDelay time.Duration
}

// DefaultRetryConfig matches the documented failure taxonomy
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		RateLimitAttempts: 5,
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
		MalformedDelay:    2 * time.Second,
	}
}

// Retrier wraps processor invocations with the failure taxonomy
type Retrier struct {
	cfg   RetryConfig
	sleep func(context.Context, time.Duration) error
}

// NewRetrier builds a Retrier, zero config fields fall back to defaults
func NewRetrier(cfg RetryConfig) *Retrier {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RateLimitAttempts < 1 {
		cfg.RateLimitAttempts = def.RateLimitAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.MalformedDelay <= 0 {
		cfg.MalformedDelay = def.MalformedDelay
	}
	return &Retrier{cfg: cfg, sleep: sleepCtx}
}

// ceiling returns the attempt budget for the failure code
// content gone is terminal on the first attempt, malformed gets exactly
// one retry, rate limits get the higher ceiling, everything else is
// treated like a transient failure
func (r *Retrier) ceiling(code perr.ErrorCode) int {
	switch code {
	case perr.ErrorCodeContentGone:
		return 1
	case perr.ErrorCodeMalformed:
		return 2
	case perr.ErrorCodeRateLimited:
		return r.cfg.RateLimitAttempts
	default:
		return r.cfg.MaxAttempts
	}
}

// delay computes the backoff before attempt n (1 based, n >= 1 retries)
func (r *Retrier) delay(code perr.ErrorCode, n int) time.Duration {
	if code == perr.ErrorCodeMalformed {
		return r.cfg.MalformedDelay
	}
	d := r.cfg.BaseDelay << uint(n-1)
	if d > r.cfg.MaxDelay || d <= 0 {
		d = r.cfg.MaxDelay
	}
	return d
}

// Execute runs op until it succeeds or its failure kind exhausts its
// attempt budget. It returns the attempt count alongside the final error;
// a failure is never silently dropped.
func (r *Retrier) Execute(ctx context.Context, op func(ctx context.Context) error) (int, error) {
	attempts := 0
	for {
		attempts++
		err := op(ctx)
		if err == nil {
			return attempts, nil
		}

		code := perr.CodeOf(err)
		if !perr.Retryable(err) || attempts >= r.ceiling(code) {
			return attempts, err
		}
		if serr := r.sleep(ctx, r.delay(code, attempts)); serr != nil {
			return attempts, err
		}
	}
}

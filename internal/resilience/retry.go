// Package resilience classifies geocoding provider failures and
// retries the transient ones with exponential backoff.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig shapes the backoff schedule for provider calls.
type RetryConfig struct {
	// MaxAttempts counts the first try too; 1 disables retries.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry; each
	// further retry multiplies it by Multiplier, capped at
	// MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	// JitterFraction randomizes each delay by up to that fraction in
	// either direction, so parallel geocode workers do not retry in
	// lockstep.
	JitterFraction float64
}

// DefaultRetryConfig is tuned for the hosted geocoding APIs: three
// attempts starting at half a second.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.25,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	d := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = d.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = d.MaxBackoff
	}
	if c.Multiplier <= 0 {
		c.Multiplier = d.Multiplier
	}
	if c.JitterFraction < 0 {
		c.JitterFraction = 0
	}
	return c
}

// backoff computes the jittered delay before retry number attempt
// (zero-based).
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := math.Min(
		float64(c.InitialBackoff)*math.Pow(c.Multiplier, float64(attempt)),
		float64(c.MaxBackoff),
	)
	if c.JitterFraction > 0 {
		delay += delay * c.JitterFraction * (rand.Float64()*2 - 1)
	}
	return time.Duration(math.Max(delay, 0))
}

// DoVal calls fn until it succeeds, the error is not transient, the
// attempts run out, or ctx is done, and returns the successful value
// or the last error seen.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(lastErr) {
			return zero, lastErr
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := cfg.backoff(attempt)
		zap.L().Warn("retrying provider call",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(lastErr))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

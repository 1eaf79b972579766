// Package geocode resolves address queries to coordinates via OpenCage,
// Geoapify, or Google, behind a single Provider interface.
package geocode

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/zoneplan/internal/resilience"
)

// Result holds the outcome for one query. Matched == false is the
// "no such place" sentinel: an expected outcome, not a fault.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string // "opencage", "geoapify", "google"
	Matched   bool
}

// Provider represents a single geocoding backend. Resolve returns an
// error only for transport or parse faults; an empty candidate list is
// an unmatched Result with a nil error.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, query string) (*Result, error)
}

// Options configures a provider's transport behavior.
type Options struct {
	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client

	// MinDelay overrides the provider's default minimum inter-request
	// delay. Zero keeps the default.
	MinDelay time.Duration
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// newLimiter builds the per-provider pacing limiter. Requests are
// sequential; the limiter only enforces the minimum gap between them.
func (o Options) newLimiter(defaultDelay time.Duration) *rate.Limiter {
	delay := defaultDelay
	if o.MinDelay > 0 {
		delay = o.MinDelay
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Client resolves query batches through one provider, sequentially and
// in order. Individual faults degrade to the unmatched sentinel after
// the retry budget is spent; only context cancellation fails the batch.
type Client struct {
	provider Provider
	retry    resilience.RetryConfig
}

// NewClient wraps a provider with the given retry policy.
func NewClient(p Provider, retry resilience.RetryConfig) *Client {
	return &Client{provider: p, retry: retry}
}

// ResolveAll resolves each query in input order. len(results) always
// equals len(queries).
func (c *Client) ResolveAll(ctx context.Context, queries []string) ([]Result, error) {
	results := make([]Result, len(queries))

	for i, q := range queries {
		r, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Result, error) {
			return c.provider.Resolve(ctx, q)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "geocode: batch cancelled")
			}
			zap.L().Debug("geocode: query failed, recording no match",
				zap.String("provider", c.provider.Name()),
				zap.String("query", q),
				zap.Error(err),
			)
			results[i] = Result{Matched: false, Source: c.provider.Name()}
			continue
		}
		results[i] = *r
	}

	return results, nil
}

package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/zoneplan/internal/resilience"
)

const (
	openCageURL = "https://api.opencagedata.com/geocode/v1/json"

	// OpenCage's free tier allows ~1 req/s; stay under it.
	openCageMinDelay = 1100 * time.Millisecond
)

// openCageResponse is the JSON response from the OpenCage geocoding API.
type openCageResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// OpenCage resolves queries via the OpenCage forward geocoding API.
type OpenCage struct {
	httpClient *http.Client
	key        string
	limiter    *rate.Limiter
}

// NewOpenCage creates an OpenCage provider. The key is required.
func NewOpenCage(key string, opts Options) (*OpenCage, error) {
	if key == "" {
		return nil, eris.Wrap(ErrMissingCredential,
			"opencage selected but no key configured (set ZONEPLAN_GEOCODER_OPENCAGE_KEY, OPENCAGE_KEY, or --opencage-key)")
	}
	return &OpenCage{
		httpClient: opts.httpClient(),
		key:        key,
		limiter:    opts.newLimiter(openCageMinDelay),
	}, nil
}

// Name implements Provider.
func (p *OpenCage) Name() string { return "opencage" }

// Resolve implements Provider.
func (p *OpenCage) Resolve(ctx context.Context, query string) (*Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: opencage rate limit")
	}

	params := url.Values{
		"q":     {query},
		"key":   {p.key},
		"limit": {"1"},
	}
	body, err := getJSON(ctx, p.httpClient, openCageURL+"?"+params.Encode(), "opencage")
	if err != nil {
		return nil, err
	}

	var resp openCageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "geocode: opencage parse response")
	}

	if len(resp.Results) == 0 {
		return &Result{Matched: false, Source: "opencage"}, nil
	}

	g := resp.Results[0].Geometry
	return &Result{
		Latitude:  g.Lat,
		Longitude: g.Lng,
		Source:    "opencage",
		Matched:   true,
	}, nil
}

// getJSON issues a GET and returns the response body. Retryable HTTP
// statuses come back wrapped as transient errors.
func getJSON(ctx context.Context, client *http.Client, reqURL, provider string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: %s build request", provider)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: %s request", provider)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("geocode: %s returned status %d", provider, resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: %s read body", provider)
	}
	return body, nil
}

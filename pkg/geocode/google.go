package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

	googleMinDelay = 200 * time.Millisecond
)

// googleGeocodeResponse is the JSON response from the Google Geocoding API.
type googleGeocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// Google resolves queries via the Google Geocoding API.
type Google struct {
	httpClient *http.Client
	key        string
	limiter    *rate.Limiter
}

// NewGoogle creates a Google provider. The key is required.
func NewGoogle(key string, opts Options) (*Google, error) {
	if key == "" {
		return nil, eris.Wrap(ErrMissingCredential,
			"google selected but no key configured (set ZONEPLAN_GEOCODER_GOOGLE_KEY, GOOGLE_MAPS_KEY, or --google-key)")
	}
	return &Google{
		httpClient: opts.httpClient(),
		key:        key,
		limiter:    opts.newLimiter(googleMinDelay),
	}, nil
}

// Name implements Provider.
func (p *Google) Name() string { return "google" }

// Resolve implements Provider.
func (p *Google) Resolve(ctx context.Context, query string) (*Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: google rate limit")
	}

	params := url.Values{
		"address": {query},
		"key":     {p.key},
	}
	body, err := getJSON(ctx, p.httpClient, googleGeocodeURL+"?"+params.Encode(), "google")
	if err != nil {
		return nil, err
	}

	var resp googleGeocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "geocode: google parse response")
	}

	if resp.Status != "OK" || len(resp.Results) == 0 {
		return &Result{Matched: false, Source: "google"}, nil
	}

	loc := resp.Results[0].Geometry.Location
	return &Result{
		Latitude:  loc.Lat,
		Longitude: loc.Lng,
		Source:    "google",
		Matched:   true,
	}, nil
}

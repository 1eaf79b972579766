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
	geoapifyURL = "https://api.geoapify.com/v1/geocode/search"

	geoapifyMinDelay = 1100 * time.Millisecond
)

// geoapifyResponse is the GeoJSON-shaped response from the Geoapify API.
// Feature coordinates are (lon, lat) order.
type geoapifyResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geoapify resolves queries via the Geoapify forward geocoding API.
type Geoapify struct {
	httpClient *http.Client
	key        string
	limiter    *rate.Limiter
}

// NewGeoapify creates a Geoapify provider. The key is required.
func NewGeoapify(key string, opts Options) (*Geoapify, error) {
	if key == "" {
		return nil, eris.Wrap(ErrMissingCredential,
			"geoapify selected but no key configured (set ZONEPLAN_GEOCODER_GEOAPIFY_KEY, GEOAPIFY_KEY, or --geoapify-key)")
	}
	return &Geoapify{
		httpClient: opts.httpClient(),
		key:        key,
		limiter:    opts.newLimiter(geoapifyMinDelay),
	}, nil
}

// Name implements Provider.
func (p *Geoapify) Name() string { return "geoapify" }

// Resolve implements Provider.
func (p *Geoapify) Resolve(ctx context.Context, query string) (*Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: geoapify rate limit")
	}

	params := url.Values{
		"text":   {query},
		"apiKey": {p.key},
		"limit":  {"1"},
	}
	body, err := getJSON(ctx, p.httpClient, geoapifyURL+"?"+params.Encode(), "geoapify")
	if err != nil {
		return nil, err
	}

	var resp geoapifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "geocode: geoapify parse response")
	}

	if len(resp.Features) == 0 {
		return &Result{Matched: false, Source: "geoapify"}, nil
	}

	coords := resp.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return nil, eris.Errorf("geocode: geoapify feature has %d coordinates", len(coords))
	}

	return &Result{
		Latitude:  coords[1],
		Longitude: coords[0],
		Source:    "geoapify",
		Matched:   true,
	}, nil
}

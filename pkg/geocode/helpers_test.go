package geocode

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// unlimited returns a rate limiter that never delays a test request.
func unlimited() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// roundTripFunc lets a plain function serve as an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// testClient returns an HTTP client that reroutes requests for the
// provider endpoint at target to the httptest server at base, so the
// provider code under test keeps its real URL constants.
func testClient(base, target string) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			orig := req.URL.String()
			if !strings.HasPrefix(orig, target) {
				return http.DefaultTransport.RoundTrip(req)
			}
			rerouted, err := req.URL.Parse(base + strings.TrimPrefix(orig, target))
			if err != nil {
				return nil, err
			}
			clone := req.Clone(req.Context())
			clone.URL = rerouted
			clone.Host = rerouted.Host
			return http.DefaultTransport.RoundTrip(clone)
		}),
	}
}

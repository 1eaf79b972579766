package resilience

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// TransientError marks a provider failure worth retrying, such as a
// rate-limit response or a flaky connection. StatusCode carries the
// HTTP status when the failure came from a response, zero otherwise.
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError tags err as retryable. Pass statusCode 0 for
// failures without an HTTP response.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// connectivityPatterns are substrings of wrapped transport errors that
// the geocoding HTTP clients surface without a typed cause.
var connectivityPatterns = []string{
	"connection reset by peer",
	"no such host",
	"tls handshake timeout",
	"i/o timeout",
}

// IsTransient reports whether err should be retried: a TransientError
// anywhere in the chain, a network timeout, a refused or reset
// connection, or one of the known transport failure messages.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range connectivityPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsTransientHTTPStatus reports whether a geocoding API response
// status is worth retrying. Client errors other than timeouts and
// rate limits (bad key, quota exhausted, malformed query) are final.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

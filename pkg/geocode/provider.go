package geocode

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Sentinel errors for provider construction. Both surface before any
// network activity.
var (
	// ErrMissingCredential means the selected provider has no API key.
	ErrMissingCredential = eris.New("geocode: missing credential for selected provider")

	// ErrUnsupportedProvider means the selected variant cannot be called
	// as a network service.
	ErrUnsupportedProvider = eris.New("geocode: provider cannot be used as a hosted API")
)

// Config selects and credentials a provider.
type Config struct {
	Provider    string
	OpenCageKey string
	GeoapifyKey string
	GoogleKey   string
	Options     Options
}

// New builds the configured provider. A missing credential or the QGIS
// stub is a fatal configuration error.
func New(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "opencage":
		return NewOpenCage(cfg.OpenCageKey, cfg.Options)
	case "geoapify":
		return NewGeoapify(cfg.GeoapifyKey, cfg.Options)
	case "google":
		return NewGoogle(cfg.GoogleKey, cfg.Options)
	case "qgis":
		return nil, eris.Wrap(ErrUnsupportedProvider, qgisRemediation)
	default:
		return nil, eris.Errorf("geocode: unknown provider %q (valid: opencage, geoapify, google, qgis)", cfg.Provider)
	}
}

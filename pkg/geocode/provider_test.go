package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
	}{
		{"opencage", Config{Provider: "opencage", OpenCageKey: "k"}, "opencage"},
		{"geoapify", Config{Provider: "geoapify", GeoapifyKey: "k"}, "geoapify"},
		{"google", Config{Provider: "google", GoogleKey: "k"}, "google"},
		{"case and space insensitive", Config{Provider: "  OpenCage ", OpenCageKey: "k"}, "opencage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNew_MissingCredential(t *testing.T) {
	for _, provider := range []string{"opencage", "geoapify", "google"} {
		t.Run(provider, func(t *testing.T) {
			_, err := New(Config{Provider: provider})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingCredential)
		})
	}
}

func TestNew_QGISUnsupported(t *testing.T) {
	_, err := New(Config{Provider: "qgis"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Contains(t, err.Error(), "lat/lon")
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "mapquest"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
	assert.Contains(t, err.Error(), "mapquest")
}

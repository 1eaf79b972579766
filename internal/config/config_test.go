package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "opencage", cfg.Geocoder.Provider)
	assert.Equal(t, 30, cfg.Geocoder.TimeoutSecs)
	assert.Equal(t, 3, cfg.Geocoder.MaxRetries)
	assert.Equal(t, 6, cfg.Cluster.KMin)
	assert.Equal(t, 8, cfg.Cluster.KMax)
	assert.Equal(t, int64(42), cfg.Cluster.Seed)
	assert.Equal(t, 10, cfg.Cluster.ScanRestarts)
	assert.Equal(t, 25, cfg.Cluster.FinalRestarts)
	assert.Equal(t, "zoneplan.db", cfg.Store.Path)
	assert.Equal(t, "zones", cfg.Output.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Output.MakeGoogleMap)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
geocoder:
  provider: geoapify
  timeout_secs: 10
cluster:
  kmin: 4
  kmax: 12
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "geoapify", cfg.Geocoder.Provider)
	assert.Equal(t, 10, cfg.Geocoder.TimeoutSecs)
	assert.Equal(t, 4, cfg.Cluster.KMin)
	assert.Equal(t, 12, cfg.Cluster.KMax)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, int64(42), cfg.Cluster.Seed)
	assert.Equal(t, "zones", cfg.Output.Prefix)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
geocoder:
  provider: geoapify
cluster:
  kmin: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ZONEPLAN_GEOCODER_PROVIDER", "google")
	t.Setenv("ZONEPLAN_CLUSTER_KMIN", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "google", cfg.Geocoder.Provider)
	assert.Equal(t, 5, cfg.Cluster.KMin)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("ZONEPLAN_CLUSTER_SEED", "7")
	t.Setenv("ZONEPLAN_OUTPUT_PREFIX", "stl")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Cluster.Seed)
	assert.Equal(t, "stl", cfg.Output.Prefix)
}

func TestLoadLegacyProviderKeys(t *testing.T) {
	chTempDir(t)

	t.Setenv("OPENCAGE_KEY", "oc-legacy")
	t.Setenv("GEOAPIFY_KEY", "ga-legacy")
	t.Setenv("GOOGLE_MAPS_KEY", "g-legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "oc-legacy", cfg.Geocoder.OpenCageKey)
	assert.Equal(t, "ga-legacy", cfg.Geocoder.GeoapifyKey)
	assert.Equal(t, "g-legacy", cfg.Geocoder.GoogleKey)
}

func TestLoadPrefixedKeyBeatsLegacy(t *testing.T) {
	chTempDir(t)

	t.Setenv("OPENCAGE_KEY", "oc-legacy")
	t.Setenv("ZONEPLAN_GEOCODER_OPENCAGE_KEY", "oc-new")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "oc-new", cfg.Geocoder.OpenCageKey)
}

func TestValidate_OK(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadBounds(t *testing.T) {
	cfg := &Config{}
	cfg.Cluster.KMin = 8
	cfg.Cluster.KMax = 6
	cfg.Cluster.ScanRestarts = 10
	cfg.Cluster.FinalRestarts = 25
	cfg.Geocoder.TimeoutSecs = 30

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster.kmax must be >= cluster.kmin")
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster.kmin")
	assert.Contains(t, err.Error(), "restarts")
	assert.Contains(t, err.Error(), "timeout_secs")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

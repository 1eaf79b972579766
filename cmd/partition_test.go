package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zoneplan/internal/config"
	"github.com/sells-group/zoneplan/internal/roster"
	"github.com/sells-group/zoneplan/internal/store"
)

// TestExecutePartition_CoordRosterSkipsProvider covers the re-run
// workflow: a roster that already carries lat/lon columns must
// partition without ever constructing a geocoding provider, even when
// the configured provider (qgis here) could never serve queries.
func TestExecutePartition_CoordRosterSkipsProvider(t *testing.T) {
	dir := t.TempDir()
	old := cfg
	t.Cleanup(func() { cfg = old })
	cfg = &config.Config{}
	cfg.Geocoder.Provider = "qgis"
	cfg.Cluster.KMin = 6
	cfg.Cluster.KMax = 8
	cfg.Cluster.Seed = 42
	cfg.Cluster.ScanRestarts = 5
	cfg.Cluster.FinalRestarts = 5
	cfg.Store.Path = filepath.Join(dir, "zoneplan.db")
	cfg.Output.Prefix = filepath.Join(dir, "zones")

	st, err := store.NewSQLite(cfg.Store.Path)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	mk := func(name, lat, lon string) roster.Record {
		return roster.Record{Fields: map[string]string{
			"name": name, "lat": lat, "lon": lon,
		}}
	}
	recs := []roster.Record{
		mk("Alpha", "30.2672", "-97.7431"),
		mk("Bravo", "30.2750", "-97.7400"),
		mk("Charlie", "30.2500", "-97.7600"),
		mk("Delta", "30.2900", "-97.7300"),
	}
	header := []string{"name", "lat", "lon"}

	summary, err := executePartition(ctx, recs, header, "Austin, TX", st, false, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Points)
	// Four points clamp the requested 6-8 range down to one zone each.
	assert.Equal(t, 4, summary.K)
}

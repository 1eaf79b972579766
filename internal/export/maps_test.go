package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload(t *testing.T) {
	part, bounds := testPartition(t)
	payload := buildPayload(part, bounds)

	assert.Len(t, payload.Markers, 5)
	assert.Len(t, payload.Centroids, 2)
	assert.Len(t, payload.Zones, 2)

	// Center is the grand mean: lat (1+0+1+0+10)/5, lng (0+0+1+1+10)/5.
	assert.InDelta(t, 2.4, payload.Center[0], 1e-9)
	assert.InDelta(t, 2.4, payload.Center[1], 1e-9)

	// Marker positions are [lat, lng].
	assert.Equal(t, [2]float64{10, 10}, payload.Markers[4].Pos)
	assert.Equal(t, 2, payload.Markers[4].Zone)
	assert.Equal(t, ZoneColor(2), payload.Markers[4].Color)

	// The polygonal zone carries a closed ring; the degenerate one none.
	assert.NotEmpty(t, payload.Zones[0].Ring)
	assert.Equal(t, payload.Zones[0].Ring[0], payload.Zones[0].Ring[len(payload.Zones[0].Ring)-1])
	assert.Empty(t, payload.Zones[1].Ring)
}

func TestWriteLeafletMap(t *testing.T) {
	part, bounds := testPartition(t)
	path := filepath.Join(t.TempDir(), "map.html")

	require.NoError(t, WriteLeafletMap(path, part, bounds, "Testville"))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(html)
	assert.Contains(t, s, "<title>Testville</title>")
	assert.Contains(t, s, "leaflet")
	assert.Contains(t, s, "Echo")
	assert.Contains(t, s, ZoneColor(1))
}

func TestWriteGoogleMap(t *testing.T) {
	part, bounds := testPartition(t)
	path := filepath.Join(t.TempDir(), "gmap.html")

	require.NoError(t, WriteGoogleMap(path, part, bounds, "Testville", "fake-key"))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(html)
	assert.Contains(t, s, "maps.googleapis.com")
	assert.Contains(t, s, "fake-key")
	assert.Contains(t, s, "initMap")
}

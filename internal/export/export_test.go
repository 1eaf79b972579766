package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zoneplan/internal/roster"
	"github.com/sells-group/zoneplan/internal/zoning"
)

// testPartition builds a two-zone fixture: a square of four points and
// a single outlying point.
func testPartition(t *testing.T) (*zoning.Partition, []zoning.Boundary) {
	t.Helper()

	mk := func(name, addr, city string, lat, lng float64) roster.ResolvedPoint {
		return roster.ResolvedPoint{
			Record: roster.Record{Fields: map[string]string{
				"name": name, "address": addr, "city": city,
			}},
			Coord: roster.Coordinate{Lat: lat, Lng: lng},
		}
	}
	part := &zoning.Partition{
		Points: []roster.ResolvedPoint{
			mk("Delta", "4 North St", "Equatown", 1, 0),
			mk("Alpha", "1 South St", "Equatown", 0, 0),
			mk("Charlie", "3 East St", "Equatown", 1, 1),
			mk("Bravo", "2 West St", "Equatown", 0, 1),
			mk("Echo", "5 Far Rd", "Outerville", 10, 10),
		},
		Labels:    []int{1, 1, 1, 1, 2},
		Centroids: []roster.Coordinate{{Lat: 0.5, Lng: 0.5}, {Lat: 10, Lng: 10}},
		K:         2,
	}
	return part, zoning.Boundaries(part)
}

// testHeader is the roster header matching testPartition's records.
func testHeader() []string {
	return []string{"name", "address", "city"}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteAssignmentsCSV_SortedByZoneThenName(t *testing.T) {
	part, _ := testPartition(t)
	path := filepath.Join(t.TempDir(), "assignments.csv")

	require.NoError(t, WriteAssignmentsCSV(path, part, testHeader()))

	rows := readCSV(t, path)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"zone", "name", "address", "city", "lat", "lon"}, rows[0])

	var names []string
	for _, row := range rows[1:] {
		names = append(names, row[1])
	}
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}, names)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2", rows[5][0])

	// Original columns ride along verbatim, with the resolved
	// coordinate in the appended lat/lon columns.
	assert.Equal(t, []string{"1", "Alpha", "1 South St", "Equatown", "0", "0"}, rows[1])
	assert.Equal(t, []string{"2", "Echo", "5 Far Rd", "Outerville", "10", "10"}, rows[5])
}

func TestWriteAssignmentsCSV_RosterCoordColumnsNotDuplicated(t *testing.T) {
	// A roster that arrived with lat/lon columns keeps them in place
	// instead of growing a second pair.
	part, _ := testPartition(t)
	path := filepath.Join(t.TempDir(), "assignments.csv")

	require.NoError(t, WriteAssignmentsCSV(path, part, []string{"name", "lat", "lon"}))

	rows := readCSV(t, path)
	assert.Equal(t, []string{"zone", "name", "lat", "lon"}, rows[0])
	assert.Equal(t, []string{"1", "Alpha", "0", "0"}, rows[1])
}

func TestWriteCentroidsCSV(t *testing.T) {
	part, _ := testPartition(t)
	path := filepath.Join(t.TempDir(), "centroids.csv")

	require.NoError(t, WriteCentroidsCSV(path, part))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"zone", "lat", "lng", "members"}, rows[0])
	assert.Equal(t, []string{"1", "0.5", "0.5", "4"}, rows[1])
	assert.Equal(t, []string{"2", "10", "10", "1"}, rows[2])
}

func TestZoneColor_CyclesPalette(t *testing.T) {
	assert.Equal(t, ZoneColor(1), ZoneColor(11))
	assert.NotEqual(t, ZoneColor(1), ZoneColor(2))
	for z := 1; z <= 10; z++ {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, ZoneColor(z))
	}

	// Matplotlib tab10 ordering, blue first.
	assert.Equal(t, "#1f77b4", ZoneColor(1))
	assert.Equal(t, "#ff7f0e", ZoneColor(2))
	assert.Equal(t, "#d62728", ZoneColor(4))
}

func TestRequestFiles(t *testing.T) {
	req := Request{Prefix: "out/zones"}
	files := req.Files()
	assert.Len(t, files, 6)
	assert.NotContains(t, files, "out/zones_gmap.html")

	req.MakeGoogleMap = true
	assert.Contains(t, req.Files(), "out/zones_gmap.html")
}

func TestWriteAll_ProducesEveryArtifact(t *testing.T) {
	part, bounds := testPartition(t)
	prefix := filepath.Join(t.TempDir(), "zones")
	req := Request{Prefix: prefix, Title: "Testville", MakeGoogleMap: true, GoogleMapsKey: "k"}

	require.NoError(t, WriteAll(context.Background(), part, bounds, req))

	for _, f := range req.Files() {
		info, err := os.Stat(f)
		require.NoError(t, err, "missing artifact %s", f)
		assert.Positive(t, info.Size(), "empty artifact %s", f)
	}
}

// Package export renders a finished partition to the delivery
// artifacts: CSV and XLSX tables, GeoJSON, a shapefile, and
// interactive map pages.
package export

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/zoneplan/internal/zoning"
)

// palette holds the marker/fill colors cycled across zones. Zone z
// uses palette[(z-1) % len(palette)].
var palette = []string{
	"#1f77b4", // blue
	"#ff7f0e", // orange
	"#2ca02c", // green
	"#d62728", // red
	"#9467bd", // purple
	"#8c564b", // brown
	"#e377c2", // pink
	"#7f7f7f", // gray
	"#bcbd22", // olive
	"#17becf", // cyan
}

// ZoneColor returns the display color for a 1-based zone label.
func ZoneColor(zone int) string {
	return palette[(zone-1)%len(palette)]
}

// Request names the artifacts one export run produces.
type Request struct {
	Prefix        string   // path prefix, e.g. "out/zones"
	Title         string   // map page title, usually the target city
	Header        []string // roster columns, carried into the labeled tables
	MakeGoogleMap bool
	GoogleMapsKey string
}

// Files lists the paths a Request will write.
func (r Request) Files() []string {
	files := []string{
		r.Prefix + "_assignments.csv",
		r.Prefix + "_centroids.csv",
		r.Prefix + ".xlsx",
		r.Prefix + ".geojson",
		r.Prefix + ".shp",
		r.Prefix + "_map.html",
	}
	if r.MakeGoogleMap {
		files = append(files, r.Prefix+"_gmap.html")
	}
	return files
}

// WriteAll writes every artifact for the partition, running the
// independent writers concurrently. The first failure cancels the
// rest.
func WriteAll(ctx context.Context, part *zoning.Partition, bounds []zoning.Boundary, req Request) error {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error { return WriteAssignmentsCSV(req.Prefix+"_assignments.csv", part, req.Header) })
	g.Go(func() error { return WriteCentroidsCSV(req.Prefix+"_centroids.csv", part) })
	g.Go(func() error { return WriteWorkbook(req.Prefix+".xlsx", part, req.Header) })
	g.Go(func() error { return WriteGeoJSON(req.Prefix+".geojson", part, bounds) })
	g.Go(func() error { return WriteShapefile(req.Prefix+".shp", bounds) })
	g.Go(func() error { return WriteLeafletMap(req.Prefix+"_map.html", part, bounds, req.Title) })
	if req.MakeGoogleMap {
		g.Go(func() error {
			return WriteGoogleMap(req.Prefix+"_gmap.html", part, bounds, req.Title, req.GoogleMapsKey)
		})
	}

	return g.Wait()
}

// zoneSheetName names the per-zone XLSX sheet and map layers.
func zoneSheetName(zone int) string {
	return fmt.Sprintf("Zone %d", zone)
}

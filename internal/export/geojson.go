package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/zoneplan/internal/zoning"
)

// WriteGeoJSON writes a FeatureCollection holding every member point,
// each zone centroid, and each zone boundary. Coordinates follow the
// GeoJSON lng/lat axis order.
func WriteGeoJSON(path string, part *zoning.Partition, bounds []zoning.Boundary) error {
	fc := &geojson.FeatureCollection{}

	for i, p := range part.Points {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{p.Coord.Lng, p.Coord.Lat}).SetSRID(4326),
			Properties: map[string]any{
				"kind":    "member",
				"zone":    part.Labels[i],
				"name":    p.Record.Name(),
				"address": p.Record.Address(),
				"color":   ZoneColor(part.Labels[i]),
			},
		})
	}

	for z := 1; z <= part.K; z++ {
		c := part.Centroids[z-1]
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{c.Lng, c.Lat}).SetSRID(4326),
			Properties: map[string]any{
				"kind": "centroid",
				"zone": z,
			},
		})
	}

	for _, b := range bounds {
		if b.Geometry == nil {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: b.Geometry,
			Properties: map[string]any{
				"kind":  "boundary",
				"zone":  b.Zone,
				"color": ZoneColor(b.Zone),
			},
		})
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal GeoJSON")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

package export

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/zoneplan/internal/zoning"
)

// WriteShapefile writes zone boundary polygons with a ZONE attribute.
// Degenerate boundaries (points, lines) cannot live in a polygon
// shapefile and are skipped with a warning; they remain available in
// the GeoJSON artifact.
func WriteShapefile(path string, bounds []zoning.Boundary) error {
	log := zap.L().With(zap.String("component", "export"))

	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}

	if err := w.SetFields([]shp.Field{shp.NumberField("ZONE", 10)}); err != nil {
		w.Close()
		return eris.Wrap(err, "export: set shapefile fields")
	}

	row := 0
	for _, b := range bounds {
		poly, ok := b.Geometry.(*geom.Polygon)
		if !ok {
			log.Warn("skipping degenerate zone boundary in shapefile",
				zap.Int("zone", b.Zone))
			continue
		}

		ring := shpRing(poly)
		if len(ring) < 4 {
			log.Warn("skipping malformed zone boundary in shapefile",
				zap.Int("zone", b.Zone))
			continue
		}

		pg := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
		w.Write(&pg)
		if err := w.WriteAttribute(row, 0, b.Zone); err != nil {
			w.Close()
			return eris.Wrapf(err, "export: write ZONE attribute for zone %d", b.Zone)
		}
		row++
	}
	w.Close()

	// go-shp saves the attribute table as "<base>dbf", where readers
	// look for "<base>.dbf"; put the dot back so the ZONE attributes
	// travel with the .shp.
	base := strings.TrimSuffix(path, ".shp")
	if _, err := os.Stat(base + "dbf"); err == nil {
		if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
			return eris.Wrapf(err, "export: rename attribute table for %s", path)
		}
	}
	return nil
}

// shpRing converts the polygon's outer ring to shapefile points in
// clockwise order, as the shapefile spec requires for outer rings.
func shpRing(poly *geom.Polygon) []shp.Point {
	if poly.NumLinearRings() == 0 {
		return nil
	}
	coords := poly.LinearRing(0).Coords()
	ring := make([]shp.Point, 0, len(coords))
	for i := len(coords) - 1; i >= 0; i-- {
		ring = append(ring, shp.Point{X: coords[i][0], Y: coords[i][1]})
	}
	return ring
}

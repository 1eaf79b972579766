package export

import (
	"encoding/json"
	"html/template"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/zoneplan/internal/zoning"
)

// mapPayload is the JSON blob both map pages render from. All
// coordinate pairs are [lat, lng].
type mapPayload struct {
	Center    [2]float64    `json:"center"`
	Markers   []mapMarker   `json:"markers"`
	Centroids []mapCentroid `json:"centroids"`
	Zones     []mapZone     `json:"zones"`
}

type mapMarker struct {
	Pos   [2]float64 `json:"pos"`
	Zone  int        `json:"zone"`
	Name  string     `json:"name"`
	Color string     `json:"color"`
}

type mapCentroid struct {
	Pos  [2]float64 `json:"pos"`
	Zone int        `json:"zone"`
}

type mapZone struct {
	Zone  int          `json:"zone"`
	Color string       `json:"color"`
	Ring  [][2]float64 `json:"ring,omitempty"` // empty for degenerate zones
}

// buildPayload flattens the partition into plot-ready data. The map
// centers on the grand mean of all member points.
func buildPayload(part *zoning.Partition, bounds []zoning.Boundary) mapPayload {
	var payload mapPayload

	var latSum, lngSum float64
	for i, p := range part.Points {
		latSum += p.Coord.Lat
		lngSum += p.Coord.Lng
		payload.Markers = append(payload.Markers, mapMarker{
			Pos:   [2]float64{p.Coord.Lat, p.Coord.Lng},
			Zone:  part.Labels[i],
			Name:  p.Record.Name(),
			Color: ZoneColor(part.Labels[i]),
		})
	}
	n := float64(len(part.Points))
	payload.Center = [2]float64{latSum / n, lngSum / n}

	for z := 1; z <= part.K; z++ {
		c := part.Centroids[z-1]
		payload.Centroids = append(payload.Centroids, mapCentroid{
			Pos:  [2]float64{c.Lat, c.Lng},
			Zone: z,
		})
	}

	for _, b := range bounds {
		zone := mapZone{Zone: b.Zone, Color: ZoneColor(b.Zone)}
		if poly, ok := b.Geometry.(*geom.Polygon); ok && poly.NumLinearRings() > 0 {
			for _, c := range poly.LinearRing(0).Coords() {
				zone.Ring = append(zone.Ring, [2]float64{c[1], c[0]})
			}
		}
		payload.Zones = append(payload.Zones, zone)
	}
	return payload
}

// renderMap executes tmpl with the payload embedded as a JS literal.
func renderMap(path string, tmpl *template.Template, part *zoning.Partition, bounds []zoning.Boundary, extra map[string]any) error {
	blob, err := json.Marshal(buildPayload(part, bounds))
	if err != nil {
		return eris.Wrap(err, "export: marshal map payload")
	}

	data := map[string]any{"Payload": template.JS(blob)}
	for k, v := range extra {
		data[k] = v
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() { _ = f.Close() }()

	if err := tmpl.Execute(f, data); err != nil {
		return eris.Wrapf(err, "export: render %s", path)
	}
	return nil
}

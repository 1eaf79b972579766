package zoning

import (
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/zoneplan/internal/roster"
)

// Boundary is the convex outline of one zone. Degenerate zones carry a
// point or line geometry instead of a polygon.
type Boundary struct {
	Zone     int
	Geometry geom.T
}

// Boundaries computes the convex hull of every zone's members, in zone
// order. All geometries are lng/lat (x/y) with SRID 4326.
func Boundaries(p *Partition) []Boundary {
	out := make([]Boundary, 0, p.K)
	for z := 1; z <= p.K; z++ {
		out = append(out, Boundary{Zone: z, Geometry: ConvexHull(p.ZonePoints(z))})
	}
	return out
}

// ConvexHull builds the convex hull of coords by monotone chain. The
// result is a counterclockwise closed Polygon, degrading to a
// LineString for collinear inputs and a Point for a single distinct
// location. Returns nil for an empty input.
func ConvexHull(coords []roster.Coordinate) geom.T {
	pts := dedupe(coords)
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return geom.NewPointFlat(geom.XY, []float64{pts[0].Lng, pts[0].Lat}).SetSRID(4326)
	}

	hull := monotoneChain(pts)
	if len(hull) == 2 {
		return geom.NewLineStringFlat(geom.XY, flatCoords(hull)).SetSRID(4326)
	}

	ring := append(hull, hull[0]) // close the ring
	lr := geom.NewLinearRingFlat(geom.XY, flatCoords(ring))
	poly := geom.NewPolygon(geom.XY).SetSRID(4326)
	if err := poly.Push(lr); err != nil {
		// Cannot happen for a well-formed closed ring.
		return geom.NewLineStringFlat(geom.XY, flatCoords(hull)).SetSRID(4326)
	}
	return poly
}

// monotoneChain returns the hull vertices in counterclockwise order
// without repeating the first point. Input must contain at least two
// distinct points, sorted or not.
func monotoneChain(pts []roster.Coordinate) []roster.Coordinate {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Lng != pts[j].Lng {
			return pts[i].Lng < pts[j].Lng
		}
		return pts[i].Lat < pts[j].Lat
	})

	var lower []roster.Coordinate
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []roster.Coordinate
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// cross is the z-component of (b-a) x (c-a) in the lng/lat plane.
// Positive for a counterclockwise turn.
func cross(a, b, c roster.Coordinate) float64 {
	return (b.Lng-a.Lng)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lng-a.Lng)
}

func dedupe(coords []roster.Coordinate) []roster.Coordinate {
	seen := make(map[roster.Coordinate]struct{}, len(coords))
	out := make([]roster.Coordinate, 0, len(coords))
	for _, c := range coords {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func flatCoords(coords []roster.Coordinate) []float64 {
	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c.Lng, c.Lat)
	}
	return flat
}

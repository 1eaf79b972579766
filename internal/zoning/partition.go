package zoning

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/zoneplan/internal/roster"
)

// Partition is a complete zone assignment: labels are 1-based and
// parallel to Points, and Centroids[z-1] is the member mean of zone z.
// Every zone in 1..K has at least one member.
type Partition struct {
	Points    []roster.ResolvedPoint
	Labels    []int
	Centroids []roster.Coordinate
	K         int
}

// AssignOpts seeds the final clustering pass.
type AssignOpts struct {
	Seed     int64
	Restarts int
}

// Assign clusters points into k zones and relabels clusters 1..k. If k
// exceeds the point count it is clamped with a warning so every zone
// keeps at least one member.
func Assign(points []roster.ResolvedPoint, k int, opts AssignOpts) (*Partition, error) {
	log := zap.L().With(zap.String("component", "zoning"))

	if len(points) == 0 {
		return nil, eris.New("zoning: no points to assign")
	}
	if k < 1 {
		return nil, eris.Errorf("zoning: invalid zone count %d", k)
	}
	if k > len(points) {
		log.Warn("zone count exceeds point count, clamping",
			zap.Int("requested", k), zap.Int("points", len(points)))
		k = len(points)
	}

	coords := make([]roster.Coordinate, len(points))
	for i, p := range points {
		coords[i] = p.Coord
	}
	if err := validateCoords(coords); err != nil {
		return nil, err
	}

	f := kmeans(coords, k, opts.Restarts, opts.Seed)

	part := &Partition{
		Points:    points,
		Labels:    make([]int, len(points)),
		Centroids: make([]roster.Coordinate, k),
		K:         k,
	}
	sums := make([]roster.Coordinate, k)
	counts := make([]int, k)
	for i, l := range f.labels {
		part.Labels[i] = l + 1
		sums[l].Lat += coords[i].Lat
		sums[l].Lng += coords[i].Lng
		counts[l]++
	}
	for z := 0; z < k; z++ {
		if counts[z] == 0 {
			return nil, eris.Errorf("zoning: zone %d ended up empty", z+1)
		}
		part.Centroids[z] = roster.Coordinate{
			Lat: sums[z].Lat / float64(counts[z]),
			Lng: sums[z].Lng / float64(counts[z]),
		}
	}

	log.Info("assigned zones", zap.Int("k", k), zap.Int("points", len(points)))
	return part, nil
}

// Silhouette scores the finished partition, 0 when only one zone
// exists.
func (p *Partition) Silhouette() float64 {
	if p.K < 2 {
		return 0
	}
	coords := make([]roster.Coordinate, len(p.Points))
	labels := make([]int, len(p.Labels))
	for i := range p.Points {
		coords[i] = p.Points[i].Coord
		labels[i] = p.Labels[i] - 1
	}
	return silhouette(coords, labels, p.K)
}

// ZonePoints returns the coordinates of every member of zone z (1-based).
func (p *Partition) ZonePoints(z int) []roster.Coordinate {
	var out []roster.Coordinate
	for i, l := range p.Labels {
		if l == z {
			out = append(out, p.Points[i].Coord)
		}
	}
	return out
}

// Counts returns member counts indexed by zone-1.
func (p *Partition) Counts() []int {
	counts := make([]int, p.K)
	for _, l := range p.Labels {
		counts[l-1]++
	}
	return counts
}

// Package zoning partitions resolved points into labeled zones: it
// selects a zone count by silhouette score, assigns labels with
// k-means, and builds convex boundary polygons per zone.
package zoning

import (
	"math"
	"math/rand/v2"

	"github.com/rotisserie/eris"

	"github.com/sells-group/zoneplan/internal/roster"
)

// ErrMalformedCoordinate marks lat/lon values that are blank,
// non-numeric, non-finite, or out of range — raised by the resolver
// when the input's coordinate columns hold bad values, and here as a
// precondition check on the point set.
var ErrMalformedCoordinate = eris.New("malformed coordinate: non-finite, out-of-range, or unparseable lat/lon")

const maxIterations = 100

// fit is one k-means solution: a 0-based label per point and the total
// within-cluster sum of squared distances.
type fit struct {
	labels  []int
	inertia float64
}

// kmeans runs Lloyd's algorithm with k-means++ seeding, keeping the
// lowest-inertia solution across restarts. Deterministic for a given
// seed. Callers must ensure 1 <= k <= len(coords).
func kmeans(coords []roster.Coordinate, k, restarts int, seed int64) fit {
	if restarts < 1 {
		restarts = 1
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	best := fit{inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		f := lloyd(coords, k, rng)
		if f.inertia < best.inertia {
			best = f
		}
	}
	return best
}

// lloyd runs one seeded k-means pass to convergence.
func lloyd(coords []roster.Coordinate, k int, rng *rand.Rand) fit {
	centroids := seedPlusPlus(coords, k, rng)
	labels := make([]int, len(coords))

	for iter := 0; iter < maxIterations; iter++ {
		changed := assign(coords, centroids, labels)
		repairEmpty(coords, centroids, labels, k)
		updateCentroids(coords, centroids, labels)
		if !changed && iter > 0 {
			break
		}
	}

	var inertia float64
	for i, c := range coords {
		inertia += sqDist(c, centroids[labels[i]])
	}
	return fit{labels: labels, inertia: inertia}
}

// seedPlusPlus picks k initial centroids with k-means++ weighting.
func seedPlusPlus(coords []roster.Coordinate, k int, rng *rand.Rand) []roster.Coordinate {
	centroids := make([]roster.Coordinate, 0, k)
	centroids = append(centroids, coords[rng.IntN(len(coords))])

	dists := make([]float64, len(coords))
	for len(centroids) < k {
		var total float64
		for i, c := range coords {
			d := sqDist(c, centroids[0])
			for _, cen := range centroids[1:] {
				if d2 := sqDist(c, cen); d2 < d {
					d = d2
				}
			}
			dists[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a centroid; pick any.
			centroids = append(centroids, coords[rng.IntN(len(coords))])
			continue
		}

		target := rng.Float64() * total
		var acc float64
		pick := len(coords) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, coords[pick])
	}
	return centroids
}

// assign labels each point with its nearest centroid, reporting whether
// any label changed.
func assign(coords []roster.Coordinate, centroids []roster.Coordinate, labels []int) bool {
	changed := false
	for i, c := range coords {
		bestLabel, bestDist := 0, math.Inf(1)
		for j, cen := range centroids {
			if d := sqDist(c, cen); d < bestDist {
				bestLabel, bestDist = j, d
			}
		}
		if labels[i] != bestLabel {
			labels[i] = bestLabel
			changed = true
		}
	}
	return changed
}

// repairEmpty moves the point farthest from its centroid into each
// empty cluster, so every label keeps at least one member when k does
// not exceed the point count.
func repairEmpty(coords []roster.Coordinate, centroids []roster.Coordinate, labels []int, k int) {
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	for cluster := 0; cluster < k; cluster++ {
		if counts[cluster] > 0 {
			continue
		}

		donor, maxDist := -1, -1.0
		for i, c := range coords {
			if counts[labels[i]] <= 1 {
				continue
			}
			if d := sqDist(c, centroids[labels[i]]); d > maxDist {
				donor, maxDist = i, d
			}
		}
		if donor < 0 {
			continue
		}

		counts[labels[donor]]--
		labels[donor] = cluster
		counts[cluster]++
		centroids[cluster] = coords[donor]
	}
}

// updateCentroids recomputes each centroid as its members' mean.
func updateCentroids(coords []roster.Coordinate, centroids []roster.Coordinate, labels []int) {
	k := len(centroids)
	sums := make([]roster.Coordinate, k)
	counts := make([]int, k)
	for i, c := range coords {
		l := labels[i]
		sums[l].Lat += c.Lat
		sums[l].Lng += c.Lng
		counts[l]++
	}
	for j := 0; j < k; j++ {
		if counts[j] == 0 {
			continue
		}
		centroids[j] = roster.Coordinate{
			Lat: sums[j].Lat / float64(counts[j]),
			Lng: sums[j].Lng / float64(counts[j]),
		}
	}
}

// nonEmptyClusters counts distinct labels actually used.
func nonEmptyClusters(labels []int, k int) int {
	seen := make([]bool, k)
	n := 0
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			n++
		}
	}
	return n
}

// validateCoords enforces the resolver's coordinate invariant.
func validateCoords(coords []roster.Coordinate) error {
	for i, c := range coords {
		if !c.Valid() {
			return eris.Wrapf(ErrMalformedCoordinate, "point %d: (%v, %v)", i, c.Lat, c.Lng)
		}
	}
	return nil
}

func sqDist(a, b roster.Coordinate) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}

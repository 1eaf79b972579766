package zoning

import (
	"math"

	"github.com/sells-group/zoneplan/internal/roster"
)

// silhouette computes the mean silhouette coefficient over all points,
// with Euclidean distance on the lat/lng plane. Requires at least two
// non-empty clusters; singleton-cluster points score zero. Mirrors the
// standard definition: s(i) = (b(i)-a(i)) / max(a(i), b(i)).
func silhouette(coords []roster.Coordinate, labels []int, k int) float64 {
	n := len(coords)
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	var total float64
	for i := 0; i < n; i++ {
		li := labels[i]
		if counts[li] <= 1 {
			continue // s(i) = 0 for singleton clusters
		}

		// Mean distance from point i to every cluster.
		sums := make([]float64, k)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(coords[i], coords[j]))
		}

		a := sums[li] / float64(counts[li]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == li || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); m < b {
				b = m
			}
		}

		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

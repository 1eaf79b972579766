package zoning

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/zoneplan/internal/roster"
)

// SelectOpts bounds and seeds the zone-count scan.
type SelectOpts struct {
	KMin     int
	KMax     int
	Seed     int64
	Restarts int // k-means restarts per candidate k
}

// ChooseK scans k over [KMin, KMax], scoring each candidate clustering
// by mean silhouette, and returns the k with the highest score. Ties
// keep the smallest k. Candidates whose clustering collapses to a
// single non-empty zone are skipped; if every candidate collapses,
// KMin is returned as a fallback.
func ChooseK(coords []roster.Coordinate, opts SelectOpts) (int, error) {
	log := zap.L().With(zap.String("component", "zoning"))

	if len(coords) == 0 {
		return 0, eris.New("zoning: no points to cluster")
	}
	if opts.KMin < 1 || opts.KMax < opts.KMin {
		return 0, eris.Errorf("zoning: invalid zone-count range [%d, %d]", opts.KMin, opts.KMax)
	}
	if err := validateCoords(coords); err != nil {
		return 0, err
	}

	bestK := opts.KMin
	bestScore := -1.0
	scored := false
	for k := opts.KMin; k <= opts.KMax; k++ {
		if k < 2 || k > len(coords) {
			log.Debug("skipping degenerate candidate", zap.Int("k", k), zap.Int("points", len(coords)))
			continue
		}

		f := kmeans(coords, k, opts.Restarts, opts.Seed)
		if nonEmptyClusters(f.labels, k) < 2 {
			log.Debug("candidate collapsed to a single zone", zap.Int("k", k))
			continue
		}

		score := silhouette(coords, f.labels, k)
		log.Debug("scored candidate", zap.Int("k", k), zap.Float64("silhouette", score))
		if !scored || score > bestScore {
			bestK, bestScore = k, score
		}
		scored = true
	}

	if !scored {
		log.Warn("all candidate zone counts degenerate, falling back to minimum",
			zap.Int("k", opts.KMin))
	} else {
		log.Info("selected zone count", zap.Int("k", bestK), zap.Float64("silhouette", bestScore))
	}
	return bestK, nil
}

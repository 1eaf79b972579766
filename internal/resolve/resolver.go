package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/zoneplan/internal/roster"
	"github.com/sells-group/zoneplan/internal/zoning"
	"github.com/sells-group/zoneplan/pkg/geocode"
)

// ErrEmptyResolvedSet means no record survived geocoding; there is
// nothing to partition.
var ErrEmptyResolvedSet = eris.New("resolve: no rows with valid lat/lon; check input and API keys")

// Batcher resolves an ordered query batch. Satisfied by *geocode.Client.
type Batcher interface {
	ResolveAll(ctx context.Context, queries []string) ([]geocode.Result, error)
}

// Run resolves every record to a coordinate. When the input header
// carries lat/lon columns the provider is never consulted: the skip
// keys off column presence, and a blank or unparseable value in those
// columns is a fatal malformed-coordinate error, not a row to geocode.
// Otherwise every record is geocoded; records the provider cannot
// place are dropped, and an empty survivor set is fatal.
func Run(ctx context.Context, recs []roster.Record, header []string, client Batcher, contextHint string) ([]roster.ResolvedPoint, error) {
	if roster.HasCoordColumns(header) {
		zap.L().Info("input already has lat/lon columns; skipping geocoding",
			zap.Int("records", len(recs)),
		)
		points := make([]roster.ResolvedPoint, len(recs))
		for i, rec := range recs {
			coord, ok := rec.Coordinate()
			if !ok {
				return nil, eris.Wrapf(zoning.ErrMalformedCoordinate,
					"resolve: row %d (%s): lat=%q lon=%q",
					i+1, rec.Name(), rec.Get(roster.ColLat), rec.Get(roster.ColLon))
			}
			points[i] = roster.ResolvedPoint{Record: rec, Coord: coord}
		}
		return points, nil
	}

	queries := make([]string, len(recs))
	for i, rec := range recs {
		queries[i] = BuildQuery(rec, contextHint)
	}

	results, err := client.ResolveAll(ctx, queries)
	if err != nil {
		return nil, err
	}

	var points []roster.ResolvedPoint
	dropped := 0
	for i, res := range results {
		if !res.Matched {
			dropped++
			zap.L().Debug("dropping unresolved record",
				zap.String("query", queries[i]),
				zap.String("name", recs[i].Name()),
			)
			continue
		}
		coord := roster.Coordinate{Lat: res.Latitude, Lng: res.Longitude}
		if !coord.Valid() {
			dropped++
			zap.L().Warn("provider returned out-of-range coordinate; dropping record",
				zap.String("query", queries[i]),
				zap.Float64("lat", res.Latitude),
				zap.Float64("lng", res.Longitude),
			)
			continue
		}
		points = append(points, roster.ResolvedPoint{Record: recs[i], Coord: coord})
	}

	if len(points) == 0 {
		return nil, ErrEmptyResolvedSet
	}

	if dropped > 0 {
		zap.L().Info("geocoding complete",
			zap.Int("resolved", len(points)),
			zap.Int("dropped", dropped),
		)
	}
	return points, nil
}

package store

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"

	"github.com/sells-group/zoneplan/internal/db"
	"github.com/sells-group/zoneplan/internal/zoning"
)

// Sink publishes finished partitions to PostGIS so zones can be
// queried and joined spatially. It is optional; runs archive to SQLite
// regardless.
type Sink struct {
	pool db.Pool
}

// NewSink wraps an existing pool.
func NewSink(pool db.Pool) *Sink {
	return &Sink{pool: pool}
}

const sinkMigration = `
CREATE TABLE IF NOT EXISTS zones (
	run_id   TEXT NOT NULL,
	zone     INT  NOT NULL,
	members  INT  NOT NULL,
	centroid geometry(Point, 4326) NOT NULL,
	boundary geometry(Geometry, 4326),
	PRIMARY KEY (run_id, zone)
);

CREATE TABLE IF NOT EXISTS zone_members (
	run_id   TEXT NOT NULL,
	zone     INT  NOT NULL,
	name     TEXT,
	address  TEXT,
	location geometry(Point, 4326) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_zone_members_run ON zone_members(run_id, zone);
CREATE INDEX IF NOT EXISTS idx_zone_members_location ON zone_members USING GIST (location);
`

// Migrate creates the sink tables. Requires the postgis extension.
func (s *Sink) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, sinkMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate sink")
	}
	return nil
}

// Publish writes the partition's zones and members under runID,
// replacing any earlier publish of the same run.
func (s *Sink) Publish(ctx context.Context, runID string, part *zoning.Partition, bounds []zoning.Boundary) error {
	log := zap.L().With(zap.String("component", "store.sink"), zap.String("run_id", runID))

	zoneRows, err := zoneRows(runID, part, bounds)
	if err != nil {
		return err
	}
	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "zones",
		Columns:      []string{"run_id", "zone", "members", "centroid", "boundary"},
		ConflictKeys: []string{"run_id", "zone"},
	}, zoneRows); err != nil {
		return eris.Wrap(err, "postgres: upsert zones")
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM zone_members WHERE run_id = $1`, runID); err != nil {
		return eris.Wrap(err, "postgres: clear zone members")
	}

	memberRows, err := memberRows(runID, part)
	if err != nil {
		return err
	}
	n, err := db.CopyFrom(ctx, s.pool, "zone_members",
		[]string{"run_id", "zone", "name", "address", "location"}, memberRows)
	if err != nil {
		return eris.Wrap(err, "postgres: copy zone members")
	}

	log.Info("published partition", zap.Int("zones", part.K), zap.Int64("members", n))
	return nil
}

func zoneRows(runID string, part *zoning.Partition, bounds []zoning.Boundary) ([][]any, error) {
	boundaries := make(map[int]geom.T, len(bounds))
	for _, b := range bounds {
		boundaries[b.Zone] = b.Geometry
	}

	counts := part.Counts()
	rows := make([][]any, 0, part.K)
	for z := 1; z <= part.K; z++ {
		c := part.Centroids[z-1]
		centroid, err := ewkb.Marshal(
			geom.NewPointFlat(geom.XY, []float64{c.Lng, c.Lat}).SetSRID(4326), ewkb.NDR)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: encode centroid for zone %d", z)
		}

		var boundary any
		if g := boundaries[z]; g != nil {
			data, err := ewkb.Marshal(g, ewkb.NDR)
			if err != nil {
				return nil, eris.Wrapf(err, "postgres: encode boundary for zone %d", z)
			}
			boundary = data
		}

		rows = append(rows, []any{runID, z, counts[z-1], centroid, boundary})
	}
	return rows, nil
}

func memberRows(runID string, part *zoning.Partition) ([][]any, error) {
	rows := make([][]any, 0, len(part.Points))
	for i, p := range part.Points {
		location, err := ewkb.Marshal(
			geom.NewPointFlat(geom.XY, []float64{p.Coord.Lng, p.Coord.Lat}).SetSRID(4326), ewkb.NDR)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: encode member point %d", i)
		}
		rows = append(rows, []any{runID, part.Labels[i], p.Record.Name(), p.Record.Address(), location})
	}
	return rows, nil
}

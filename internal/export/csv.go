package export

import (
	"encoding/csv"
	"os"
	"slices"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/zoneplan/internal/roster"
	"github.com/sells-group/zoneplan/internal/zoning"
)

// assignmentColumns returns the roster's columns in input order, with
// lat/lon appended when the roster did not already carry them. Every
// original column rides along into the labeled outputs.
func assignmentColumns(header []string) []string {
	cols := make([]string, 0, len(header)+2)
	cols = append(cols, header...)
	if !slices.Contains(cols, roster.ColLat) {
		cols = append(cols, roster.ColLat)
	}
	if !slices.Contains(cols, roster.ColLon) {
		cols = append(cols, roster.ColLon)
	}
	return cols
}

// fieldValue resolves one output cell: the lat/lon columns carry the
// resolved coordinate, every other column is the record's verbatim
// input value.
func fieldValue(p roster.ResolvedPoint, col string) string {
	switch col {
	case roster.ColLat:
		return formatCoord(p.Coord.Lat)
	case roster.ColLon:
		return formatCoord(p.Coord.Lng)
	default:
		return p.Record.Fields[col]
	}
}

// WriteAssignmentsCSV writes one row per point, sorted by zone then
// name: the zone label first, then every original column plus the
// resolved coordinate.
func WriteAssignmentsCSV(path string, part *zoning.Partition, header []string) error {
	cols := assignmentColumns(header)

	idx := make([]int, len(part.Points))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if part.Labels[idx[a]] != part.Labels[idx[b]] {
			return part.Labels[idx[a]] < part.Labels[idx[b]]
		}
		return part.Points[idx[a]].Record.Name() < part.Points[idx[b]].Record.Name()
	})

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"zone"}, cols...)); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}
	for _, i := range idx {
		rec := make([]string, 0, len(cols)+1)
		rec = append(rec, strconv.Itoa(part.Labels[i]))
		for _, col := range cols {
			rec = append(rec, fieldValue(part.Points[i], col))
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "export: write CSV row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", path)
	}
	return nil
}

// WriteCentroidsCSV writes one row per zone with its centroid and
// member count.
func WriteCentroidsCSV(path string, part *zoning.Partition) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() { _ = f.Close() }()

	counts := part.Counts()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"zone", "lat", "lng", "members"}); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}
	for z := 1; z <= part.K; z++ {
		c := part.Centroids[z-1]
		rec := []string{
			strconv.Itoa(z),
			formatCoord(c.Lat),
			formatCoord(c.Lng),
			strconv.Itoa(counts[z-1]),
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "export: write CSV row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", path)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

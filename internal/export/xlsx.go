package export

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/zoneplan/internal/roster"
	"github.com/sells-group/zoneplan/internal/zoning"
)

// WriteWorkbook writes an XLSX workbook with a Summary sheet followed
// by one sheet per zone listing its members with every original
// roster column.
func WriteWorkbook(path string, part *zoning.Partition, header []string) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	writeRow(summary, "Zone", "Members", "Centroid Lat", "Centroid Lng")
	counts := part.Counts()
	for z := 1; z <= part.K; z++ {
		c := part.Centroids[z-1]
		row := summary.AddRow()
		row.AddCell().SetInt(z)
		row.AddCell().SetInt(counts[z-1])
		row.AddCell().SetFloat(c.Lat)
		row.AddCell().SetFloat(c.Lng)
	}

	cols := assignmentColumns(header)
	for z := 1; z <= part.K; z++ {
		sheet, err := f.AddSheet(zoneSheetName(z))
		if err != nil {
			return eris.Wrapf(err, "export: add sheet for zone %d", z)
		}
		writeRow(sheet, cols...)

		idx := make([]int, 0)
		for i, l := range part.Labels {
			if l == z {
				idx = append(idx, i)
			}
		}
		sort.Slice(idx, func(a, b int) bool {
			return part.Points[idx[a]].Record.Name() < part.Points[idx[b]].Record.Name()
		})

		for _, i := range idx {
			p := part.Points[i]
			row := sheet.AddRow()
			for _, col := range cols {
				switch col {
				case roster.ColLat:
					row.AddCell().SetFloat(p.Coord.Lat)
				case roster.ColLon:
					row.AddCell().SetFloat(p.Coord.Lng)
				default:
					row.AddCell().SetString(p.Record.Fields[col])
				}
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func writeRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

package roster

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Load reads an address roster from a CSV or XLSX file, keyed by the
// header row. The file extension selects the parser.
func Load(path string) ([]Record, []string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	default:
		return loadCSV(path)
	}
}

func loadCSV(path string) ([]Record, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "roster: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "roster: read csv")
	}
	return rowsToRecords(rows)
}

func loadXLSX(path string) ([]Record, []string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "roster: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.Errorf("roster: %s has no sheets", path)
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rowsToRecords(rows)
}

// rowsToRecords converts a header row plus data rows into Records.
// The returned header preserves input column order for export.
func rowsToRecords(rows [][]string) ([]Record, []string, error) {
	if len(rows) == 0 {
		return nil, nil, eris.New("roster: input is empty")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	var recs []Record
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(row) {
				fields[col] = strings.TrimSpace(row[i])
			}
		}
		recs = append(recs, Record{Fields: fields})
	}

	if len(recs) == 0 {
		return nil, nil, eris.New("roster: input has no data rows")
	}
	return recs, header, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

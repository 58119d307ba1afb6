package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// ReadXLSX reads the first sheet of an XLSX workbook into a raw table.
// The first row is the header; the remaining rows carry the data.
func ReadXLSX(path string) (schema.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return schema.Table{}, eris.Wrap(err, "ingest: open xlsx file")
	}
	if len(f.Sheets) == 0 {
		return schema.Table{}, eris.Errorf("ingest: xlsx file %q has no sheets", path)
	}

	var table schema.Table
	for i, row := range f.Sheets[0].Rows {
		cells := rowToStrings(row)
		if i == 0 {
			table.Header = cells
			continue
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

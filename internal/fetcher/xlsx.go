package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/partaudit/internal/model"
)

// XLSXOptions configures the ground-truth loader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// LoadGroundTruth reads the ground-truth table from an XLSX workbook. The
// first row is the header; every following row becomes one record. Cells are
// carried with their spreadsheet type (boolean, numeric, text) as tagged
// Values; blank cells and rows shorter than the header come through as null
// so every record exposes every declared column.
func LoadGroundTruth(path string, opts XLSXOptions) (*model.GroundTruthTable, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", path)
	}

	sheet, err := pickSheet(f, opts)
	if err != nil {
		return nil, err
	}

	if len(sheet.Rows) == 0 {
		return &model.GroundTruthTable{}, nil
	}

	headerRow := sheet.Rows[0]
	columns := make([]string, 0, len(headerRow.Cells))
	for _, cell := range headerRow.Cells {
		columns = append(columns, strings.TrimSpace(cell.String()))
	}

	table := &model.GroundTruthTable{Columns: columns}
	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if rowIsEmpty(row) {
			continue
		}

		cells := make(map[string]model.Value, len(columns))
		for j, col := range columns {
			if col == "" {
				continue
			}
			if j < len(row.Cells) {
				cells[col] = cellValue(row.Cells[j])
			} else {
				cells[col] = model.Null()
			}
		}
		table.Rows = append(table.Rows, model.GroundTruthRecord{Cells: cells})
	}

	return table, nil
}

func pickSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

// cellValue converts one spreadsheet cell into a tagged Value, preserving
// its dynamic type instead of flattening everything to strings.
func cellValue(cell *xlsx.Cell) model.Value {
	switch cell.Type() {
	case xlsx.CellTypeBool:
		return model.BoolValue(cell.Bool())
	case xlsx.CellTypeNumeric:
		f, err := cell.Float()
		if err != nil {
			return model.TextValue(strings.TrimSpace(cell.String()))
		}
		return model.FloatValue(f)
	default:
		s := strings.TrimSpace(cell.String())
		if s == "" {
			return model.Null()
		}
		return model.TextValue(s)
	}
}

func rowIsEmpty(row *xlsx.Row) bool {
	for _, cell := range row.Cells {
		if strings.TrimSpace(cell.String()) != "" {
			return false
		}
	}
	return true
}

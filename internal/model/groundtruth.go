package model

// GroundTruthRecord is one row of the human-curated table: column name to
// raw cell value. Cell types vary per cell (boolean, number, text, empty),
// carried as tagged Values.
type GroundTruthRecord struct {
	Cells map[string]Value
}

// Get returns the cell value for a column and whether the column was present
// in the source table. A column that exists but holds an empty cell returns
// (null-ish Value, true).
func (r GroundTruthRecord) Get(column string) (Value, bool) {
	v, ok := r.Cells[column]
	return v, ok
}

// GroundTruthTable is the full ground-truth dataset in source order.
type GroundTruthTable struct {
	Columns []string
	Rows    []GroundTruthRecord
}

// HasColumn reports whether the table's header declares the given column.
func (t *GroundTruthTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/partaudit/internal/model"
	"github.com/sells-group/partaudit/internal/validate"
)

// writeWorkbook builds a small workbook on disk for loader tests.
func writeWorkbook(t *testing.T, sheetName string, rows [][]any) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)

	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			cell := row.AddCell()
			switch v := c.(type) {
			case string:
				cell.SetString(v)
			case int:
				cell.SetInt(v)
			case float64:
				cell.SetFloat(v)
			case bool:
				cell.SetBool(v)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "gt.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadGroundTruth(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"Part ID", "Complexity Level", "Laser Cut", "Fab Weld", "Heat Treat"},
		{"bracket_001.pdf", "Complex", 1, 0, true},
		{"shaft_002", "Moderate", 0, 1.0, false},
	})

	table, err := LoadGroundTruth(path, XLSXOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Part ID", "Complexity Level", "Laser Cut", "Fab Weld", "Heat Treat"}, table.Columns)
	require.Len(t, table.Rows, 2)

	v, ok := table.Rows[0].Get("Part ID")
	require.True(t, ok)
	assert.Equal(t, "bracket_001.pdf", v.String())

	v, ok = table.Rows[0].Get("Laser Cut")
	require.True(t, ok)
	assert.Equal(t, 1, v.Binary())

	v, ok = table.Rows[0].Get("Heat Treat")
	require.True(t, ok)
	assert.Equal(t, 1, v.Binary())

	v, ok = table.Rows[1].Get("Heat Treat")
	require.True(t, ok)
	assert.Equal(t, 0, v.Binary())
}

func TestLoadGroundTruthShortRows(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"Part ID", "Laser Cut", "Painting"},
		{"bracket_001", 1},
	})

	table, err := LoadGroundTruth(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	// Declared columns beyond the row's last cell come through as null.
	v, ok := table.Rows[0].Get("Painting")
	require.True(t, ok)
	assert.True(t, v.IsNull())
	assert.Equal(t, 0, v.Binary())
}

func TestLoadGroundTruthSkipsBlankRows(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"Part ID", "Laser Cut"},
		{"", ""},
		{"bracket_001", 1},
	})

	table, err := LoadGroundTruth(path, XLSXOptions{})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestLoadGroundTruthSheetSelection(t *testing.T) {
	path := writeWorkbook(t, "Data", [][]any{
		{"Part ID"},
		{"x"},
	})

	t.Run("by name", func(t *testing.T) {
		table, err := LoadGroundTruth(path, XLSXOptions{SheetName: "Data"})
		require.NoError(t, err)
		assert.Len(t, table.Rows, 1)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := LoadGroundTruth(path, XLSXOptions{SheetName: "Missing"})
		assert.Error(t, err)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := LoadGroundTruth(path, XLSXOptions{SheetIndex: 3})
		assert.Error(t, err)
	})
}

func TestLoadGroundTruthMissingFile(t *testing.T) {
	_, err := LoadGroundTruth(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	assert.Error(t, err)
}

func TestWriteTemplateRoundTrip(t *testing.T) {
	mapping := validate.DefaultMapping()
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, WriteTemplate(path, mapping))

	table, err := LoadGroundTruth(path, XLSXOptions{SheetName: "Ground Truth"})
	require.NoError(t, err)

	wantColumns := append([]string{"Part ID"}, mapping.Parameters()...)
	assert.Equal(t, wantColumns, table.Columns)
	require.Len(t, table.Rows, 3, "template ships three example rows")

	v, ok := table.Rows[0].Get("Part ID")
	require.True(t, ok)
	assert.Equal(t, "example_bracket.pdf", v.String())

	// Example rows are usable as real ground truth.
	v, ok = table.Rows[0].Get("Fab Weld")
	require.True(t, ok)
	assert.Equal(t, 1, v.Binary())
	v, ok = table.Rows[1].Get("Fab Weld")
	require.True(t, ok)
	assert.Equal(t, 0, v.Binary())

	_, err = LoadGroundTruth(path, XLSXOptions{SheetName: "Instructions"})
	require.NoError(t, err)
}

func TestCellValueTypes(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"A", "B", "C", "D"},
		{true, 2.5, "text", -1},
	})

	table, err := LoadGroundTruth(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	v, _ := table.Rows[0].Get("A")
	assert.Equal(t, model.KindBool, v.Kind)
	v, _ = table.Rows[0].Get("B")
	assert.Equal(t, model.KindFloat, v.Kind)
	assert.Equal(t, 1, v.Binary())
	v, _ = table.Rows[0].Get("C")
	assert.Equal(t, model.KindText, v.Kind)
	assert.Equal(t, 0, v.Binary())
	v, _ = table.Rows[0].Get("D")
	assert.Equal(t, 0, v.Binary())
}

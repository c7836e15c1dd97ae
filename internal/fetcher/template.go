package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/partaudit/internal/validate"
)

// templateExamples are the sample rows written into a fresh template so the
// expected shape of the data is visible before the user deletes them.
var templateExamples = []map[string]any{
	{
		"Part ID": "example_bracket.pdf", "Complexity Level": "Complex",
		"Type": "Bracket", "Material": "Steel",
		"Saw/Shear": 1, "Break Press": 1, "Fab Weld": 1, "Painting": 1,
		"CNC Machining /Turning": 1,
	},
	{
		"Part ID": "example_shaft.pdf", "Complexity Level": "Moderate",
		"Type": "Shaft", "Material": "Aluminum",
		"Saw/Shear": 1, "Plating": 1, "CNC Machining /Turning": 1,
	},
	{
		"Part ID": "example_weldment.pdf", "Complexity Level": "Very Complex",
		"Type": "Weldment", "Material": "Steel",
		"Saw/Shear": 1, "Break Press": 1, "Fab Weld": 1, "Painting": 1,
	},
}

// WriteTemplate creates a starter ground-truth workbook for the given
// mapping: a "Ground Truth" sheet whose header is the ID column plus every
// tracked parameter, three example rows, and an "Instructions" sheet.
func WriteTemplate(path string, mapping *validate.Mapping) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Ground Truth")
	if err != nil {
		return eris.Wrap(err, "template: add data sheet")
	}

	columns := append([]string{mapping.IDColumn}, mapping.Parameters()...)
	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}

	for _, example := range templateExamples {
		row := sheet.AddRow()
		for _, col := range columns {
			cell := row.AddCell()
			switch v := example[col].(type) {
			case string:
				cell.SetString(v)
			case int:
				cell.SetInt(v)
			default:
				// Process columns default to 0 so the template never has
				// ambiguous blanks in its examples.
				if isProcessColumn(mapping, col) {
					cell.SetInt(0)
				}
			}
		}
	}

	if err := writeInstructions(f, mapping); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "template: save %s", path)
	}
	return nil
}

func isProcessColumn(mapping *validate.Mapping, col string) bool {
	for _, p := range mapping.Processes {
		if p.Column == col {
			return true
		}
	}
	return false
}

func writeInstructions(f *xlsx.File, mapping *validate.Mapping) error {
	sheet, err := f.AddSheet("Instructions")
	if err != nil {
		return eris.Wrap(err, "template: add instructions sheet")
	}

	lines := []string{
		"GROUND TRUTH DATA TEMPLATE",
		"",
		"How to use this template:",
		"1. Delete the example rows on the Ground Truth sheet",
		"2. Add one row per part, filling every column",
		"3. Save the file and run: partaudit validate --predictions predictions.json --ground-truth " + "this_file.xlsx",
		"",
		"Column notes:",
		mapping.IDColumn + ": unique identifier matching the drawing filename (e.g. bracket_001.pdf)",
	}
	for _, d := range mapping.Descriptive {
		lines = append(lines, d.Column+": free text, compared case-insensitively against the predicted "+d.Key)
	}
	lines = append(lines, "", "Process columns (enter 0 or 1, not Yes/No):")
	for _, p := range mapping.Processes {
		if p.Combined() {
			lines = append(lines, p.Column+": 1 if the part needs any of these operations, 0 if not")
			continue
		}
		lines = append(lines, p.Column+": 1 if the part needs this operation, 0 if not")
	}

	for _, line := range lines {
		sheet.AddRow().AddCell().SetString(line)
	}
	return nil
}

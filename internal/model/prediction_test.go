package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionRecordUnmarshal(t *testing.T) {
	raw := `{
		"part_name": "bracket_001.pdf",
		"complexity_level": "Complex",
		"material": "Steel",
		"laser_cut": 0,
		"weld": 1,
		"confidence": 0.92,
		"part_notes": null
	}`

	var p PredictionRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	v, ok := p.Get("laser_cut")
	require.True(t, ok)
	assert.Equal(t, IntValue(0), v)

	v, ok = p.Get("weld")
	require.True(t, ok)
	assert.Equal(t, 1, v.Binary())

	v, ok = p.Get("confidence")
	require.True(t, ok)
	assert.Equal(t, FloatValue(0.92), v)

	v, ok = p.Get("part_notes")
	require.True(t, ok)
	assert.True(t, v.IsNull())

	_, ok = p.Get("saw_shear")
	assert.False(t, ok)
}

func TestPredictionRecordSourceID(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]Value
		want   string
	}{
		{
			"explicit identifier wins",
			map[string]Value{
				"part_identifier": TextValue("P-100"),
				"part_name":       TextValue("bracket"),
				"source_file":     TextValue("bracket.pdf"),
			},
			"P-100",
		},
		{
			"part name over source file",
			map[string]Value{
				"part_name":   TextValue("bracket"),
				"source_file": TextValue("scan_044.pdf"),
			},
			"bracket",
		},
		{
			"source file as last resort",
			map[string]Value{"source_file": TextValue("scan_044.pdf")},
			"scan_044.pdf",
		},
		{
			"empty identifier falls through",
			map[string]Value{
				"part_identifier": TextValue("  "),
				"source_file":     TextValue("scan_044.pdf"),
			},
			"scan_044.pdf",
		},
		{
			"null identifier falls through",
			map[string]Value{
				"part_name":   Null(),
				"source_file": TextValue("scan_044.pdf"),
			},
			"scan_044.pdf",
		},
		{"no identifier at all", map[string]Value{"laser_cut": IntValue(1)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PredictionRecord{Fields: tt.fields}
			assert.Equal(t, tt.want, p.SourceID())
		})
	}
}

func TestPredictionRecordSet(t *testing.T) {
	var p PredictionRecord
	p.Set("source_file", TextValue("a.pdf"))

	v, ok := p.Get("source_file")
	require.True(t, ok)
	assert.Equal(t, "a.pdf", v.Text)
}

func TestGroundTruthTableHasColumn(t *testing.T) {
	table := &GroundTruthTable{Columns: []string{"Part ID", "Laser Cut"}}
	assert.True(t, table.HasColumn("Laser Cut"))
	assert.False(t, table.HasColumn("Painting"))
}

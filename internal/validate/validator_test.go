package validate

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/partaudit/internal/model"
)

func testTable(rows ...map[string]model.Value) *model.GroundTruthTable {
	table := &model.GroundTruthTable{Columns: DefaultMapping().Parameters()}
	table.Columns = append([]string{"Part ID"}, table.Columns...)
	for _, cells := range rows {
		table.Rows = append(table.Rows, model.GroundTruthRecord{Cells: cells})
	}
	return table
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New(nil, Options{})
	require.NoError(t, err)
	return v
}

func TestValidatorBinaryFields(t *testing.T) {
	// One prediction hitting two process columns on a matched row; both
	// evaluations count and both are correct.
	v := newTestValidator(t)

	preds := []model.PredictionRecord{pred(map[string]model.Value{
		"part_name": model.TextValue("bracket_001.pdf"),
		"laser_cut": model.IntValue(0),
		"saw_shear": model.IntValue(1),
	})}
	table := testTable(map[string]model.Value{
		"Part ID":   model.TextValue("bracket_001.pdf"),
		"Laser Cut": model.IntValue(0),
		"Saw/Shear": model.IntValue(1),
	})

	report, err := v.Run(context.Background(), preds, table)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, ParameterStat{Correct: 1, Total: 1}, *report.Stats["Laser Cut"])
	assert.Equal(t, ParameterStat{Correct: 1, Total: 1}, *report.Stats["Saw/Shear"])
}

func TestValidatorCombinedField(t *testing.T) {
	v := newTestValidator(t)
	table := testTable(map[string]model.Value{
		"Part ID":  model.TextValue("frame_01"),
		"Fab Weld": model.IntValue(1),
	})

	t.Run("one constituent set matches", func(t *testing.T) {
		preds := []model.PredictionRecord{pred(map[string]model.Value{
			"part_name": model.TextValue("frame_01"),
			"fab":       model.IntValue(1),
			"weld":      model.IntValue(0),
		})}
		report, err := v.Run(context.Background(), preds, table)
		require.NoError(t, err)
		assert.Equal(t, ParameterStat{Correct: 1, Total: 1}, *report.Stats["Fab Weld"])
	})

	t.Run("no constituent set misses", func(t *testing.T) {
		preds := []model.PredictionRecord{pred(map[string]model.Value{
			"part_name": model.TextValue("frame_01"),
			"fab":       model.IntValue(0),
			"weld":      model.IntValue(0),
		})}
		report, err := v.Run(context.Background(), preds, table)
		require.NoError(t, err)
		assert.Equal(t, ParameterStat{Correct: 0, Total: 1}, *report.Stats["Fab Weld"])
	})
}

func TestValidatorUnmatchedPrediction(t *testing.T) {
	v := newTestValidator(t)

	preds := []model.PredictionRecord{pred(map[string]model.Value{
		"source_file": model.TextValue("unknown.pdf"),
		"laser_cut":   model.IntValue(1),
	})}
	table := testTable(map[string]model.Value{
		"Part ID":   model.TextValue("bracket_001"),
		"Laser Cut": model.IntValue(1),
	})

	report, err := v.Run(context.Background(), preds, table)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Predictions)
	assert.Equal(t, 0, report.Matched)
	assert.Equal(t, 1, report.Unmatched)
	for name, s := range report.Stats {
		assert.Zero(t, s.Total, "parameter %s must gather no evidence", name)
	}
}

func TestValidatorMaterialPartialMatch(t *testing.T) {
	v := newTestValidator(t)

	preds := []model.PredictionRecord{pred(map[string]model.Value{
		"part_name": model.TextValue("bracket_001"),
		"material":  model.TextValue("Steel"),
	})}
	table := testTable(map[string]model.Value{
		"Part ID":  model.TextValue("bracket_001"),
		"Material": model.TextValue("Mild Steel"),
	})

	report, err := v.Run(context.Background(), preds, table)
	require.NoError(t, err)
	assert.Equal(t, ParameterStat{Correct: 1, Total: 1}, *report.Stats["Material"])
}

func TestValidatorEmptyInputs(t *testing.T) {
	v := newTestValidator(t)

	t.Run("no predictions", func(t *testing.T) {
		report, err := v.Run(context.Background(), nil, testTable())
		require.NoError(t, err)
		pct, correct, total := report.Overall()
		assert.Zero(t, pct)
		assert.Zero(t, correct)
		assert.Zero(t, total)
		assert.Empty(t, report.Scored())
	})

	t.Run("nil table", func(t *testing.T) {
		preds := []model.PredictionRecord{pred(map[string]model.Value{
			"part_name": model.TextValue("x"),
		})}
		report, err := v.Run(context.Background(), preds, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Unmatched)
	})
}

func TestValidatorDuplicateGroundTruthFirstWins(t *testing.T) {
	v := newTestValidator(t)

	table := testTable(
		map[string]model.Value{
			"Part ID":   model.TextValue("bracket_001.pdf"),
			"Laser Cut": model.IntValue(1),
		},
		map[string]model.Value{
			"Part ID":   model.TextValue("bracket_001"),
			"Laser Cut": model.IntValue(0),
		},
	)
	preds := []model.PredictionRecord{pred(map[string]model.Value{
		"part_name": model.TextValue("bracket_001"),
		"laser_cut": model.IntValue(1),
	})}

	report, err := v.Run(context.Background(), preds, table)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Collisions)
	// First row (Laser Cut = 1) wins, so the prediction is correct.
	assert.Equal(t, ParameterStat{Correct: 1, Total: 1}, *report.Stats["Laser Cut"])
}

func TestValidatorOrderIndependence(t *testing.T) {
	v := newTestValidator(t)

	var rows []map[string]model.Value
	var preds []model.PredictionRecord
	for i := 0; i < 40; i++ {
		id := model.TextValue(partID(i))
		rows = append(rows, map[string]model.Value{
			"Part ID":   id,
			"Laser Cut": model.IntValue(int64(i % 2)),
			"Fab Weld":  model.IntValue(int64((i + 1) % 2)),
			"Material":  model.TextValue("Steel"),
		})
		preds = append(preds, pred(map[string]model.Value{
			"part_name": id,
			"laser_cut": model.IntValue(int64(i % 3 % 2)),
			"fab":       model.IntValue(int64(i % 2)),
			"weld":      model.IntValue(0),
			"material":  model.TextValue("Mild Steel"),
		}))
	}
	table := testTable(rows...)

	base, err := v.Run(context.Background(), preds, table)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]model.PredictionRecord, len(preds))
		copy(shuffled, preds)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		report, err := v.Run(context.Background(), shuffled, table)
		require.NoError(t, err)
		assert.Equal(t, base.Stats, report.Stats, "trial %d", trial)
	}
}

func TestValidatorParallelMatchesSequential(t *testing.T) {
	seq := newTestValidator(t)
	par, err := New(nil, Options{Workers: 4})
	require.NoError(t, err)

	var rows []map[string]model.Value
	var preds []model.PredictionRecord
	for i := 0; i < 100; i++ {
		id := model.TextValue(partID(i))
		rows = append(rows, map[string]model.Value{
			"Part ID":    id,
			"Laser Cut":  model.IntValue(int64(i % 2)),
			"Heat Treat": model.BoolValue(i%5 == 0),
			"Type":       model.TextValue("Bracket"),
		})
		preds = append(preds, pred(map[string]model.Value{
			"source_file": model.TextValue(partID(i) + ".pdf"),
			"laser_cut":   model.IntValue(int64(i % 2)),
			"heat_treat":  model.IntValue(int64(i % 5 / 4)),
			"type":        model.TextValue("bracket"),
		}))
	}
	table := testTable(rows...)

	want, err := seq.Run(context.Background(), preds, table)
	require.NoError(t, err)
	got, err := par.Run(context.Background(), preds, table)
	require.NoError(t, err)

	assert.Equal(t, want.Stats, got.Stats)
	assert.Equal(t, want.Matched, got.Matched)
	assert.Equal(t, want.Unmatched, got.Unmatched)
}

func TestValidatorCancelledContext(t *testing.T) {
	v := newTestValidator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	preds := []model.PredictionRecord{pred(map[string]model.Value{
		"part_name": model.TextValue("x"),
	})}
	_, err := v.Run(ctx, preds, testTable())
	assert.Error(t, err)
}

func TestMatcherSkipsRowsWithoutID(t *testing.T) {
	table := testTable(
		map[string]model.Value{"Laser Cut": model.IntValue(1)},
		map[string]model.Value{"Part ID": model.Null(), "Laser Cut": model.IntValue(1)},
		map[string]model.Value{"Part ID": model.TextValue("bracket_001"), "Laser Cut": model.IntValue(1)},
	)

	m := newMatcher(table, "Part ID")
	assert.Len(t, m.byID, 1)
	assert.Zero(t, m.collisions)
}

func partID(i int) string {
	const letters = "abcdefghij"
	return "part_" + string(letters[i%10]) + string(letters[(i/10)%10])
}

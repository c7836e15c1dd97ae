package validate

import (
	"github.com/sells-group/partaudit/internal/model"
)

// matcher resolves a prediction's normalized identifier to at most one
// ground-truth row via an index built once per run.
type matcher struct {
	byID       map[string]*model.GroundTruthRecord
	collisions int
}

// newMatcher indexes the ground-truth table by normalized Part ID. When two
// or more rows normalize to the same identifier the first in table order
// wins; the extras are tallied as collisions so callers can surface the
// ambiguity instead of losing it silently.
func newMatcher(table *model.GroundTruthTable, idColumn string) *matcher {
	m := &matcher{byID: make(map[string]*model.GroundTruthRecord, len(table.Rows))}

	for i := range table.Rows {
		row := &table.Rows[i]
		raw, ok := row.Get(idColumn)
		if !ok || raw.IsNull() {
			continue
		}
		id := NormalizePartID(raw.String())
		if id == "" {
			continue
		}
		if _, exists := m.byID[id]; exists {
			m.collisions++
			continue
		}
		m.byID[id] = row
	}

	return m
}

// match returns the ground-truth row for a prediction, or nil when the
// prediction carries no usable identifier or nothing in the table matches.
func (m *matcher) match(pred model.PredictionRecord) *model.GroundTruthRecord {
	raw := pred.SourceID()
	if raw == "" {
		return nil
	}
	return m.byID[NormalizePartID(raw)]
}

package validate

import (
	"strings"

	"github.com/sells-group/partaudit/internal/model"
)

// compareRecord evaluates every tracked parameter for one matched
// (prediction, ground-truth) pair and bumps the report's counters. Each
// parameter is independent: a field missing on either side skips that
// parameter only.
func compareRecord(pred model.PredictionRecord, actual *model.GroundTruthRecord, mapping *Mapping, report *Report) {
	for _, d := range mapping.Descriptive {
		compareDescriptive(pred, actual, d, report.Stats[d.Column])
	}
	for _, p := range mapping.Processes {
		compareProcess(pred, actual, p, report.Stats[p.Column])
	}
}

// compareDescriptive scores a categorical field. Counted only when the
// prediction carries the key and the ground-truth cell holds a value; both
// sides are lowercased before comparison.
func compareDescriptive(pred model.PredictionRecord, actual *model.GroundTruthRecord, field DescriptiveField, stat *ParameterStat) {
	pv, ok := pred.Get(field.Key)
	if !ok {
		return
	}
	av, ok := actual.Get(field.Column)
	if !ok || av.IsNull() {
		return
	}

	predicted := strings.ToLower(pv.String())
	expected := strings.ToLower(av.String())

	stat.Total++
	switch field.Match {
	case MatchContains:
		if strings.Contains(predicted, expected) || strings.Contains(expected, predicted) {
			stat.Correct++
		}
	default:
		if predicted == expected {
			stat.Correct++
		}
	}
}

// compareProcess scores a binary process column. The predicted value is the
// logical OR over the column's constituent keys (absent constituents default
// to 0) so a combination group is evaluated exactly once per record. Counted
// when at least one constituent is present on the prediction and the column
// exists on the ground-truth side; an empty or malformed cell coerces to 0
// rather than aborting (lenient-parse policy for dirty spreadsheets).
func compareProcess(pred model.PredictionRecord, actual *model.GroundTruthRecord, field ProcessField, stat *ParameterStat) {
	av, ok := actual.Get(field.Column)
	if !ok {
		return
	}

	predicted := 0
	present := false
	for _, key := range field.Keys {
		pv, ok := pred.Get(key)
		if !ok {
			continue
		}
		present = true
		if pv.Binary() > predicted {
			predicted = pv.Binary()
		}
	}
	if !present {
		return
	}

	stat.Total++
	if predicted == av.Binary() {
		stat.Correct++
	}
}

package validate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/partaudit/internal/model"
)

// Options configures a Validator.
type Options struct {
	// Workers sets the number of concurrent comparison workers. Values
	// below 2 select sequential processing, which is plenty for the usual
	// tens-to-thousands of records.
	Workers int
}

// Validator grades prediction records against a ground-truth table according
// to a field mapping. It holds no state between runs.
type Validator struct {
	mapping *Mapping
	opts    Options
}

// New creates a Validator for the given mapping.
func New(mapping *Mapping, opts Options) (*Validator, error) {
	if mapping == nil {
		mapping = DefaultMapping()
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	return &Validator{mapping: mapping, opts: opts}, nil
}

// Mapping returns the active field mapping.
func (v *Validator) Mapping() *Mapping { return v.mapping }

// Run matches and compares every prediction against the table and returns
// the aggregated report. Empty inputs produce a well-formed zero report.
// Unmatched predictions touch no counters.
func (v *Validator) Run(ctx context.Context, preds []model.PredictionRecord, table *model.GroundTruthTable) (*Report, error) {
	if table == nil {
		table = &model.GroundTruthTable{}
	}

	m := newMatcher(table, v.mapping.IDColumn)
	if m.collisions > 0 {
		zap.L().Warn("validate: duplicate part IDs in ground truth, first row wins",
			zap.Int("collisions", m.collisions),
		)
	}

	var report *Report
	var err error
	if v.opts.Workers > 1 && len(preds) > 1 {
		report, err = v.runParallel(ctx, preds, m)
	} else {
		report, err = v.runSequential(ctx, preds, m)
	}
	if err != nil {
		return nil, err
	}

	report.Collisions = m.collisions

	pct, correct, total := report.Overall()
	zap.L().Info("validate: run complete",
		zap.Int("predictions", report.Predictions),
		zap.Int("matched", report.Matched),
		zap.Int("unmatched", report.Unmatched),
		zap.Int("correct", correct),
		zap.Int("total", total),
		zap.Float64("overall_pct", pct),
	)

	return report, nil
}

func (v *Validator) runSequential(ctx context.Context, preds []model.PredictionRecord, m *matcher) (*Report, error) {
	report := newReport(v.mapping.Parameters())
	for i := range preds {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "validate: cancelled")
		}
		v.evaluate(preds[i], m, report)
	}
	return report, nil
}

// runParallel shards predictions across workers. Each worker accumulates
// into a local report; locals are merged in a single reduction at the end,
// which is safe because counter addition is commutative and associative.
func (v *Validator) runParallel(ctx context.Context, preds []model.PredictionRecord, m *matcher) (*Report, error) {
	workers := v.opts.Workers
	if workers > len(preds) {
		workers = len(preds)
	}

	locals := make([]*Report, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		local := newReport(v.mapping.Parameters())
		locals[w] = local
		start := w
		g.Go(func() error {
			for i := start; i < len(preds); i += workers {
				if err := gctx.Err(); err != nil {
					return eris.Wrap(err, "validate: cancelled")
				}
				v.evaluate(preds[i], m, local)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := newReport(v.mapping.Parameters())
	for _, local := range locals {
		report.merge(local)
	}
	return report, nil
}

// evaluate processes one prediction against the index, updating report.
func (v *Validator) evaluate(pred model.PredictionRecord, m *matcher, report *Report) {
	report.Predictions++

	actual := m.match(pred)
	if actual == nil {
		report.Unmatched++
		return
	}
	report.Matched++

	compareRecord(pred, actual, v.mapping, report)
}

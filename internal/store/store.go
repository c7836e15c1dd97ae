package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/partaudit/internal/validate"
)

// Run is one persisted validation run: the input files it compared and the
// accuracy report it produced.
type Run struct {
	ID              string           `json:"id"`
	Label           string           `json:"label,omitempty"`
	PredictionsFile string           `json:"predictions_file"`
	GroundTruthFile string           `json:"ground_truth_file"`
	Report          *validate.Report `json:"report,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Label  string `json:"label,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for validation run history.
type Store interface {
	CreateRun(ctx context.Context, run Run) (*Run, error)
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

package module

import (
	"context"

	"bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/state"
)

// RunnerPort runs batches of records through the pipeline
type RunnerPort interface {
	Run(ctx context.Context, records []domain.Record) (domain.RunSummary, error)
}

// Ports exposed by the pipeline module for cross wiring
type Ports struct {
	Runner RunnerPort
	State  *state.Store
}

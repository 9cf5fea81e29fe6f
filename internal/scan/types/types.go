package types

import (
	"context"

	"leadhunter/internal/domain"
)

// Batch is what one scanner hands back from a single pass.
type Batch struct {
	Source domain.Source
	Leads  []domain.Lead
	// Synthetic batches carry generated sample data; the orchestrator does
	// not apply the min-score threshold to them.
	Synthetic bool
}

type Scanner interface {
	Name() string
	Scan(ctx context.Context) (Batch, error)
}

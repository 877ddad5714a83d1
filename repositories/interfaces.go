package repositories

import (
	"context"

	"github.com/upb/travel-gateway/models"
)

// OutcomeFilter narrows an outcome listing. Zero values match everything.
type OutcomeFilter struct {
	Operation models.Operation
	Status    models.OutcomeStatus
	Limit     int
}

// OutcomeRepository handles operation outcome data operations
type OutcomeRepository interface {
	// Insert inserts a new outcome record
	Insert(ctx context.Context, outcome *models.OperationOutcome) error

	// ListRecent returns the newest outcomes first
	ListRecent(ctx context.Context, filter OutcomeFilter) ([]*models.OperationOutcome, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Outcomes OutcomeRepository
}

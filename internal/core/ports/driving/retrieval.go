package driving

import (
	"context"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

// RetrievalService ranks assigned documents against a query and builds
// budget-bounded prompt context from the result.
type RetrievalService interface {
	// Retrieve scores every chunk of the documents assigned to modelID
	// against query and returns per-document results in descending
	// relevance order. An empty result is a valid, silent outcome.
	Retrieve(ctx context.Context, query, modelID string) ([]domain.RetrievalResult, error)

	// AssembleContext renders ranked results into a labelled context
	// string no longer than the budget allows, recording which
	// documents were included.
	AssembleContext(results []domain.RetrievalResult, budget domain.ContextBudget) domain.AssembledContext

	// Budget returns the configured context budget. Callers overriding
	// individual budget fields start from it.
	Budget() domain.ContextBudget
}

package driven

import (
	"context"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

// PostProcessor processes extracted text to produce chunks.
// PostProcessors are chained in a pipeline (e.g. chunking, filtering).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the extracted text and returns chunks.
	// If the processor modifies chunks (e.g. filtering), it receives and
	// returns chunks. If the processor creates chunks (e.g. chunker), it
	// receives nil and returns new chunks.
	Process(ctx context.Context, text string, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the text through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, text string) ([]domain.Chunk, error)
}

package driven

import (
	"context"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

// Normaliser extracts plain text from raw uploaded bytes.
// Each normaliser handles specific file extensions (e.g. pdf, docx).
type Normaliser interface {
	// SupportedTypes returns the lowercased extensions this normaliser
	// handles, without the dot.
	SupportedTypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text from a raw document. A failure to
	// extract usable text is reported as domain.ErrExtractionFailed
	// (possibly wrapped); the caller recovers by indexing the document
	// without chunks.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: normalisation only extracts text. Chunking is handled by the
// PostProcessor pipeline.
type NormaliseResult struct {
	// Text is the full extracted text.
	Text string
}

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers and dispatches on
// file extension.
type NormaliserRegistry interface {
	// Normalise extracts text using the best matching normaliser.
	// Returns domain.ErrUnsupportedType when no normaliser matches.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedTypes returns all extensions that can be normalised.
	SupportedTypes() []string
}

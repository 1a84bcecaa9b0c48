package plaintext

import (
	"context"
	"unicode/utf8"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedTypes returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedTypes() []string {
	return []string{
		"txt",
		"text",
		"log",
		"csv",
		"json",
		"yaml",
		"yml",
		"toml",
		"xml",
		"go",
		"py",
		"rs",
		"java",
		"c",
		"h",
		"js",
		"ts",
		"sh",
		"sql",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise converts raw bytes straight to text. Content that is not
// valid UTF-8 is rejected as an extraction failure rather than indexed
// as binary garbage.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	if !utf8.Valid(raw.Content) {
		return nil, domain.ErrExtractionFailed
	}

	return &driven.NormaliseResult{
		Text: string(raw.Content),
	}, nil
}

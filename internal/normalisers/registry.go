package normalisers

import (
	"context"
	"fmt"
	"sort"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driven"
	"github.com/lectern-dev/lectern/internal/normalisers/docx"
	"github.com/lectern-dev/lectern/internal/normalisers/markdown"
	"github.com/lectern-dev/lectern/internal/normalisers/pdf"
	"github.com/lectern-dev/lectern/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the best matching normaliser by
// file extension, highest priority first.
type Registry struct {
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with all built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	return r
}

// Register adds a normaliser, keeping the list priority-ordered.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.normalisers = append(r.normalisers, normaliser)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise extracts text using the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	for _, n := range r.normalisers {
		if supports(n, raw.Type) {
			return n.Normalise(ctx, raw)
		}
	}

	return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedType, raw.Type)
}

// SupportedTypes returns all extensions with a registered normaliser.
func (r *Registry) SupportedTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, n := range r.normalisers {
		for _, t := range n.SupportedTypes() {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	sort.Strings(types)
	return types
}

func supports(n driven.Normaliser, fileType string) bool {
	for _, t := range n.SupportedTypes() {
		if t == fileType {
			return true
		}
	}
	return false
}

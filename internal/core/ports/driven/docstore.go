package driven

import (
	"context"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

// DocumentStore persists the document index: documents, their chunks,
// and per-model assignments. Backed by SQLite for durable storage.
//
// The store is the single shared mutable resource. Implementations
// serialize writes so concurrent assignment changes cannot lose
// updates; reads need no coordination beyond that.
type DocumentStore interface {
	// SaveDocument creates a document record together with its body.
	// Returns domain.ErrAlreadyExists if the ID is taken.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a full document, body included.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves the ordered chunk list for a document.
	// Returns nil for unindexed documents.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns lightweight summaries of every document,
	// without loading chunk bodies.
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)

	// ListAssignedTo returns the full documents visible to a model.
	// This is the access-control boundary: retrieval never scores a
	// document outside this set.
	ListAssignedTo(ctx context.Context, modelID string) ([]domain.Document, error)

	// UpdateAssignedModels replaces a document's assignment list
	// wholesale. Returns domain.ErrNotFound if the ID is absent.
	UpdateAssignedModels(ctx context.Context, id string, models []string) error

	// DeleteDocument removes a document and its chunks. Idempotent:
	// deleting an absent ID is not an error.
	DeleteDocument(ctx context.Context, id string) error
}

// Package memory provides in-memory storage implementations, used by
// tests and as a scratch index for one-off runs.
package memory

import (
	"context"
	"sync"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// A single mutex serializes writers, matching the durability layer's
// single-writer discipline.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument creates a document record.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.ID]; exists {
		return domain.ErrAlreadyExists
	}
	s.documents[doc.ID] = copyDocument(doc)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyDocument(&doc)
	return &out, nil
}

// GetChunks retrieves the ordered chunk list for a document.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if body, ok := doc.Body.(domain.IndexedBody); ok {
		return append([]domain.Chunk(nil), body.Chunks...), nil
	}
	return nil, nil
}

// ListDocuments returns lightweight summaries of every document.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]domain.DocumentSummary, 0, len(s.documents))
	for id := range s.documents {
		doc := s.documents[id]
		summaries = append(summaries, domain.DocumentSummary{
			ID:             doc.ID,
			Name:           doc.Name,
			Type:           doc.Type,
			ChunkCount:     len(doc.Chunks()),
			FullTextLength: doc.FullTextLength,
			AssignedModels: append([]string(nil), doc.AssignedModels...),
			UploadedAt:     doc.UploadedAt,
		})
	}
	return summaries, nil
}

// ListAssignedTo returns the full documents visible to a model.
func (s *DocumentStore) ListAssignedTo(_ context.Context, modelID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if doc.AssignedTo(modelID) {
			result = append(result, copyDocument(&doc))
		}
	}
	return result, nil
}

// UpdateAssignedModels replaces a document's assignment list wholesale.
func (s *DocumentStore) UpdateAssignedModels(_ context.Context, id string, models []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.AssignedModels = domain.NormalizeModels(models)
	s.documents[id] = doc
	return nil
}

// DeleteDocument removes a document and its chunks. Idempotent.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

// copyDocument clones a document deeply enough that callers cannot
// mutate stored state through shared slices.
func copyDocument(doc *domain.Document) domain.Document {
	out := *doc
	out.AssignedModels = append([]string(nil), doc.AssignedModels...)
	if body, ok := doc.Body.(domain.IndexedBody); ok {
		out.Body = domain.IndexedBody{Chunks: append([]domain.Chunk(nil), body.Chunks...)}
	}
	return out
}

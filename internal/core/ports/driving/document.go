package driving

import (
	"context"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

// UploadRequest carries a file into ingestion.
type UploadRequest struct {
	// Name is the original filename, extension included.
	Name string

	// Content is the raw file bytes.
	Content []byte

	// AssignModels optionally assigns the document to models at
	// ingestion time.
	AssignModels []string
}

// DocumentService manages the document index.
type DocumentService interface {
	// Upload ingests a file: stores the original, extracts text, chunks
	// it and persists the document. Extraction failure is not an error;
	// the document is indexed without searchable content.
	Upload(ctx context.Context, req UploadRequest) (*domain.Document, error)

	// List returns lightweight summaries of all documents.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the document's extracted text, reassembled
	// from chunks for indexed documents.
	GetContent(ctx context.Context, documentID string) (string, error)

	// Assign replaces a document's model assignment list wholesale.
	Assign(ctx context.Context, documentID string, models []string) error

	// Delete removes the document record and the stored original file.
	// Idempotent with respect to the index entry.
	Delete(ctx context.Context, documentID string) error
}

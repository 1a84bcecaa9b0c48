package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driven"
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
	"github.com/lectern-dev/lectern/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages document ingestion and the index.
type DocumentService struct {
	docStore    driven.DocumentStore
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	filesDir    string
}

// NewDocumentService creates a new document service. Uploaded originals
// are kept under filesDir; pass an empty string to skip retaining them.
func NewDocumentService(
	docStore driven.DocumentStore,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	filesDir string,
) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		normalisers: normalisers,
		pipeline:    pipeline,
		filesDir:    filesDir,
	}
}

// Upload ingests a file: stores the original, extracts text, chunks it
// and persists the document.
//
// Extraction failure is recovered locally: the document is still
// indexed, with an unindexed body carrying a marker in place of
// content, and retrieval will silently skip it.
func (s *DocumentService) Upload(ctx context.Context, req driving.UploadRequest) (*domain.Document, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing file name", domain.ErrInvalidInput)
	}

	logger.Section("Document Ingestion")
	logger.Debug("Upload: name=%q, %d bytes", name, len(req.Content))

	doc := &domain.Document{
		ID:             uuid.New().String(),
		Name:           filepath.Base(name),
		Type:           fileType(name),
		AssignedModels: domain.NormalizeModels(req.AssignModels),
		UploadedAt:     time.Now().UTC(),
	}

	if s.filesDir != "" {
		path, err := s.storeOriginal(doc.ID, doc.Name, req.Content)
		if err != nil {
			return nil, fmt.Errorf("storing original file: %w", err)
		}
		doc.Path = path
	}

	text := s.extractText(ctx, doc, req.Content)
	doc.Body = s.buildBody(ctx, text)
	if text != domain.ExtractionFailedMarker {
		doc.FullTextLength = len(text)
		doc.TextPreview = preview(text)
	} else {
		doc.TextPreview = domain.ExtractionFailedMarker
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	logger.Info("Ingested %q as %s (%d chars, %d chunks)",
		doc.Name, doc.ID, doc.FullTextLength, len(doc.Chunks()))

	return doc, nil
}

// extractText runs normalisation, mapping every failure mode onto the
// extraction-failed marker so one bad file never aborts ingestion.
func (s *DocumentService) extractText(ctx context.Context, doc *domain.Document, content []byte) string {
	raw := &domain.RawDocument{
		Name:       doc.Name,
		Path:       doc.Path,
		Type:       doc.Type,
		Content:    content,
		UploadedAt: doc.UploadedAt,
	}

	result, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		logger.Warn("Extraction failed for %q: %v", doc.Name, err)
		return domain.ExtractionFailedMarker
	}
	if strings.TrimSpace(result.Text) == "" {
		logger.Warn("Extraction produced no text for %q", doc.Name)
		return domain.ExtractionFailedMarker
	}
	return result.Text
}

// buildBody chunks the extracted text. Text that yields no chunks, and
// the extraction-failure marker, produce an unindexed body so retrieval
// can fall back to full-text search (or skip the document entirely).
func (s *DocumentService) buildBody(ctx context.Context, text string) domain.Body {
	if text == domain.ExtractionFailedMarker {
		return domain.UnindexedBody{FullText: ""}
	}

	chunks, err := s.pipeline.Process(ctx, text)
	if err != nil {
		logger.Warn("Chunking failed: %v", err)
		return domain.UnindexedBody{FullText: text}
	}
	if len(chunks) == 0 {
		return domain.UnindexedBody{FullText: text}
	}
	return domain.IndexedBody{Chunks: chunks}
}

// storeOriginal writes the uploaded bytes under the files directory,
// prefixed with the document ID to avoid name collisions.
func (s *DocumentService) storeOriginal(id, name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.filesDir, 0700); err != nil {
		return "", err
	}
	path := filepath.Join(s.filesDir, id+"-"+name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// List returns lightweight summaries of all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// GetContent returns the document's extracted text. Indexed documents
// are reassembled from their chunk sequence.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}

	switch body := doc.Body.(type) {
	case domain.UnindexedBody:
		return body.FullText, nil
	case domain.IndexedBody:
		chunks := append([]domain.Chunk(nil), body.Chunks...)
		sort.Slice(chunks, func(i, j int) bool {
			return chunks[i].Index < chunks[j].Index
		})

		var builder strings.Builder
		for i, chunk := range chunks {
			if i > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(chunk.Text)
		}
		return builder.String(), nil
	default:
		return "", nil
	}
}

// Assign replaces a document's model assignment list wholesale.
// An empty list is valid and makes the document invisible to retrieval.
func (s *DocumentService) Assign(ctx context.Context, documentID string, models []string) error {
	if documentID == "" {
		return fmt.Errorf("%w: missing document id", domain.ErrInvalidInput)
	}

	normalized := domain.NormalizeModels(models)
	logger.Debug("Assign %s -> %v", documentID, normalized)
	return s.docStore.UpdateAssignedModels(ctx, documentID, normalized)
}

// Delete removes the document record and the stored original file.
// Deleting an absent document is not an error.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if doc.Path != "" {
		if err := os.Remove(doc.Path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Removing original file %s: %v", doc.Path, err)
		}
	}

	return s.docStore.DeleteDocument(ctx, documentID)
}

// fileType extracts the lowercased extension without the dot.
func fileType(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// preview bounds text to the display preview length.
func preview(text string) string {
	if len(text) <= domain.PreviewLength {
		return text
	}
	return text[:domain.PreviewLength]
}

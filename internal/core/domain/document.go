package domain

import (
	"sort"
	"strings"
	"time"
)

// PreviewLength is the number of characters of extracted text retained
// as the display preview on a Document. The preview is never consulted
// by retrieval.
const PreviewLength = 1000

// Document represents an ingested document with metadata.
// It is the canonical representation after text extraction.
type Document struct {
	// ID is the unique identifier, assigned at ingestion time. Immutable.
	ID string

	// Name is the original filename, used for display and citation.
	Name string

	// Path is the storage location of the original uploaded file.
	Path string

	// Type is the lowercased file extension without the dot (e.g. "pdf").
	// It drives extraction strategy selection.
	Type string

	// TextPreview is a bounded preview of the extracted text
	// (first PreviewLength characters). Display only.
	TextPreview string

	// FullTextLength is the total extracted character count. When it
	// exceeds len(TextPreview) the preview is truncated.
	FullTextLength int

	// AssignedModels lists the model identifiers this document is visible
	// to. Semantically a set: kept sorted and de-duplicated. A document
	// with no assignments is invisible to all retrieval.
	AssignedModels []string

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time

	// Body holds the document content in indexed or unindexed form.
	Body Body
}

// AssignedTo reports whether the document is visible to the given model.
func (d *Document) AssignedTo(modelID string) bool {
	for _, m := range d.AssignedModels {
		if m == modelID {
			return true
		}
	}
	return false
}

// Chunks returns the document's chunk sequence, or nil for unindexed bodies.
func (d *Document) Chunks() []Chunk {
	if b, ok := d.Body.(IndexedBody); ok {
		return b.Chunks
	}
	return nil
}

// NormalizeModels returns a sorted copy of models with duplicates and
// blank entries removed. Assignment lists are stored in this form.
func NormalizeModels(models []string) []string {
	seen := make(map[string]bool, len(models))
	result := make([]string, 0, len(models))
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	sort.Strings(result)
	return result
}

// Chunk is a bounded, overlapping substring of a document's extracted
// text: the unit of retrieval. A chunk belongs to exactly one document
// and is addressed by (document ID, Index).
type Chunk struct {
	// Index is the 0-based position within the document's chunk
	// sequence. Contiguous: it is assigned only to emitted chunks.
	// Cited to users as "Section Index+1".
	Index int

	// Text is the chunk's character span, trimmed of surrounding
	// whitespace. Never empty.
	Text string

	// Start is the chunk's character offset into the extracted text.
	Start int

	// End is the end-exclusive offset. It is the pre-overlap boundary:
	// the next chunk starts at End minus the configured overlap.
	End int
}

// Body is the document content in one of two forms. Retrieval switches
// on the concrete type: IndexedBody is scored chunk by chunk, while
// UnindexedBody falls back to full-text substring search.
type Body interface {
	isBody()
}

// IndexedBody holds the ordered chunk sequence produced at ingestion.
type IndexedBody struct {
	// Chunks is the ordered chunk list. Insertion order is document order.
	Chunks []Chunk
}

func (IndexedBody) isBody() {}

// UnindexedBody holds raw extracted text for documents that have no
// chunk structure (extraction produced no usable text, or legacy
// records ingested before chunking existed).
type UnindexedBody struct {
	// FullText is the raw extracted text. May be empty or an
	// extraction-failure marker.
	FullText string
}

func (UnindexedBody) isBody() {}

// DocumentSummary is a lightweight listing view of a document, derived
// from the full record so listings never load chunk bodies.
type DocumentSummary struct {
	// ID is the document identifier.
	ID string

	// Name is the original filename.
	Name string

	// Type is the file extension.
	Type string

	// ChunkCount is the number of stored chunks (0 for unindexed bodies).
	ChunkCount int

	// FullTextLength is the total extracted character count.
	FullTextLength int

	// AssignedModels lists the models the document is visible to.
	AssignedModels []string

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

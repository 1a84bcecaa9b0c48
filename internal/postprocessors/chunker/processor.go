// Package chunker provides a boundary-aware overlapping text chunker.
package chunker

import (
	"context"
	"strings"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// sentenceTerminators are preferred break characters; a chunk boundary
// is pulled back to the last one inside the proposed span.
const sentenceTerminators = ".!?"

// wordSeparators are the fallback break characters.
const wordSeparators = " \n"

// Processor splits extracted text into overlapping, boundary-aware
// chunks. It implements the PostProcessor interface.
//
// For each step it proposes an end at start+chunkSize, pulls the
// boundary back to the last sentence terminator in the span, or
// failing that the last word separator, but never to before the
// halfway point of the span (avoiding degenerate tiny chunks). If
// neither boundary qualifies the raw cut stands, mid-word if need be.
// The final chunk always ends exactly at the text length.
//
// Identical (text, chunkSize, overlap) always produces identical
// output, so re-ingesting a document is idempotent.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the extracted text into chunks.
// Input chunks are ignored; this processor creates new chunks.
// Empty or whitespace-only text yields no chunks and no error.
func (p *Processor) Process(_ context.Context, text string, _ []domain.Chunk) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	textLen := len(text)
	chunks := make([]domain.Chunk, 0, textLen/(p.chunkSize-p.overlap)+1)

	start := 0
	index := 0

	for start < textLen {
		end := start + p.chunkSize
		final := end >= textLen
		if final {
			end = textLen
		} else {
			end = p.adjustBoundary(text, start, end)
		}

		// Whitespace-only spans are dropped without leaving index gaps.
		if trimmed := strings.TrimSpace(text[start:end]); trimmed != "" {
			chunks = append(chunks, domain.Chunk{
				Index: index,
				Text:  trimmed,
				Start: start,
				End:   end,
			})
			index++
		}

		if final {
			break
		}

		next := end - p.overlap
		if next <= start {
			// Boundary backoff ate the whole step; move on without
			// overlap rather than re-scan the same span.
			next = end
		}
		start = next
	}

	return chunks, nil
}

// adjustBoundary pulls a proposed chunk end back to the nearest
// acceptable sentence or word boundary. A boundary is acceptable only
// at or past the halfway point of the proposed span.
func (p *Processor) adjustBoundary(text string, start, proposed int) int {
	minEnd := start + p.chunkSize/2
	span := text[start:proposed]

	if i := strings.LastIndexAny(span, sentenceTerminators); i >= 0 {
		if boundary := start + i + 1; boundary >= minEnd {
			return boundary
		}
	}

	if i := strings.LastIndexAny(span, wordSeparators); i >= 0 {
		if boundary := start + i + 1; boundary >= minEnd {
			return boundary
		}
	}

	return proposed
}

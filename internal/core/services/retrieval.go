package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lectern-dev/lectern/internal/core/domain"
	"github.com/lectern-dev/lectern/internal/core/ports/driven"
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
	"github.com/lectern-dev/lectern/internal/logger"
	"github.com/lectern-dev/lectern/internal/scoring"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService ranks assigned documents against a query and
// assembles budget-bounded prompt context. It only reads the document
// store; write serialization is the storage layer's concern.
type RetrievalService struct {
	docStore driven.DocumentStore
	scorer   *scoring.Scorer
	budget   domain.ContextBudget
}

// NewRetrievalService creates a new retrieval service. The budget is
// explicit configuration; it caps the recall fallback during Retrieve
// and is the default for AssembleContext callers that pass a zero
// budget.
func NewRetrievalService(docStore driven.DocumentStore, scorer *scoring.Scorer, budget domain.ContextBudget) *RetrievalService {
	if scorer == nil {
		scorer = scoring.New()
	}
	if !budget.Valid() {
		budget = domain.DefaultContextBudget()
	}
	return &RetrievalService{
		docStore: docStore,
		scorer:   scorer,
		budget:   budget,
	}
}

// Budget returns the budget the service was configured with.
func (s *RetrievalService) Budget() domain.ContextBudget {
	return s.budget
}

// Retrieve scores every chunk of the documents assigned to modelID and
// returns per-document results in descending relevance order.
//
// Assignment filtering happens before any scoring: a model never sees
// content from a document it is not assigned to, whatever the
// relevance. Absence of matches is a valid, silent outcome.
func (s *RetrievalService) Retrieve(ctx context.Context, query, modelID string) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: missing query", domain.ErrInvalidInput)
	}
	if modelID == "" {
		return nil, fmt.Errorf("%w: missing model id", domain.ErrInvalidInput)
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, model: %q", query, modelID)

	assigned, err := s.docStore.ListAssignedTo(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("listing assigned documents: %w", err)
	}
	if len(assigned) == 0 {
		logger.Debug("No documents assigned to %q", modelID)
		return nil, nil
	}
	logger.Debug("Assigned documents: %d", len(assigned))

	results := make([]domain.RetrievalResult, 0, len(assigned))
	for i := range assigned {
		if result := s.scoreDocument(&assigned[i], query); result != nil {
			results = append(results, *result)
		}
	}

	// Recall-over-precision fallback: a user with assigned documents
	// always gets some context, even when the lexical scorer finds
	// nothing.
	if len(results) == 0 {
		logger.Info("No lexical matches; falling back to all assigned documents")
		results = s.fallbackResults(assigned)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	logger.Info("Retrieval results: %d documents", len(results))
	return results, nil
}

// scoreDocument produces a document's retrieval result, or nil when
// nothing in it matched. Indexed bodies are scored chunk by chunk;
// unindexed bodies fall back to full-text substring search.
func (s *RetrievalService) scoreDocument(doc *domain.Document, query string) *domain.RetrievalResult {
	switch body := doc.Body.(type) {
	case domain.IndexedBody:
		if len(body.Chunks) > 0 {
			return s.scoreChunks(doc, body.Chunks, query)
		}
		return nil
	case domain.UnindexedBody:
		return s.scoreFullText(doc, body.FullText, query)
	default:
		return nil
	}
}

// scoreChunks scores every chunk, drops non-positive scores, and
// aggregates the document's relevance from its best chunks.
func (s *RetrievalService) scoreChunks(doc *domain.Document, chunks []domain.Chunk, query string) *domain.RetrievalResult {
	matched := make([]domain.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		r := s.scorer.Score(chunk.Text, query)
		if r.Relevance <= 0 {
			continue
		}
		matched = append(matched, domain.ScoredChunk{
			DocumentID:  doc.ID,
			Index:       chunk.Index,
			Text:        chunk.Text,
			Relevance:   r.Relevance,
			ExactMatch:  r.ExactMatch,
			WordMatches: r.WordMatches,
			TotalWords:  r.TotalWords,
		})
	}
	if len(matched) == 0 {
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Relevance > matched[j].Relevance
	})

	aggregate := 0
	for i := 0; i < len(matched) && i < domain.AggregateChunkCount; i++ {
		aggregate += matched[i].Relevance
	}

	kept := matched
	if len(kept) > domain.TopChunksPerDocument {
		kept = kept[:domain.TopChunksPerDocument]
	}

	logger.Debug("Document %q: %d/%d chunks matched, aggregate %d",
		doc.Name, len(matched), len(chunks), aggregate)

	return &domain.RetrievalResult{
		DocumentID:    doc.ID,
		Name:          doc.Name,
		Relevance:     aggregate,
		Chunks:        kept,
		TotalChunks:   len(chunks),
		MatchedChunks: len(matched),
	}
}

// scoreFullText is the legacy path for documents without chunk
// structure: relevance is the raw occurrence count of the literal
// query.
func (s *RetrievalService) scoreFullText(doc *domain.Document, fullText, query string) *domain.RetrievalResult {
	if fullText == "" {
		return nil
	}

	occurrences := strings.Count(strings.ToLower(fullText), strings.ToLower(query))
	if occurrences == 0 {
		return nil
	}

	logger.Debug("Document %q: %d full-text occurrences", doc.Name, occurrences)

	return &domain.RetrievalResult{
		DocumentID: doc.ID,
		Name:       doc.Name,
		Relevance:  occurrences,
		Content:    fullText,
	}
}

// fallbackResults includes assigned documents regardless of relevance,
// capped at the per-query document budget. Documents with no content
// at all (failed extraction) are skipped.
func (s *RetrievalService) fallbackResults(assigned []domain.Document) []domain.RetrievalResult {
	results := make([]domain.RetrievalResult, 0, s.budget.MaxDocsPerQuery)
	for i := range assigned {
		if len(results) >= s.budget.MaxDocsPerQuery {
			break
		}
		doc := &assigned[i]

		content := ""
		totalChunks := 0
		switch body := doc.Body.(type) {
		case domain.IndexedBody:
			totalChunks = len(body.Chunks)
			var builder strings.Builder
			for j, chunk := range body.Chunks {
				if j > 0 {
					builder.WriteString("\n")
				}
				builder.WriteString(chunk.Text)
			}
			content = builder.String()
		case domain.UnindexedBody:
			content = body.FullText
		}
		if content == "" {
			continue
		}

		results = append(results, domain.RetrievalResult{
			DocumentID:  doc.ID,
			Name:        doc.Name,
			Content:     content,
			TotalChunks: totalChunks,
			Fallback:    true,
		})
	}
	return results
}

// AssembleContext renders ranked results into a labelled context string
// within the budget, recording which documents were included.
//
// Blocks are added in rank order. When a full block would exceed the
// character budget it is truncated to fit, provided more than
// domain.MinAssemblyRoom characters remain; otherwise assembly stops
// without a partial block.
func (s *RetrievalService) AssembleContext(results []domain.RetrievalResult, budget domain.ContextBudget) domain.AssembledContext {
	if !budget.Valid() {
		budget = s.budget
	}

	var assembled domain.AssembledContext
	var builder strings.Builder

	for i := range results {
		if len(assembled.DocumentNames) >= budget.MaxDocsPerQuery {
			break
		}

		block := buildBlock(&results[i], budget.MaxChunksPerDoc)
		if block == "" {
			continue
		}
		if builder.Len() > 0 {
			block = "\n\n" + block
		}

		room := budget.MaxTotalChars - builder.Len()
		if len(block) <= room {
			builder.WriteString(block)
			assembled.DocumentNames = append(assembled.DocumentNames, results[i].Name)
			continue
		}

		if room > domain.MinAssemblyRoom {
			cut := room - len(domain.TruncationMarker)
			for cut > 0 && !utf8.RuneStart(block[cut]) {
				cut--
			}
			builder.WriteString(block[:cut])
			builder.WriteString(domain.TruncationMarker)
			assembled.DocumentNames = append(assembled.DocumentNames, results[i].Name)
			assembled.Truncated = true
		}
		break
	}

	assembled.Text = builder.String()
	return assembled
}

// buildBlock renders one document's contribution: its name, then either
// its top chunks tagged with their section numbers or its carried
// content.
func buildBlock(result *domain.RetrievalResult, maxChunks int) string {
	var builder strings.Builder

	if len(result.Chunks) > 0 {
		builder.WriteString(fmt.Sprintf("Document: %s\n", result.Name))
		for i, chunk := range result.Chunks {
			if i >= maxChunks {
				break
			}
			builder.WriteString(fmt.Sprintf("[Section %d]\n%s\n", chunk.Index+1, chunk.Text))
		}
		return strings.TrimRight(builder.String(), "\n")
	}

	if result.Content == "" {
		return ""
	}
	builder.WriteString(fmt.Sprintf("Document: %s\n%s", result.Name, result.Content))
	return builder.String()
}

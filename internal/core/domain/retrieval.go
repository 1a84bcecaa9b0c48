package domain

// TopChunksPerDocument caps the matched chunks carried on a
// RetrievalResult.
const TopChunksPerDocument = 5

// AggregateChunkCount is how many of a document's best chunk scores are
// summed into its aggregate relevance.
const AggregateChunkCount = 3

// MinAssemblyRoom is the smallest remaining character budget worth
// filling with a truncated context block. Below it, assembly stops
// rather than emit a fragment.
const MinAssemblyRoom = 500

// TruncationMarker is appended to a context block cut short by the
// character budget.
const TruncationMarker = "\n[content truncated]"

// ScoredChunk is a chunk paired with its computed relevance for one
// query. Produced only during retrieval; never persisted.
type ScoredChunk struct {
	// DocumentID identifies the owning document.
	DocumentID string

	// Index is the chunk's position within its document.
	Index int

	// Text is the chunk text, carried for context assembly.
	Text string

	// Relevance is the lexical match score. Always > 0 in retrieval
	// output; non-positive chunks are dropped, not emitted.
	Relevance int

	// ExactMatch is true when the full query appeared as a substring.
	ExactMatch bool

	// WordMatches counts query keywords that matched (exact or fuzzy).
	WordMatches int

	// TotalWords is the number of keywords the query was scored with.
	TotalWords int
}

// RetrievalResult is one document's contribution to a retrieval,
// ranked against the other assigned documents. Ephemeral.
type RetrievalResult struct {
	// DocumentID identifies the document.
	DocumentID string

	// Name is the document's display name, used for block labels and
	// citation.
	Name string

	// Relevance is the document aggregate: the sum of its top
	// AggregateChunkCount chunk relevances, or the raw query occurrence
	// count for unindexed bodies.
	Relevance int

	// Chunks holds the best-scoring chunks in descending relevance
	// order, capped at TopChunksPerDocument. Empty for unindexed
	// bodies and for the all-documents fallback.
	Chunks []ScoredChunk

	// Content carries document text for results that have no scored
	// chunks (unindexed bodies and fallback inclusions), so context
	// assembly can still build a block for them.
	Content string

	// TotalChunks is the document's stored chunk count.
	TotalChunks int

	// MatchedChunks is how many chunks scored above zero.
	MatchedChunks int

	// Fallback is true when the result was included by the
	// recall-over-precision fallback rather than a lexical match.
	Fallback bool
}

// ContextBudget bounds the assembled context injected into a prompt.
// Budgets are explicit configuration passed to the retrieval engine,
// not ambient global state.
type ContextBudget struct {
	// MaxTotalChars is the character cap on the assembled context.
	MaxTotalChars int

	// MaxDocsPerQuery caps the number of documents included.
	MaxDocsPerQuery int

	// MaxChunksPerDoc caps the chunks quoted per document block.
	MaxChunksPerDoc int
}

// DefaultContextBudget returns the budget used when callers do not
// override it.
func DefaultContextBudget() ContextBudget {
	return ContextBudget{
		MaxTotalChars:   8000,
		MaxDocsPerQuery: 4,
		MaxChunksPerDoc: 3,
	}
}

// Valid reports whether every budget dimension is positive.
func (b ContextBudget) Valid() bool {
	return b.MaxTotalChars > 0 && b.MaxDocsPerQuery > 0 && b.MaxChunksPerDoc > 0
}

// AssembledContext is the output of context assembly: the text to
// inject into the prompt plus the provenance of what went into it.
type AssembledContext struct {
	// Text is the assembled context. Empty when nothing matched.
	Text string

	// DocumentNames lists, in rank order, the documents actually
	// included. Used for citation display.
	DocumentNames []string

	// Truncated is true when the final block was cut to fit the budget.
	Truncated bool
}

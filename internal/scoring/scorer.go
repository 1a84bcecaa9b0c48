// Package scoring implements the lexical relevance scorer used to rank
// chunks against a query. It is deliberately a substring/fuzzy matcher,
// not a semantic embedding match: fully self-contained and
// deterministic for a fixed (chunk, query) pair.
package scoring

import (
	"math"
	"sort"
	"strings"
)

// Weights holds the scoring constants. They are heuristic tunables with
// no documented derivation; the defaults preserve the relative ordering
// the rest of the system depends on (phrase > word > fuzzy).
type Weights struct {
	// PhraseMatch is awarded when the full query appears as a substring.
	PhraseMatch int

	// PhraseRepeat is awarded per phrase occurrence beyond the first.
	PhraseRepeat int

	// WordMatch is awarded per keyword found as a substring.
	WordMatch int

	// FuzzyMatch is awarded per keyword matched only by word-level
	// containment.
	FuzzyMatch int

	// ProximityMax is the ceiling of the keyword-proximity bonus.
	ProximityMax int

	// ProximityDivisor scales mean keyword gap into a bonus deduction.
	ProximityDivisor int

	// ProximityWindow is the mean-gap threshold (in characters) under
	// which the proximity bonus applies.
	ProximityWindow int

	// AllWordsBonus is awarded when every keyword of a multi-word query
	// matched.
	AllWordsBonus int

	// ExactBonus is a flat award on top of a phrase match.
	ExactBonus int

	// NormaliseLength is the chunk length (in characters) above which
	// scores are scaled down, favouring shorter, denser chunks.
	NormaliseLength int
}

// DefaultWeights returns the stock scoring constants.
func DefaultWeights() Weights {
	return Weights{
		PhraseMatch:      20,
		PhraseRepeat:     3,
		WordMatch:        2,
		FuzzyMatch:       1,
		ProximityMax:     10,
		ProximityDivisor: 5,
		ProximityWindow:  50,
		AllWordsBonus:    8,
		ExactBonus:       5,
		NormaliseLength:  1000,
	}
}

// Result carries the scorer output for one chunk.
type Result struct {
	// Relevance is the final rounded score. May be zero or negative
	// only in the sense that no points accumulated; callers drop
	// non-positive results.
	Relevance int

	// ExactMatch is true when the full query appeared as a substring.
	ExactMatch bool

	// WordMatches counts keywords matched exactly or fuzzily.
	WordMatches int

	// TotalWords is the keyword count the query was scored with.
	TotalWords int
}

// minKeywordLength: tokens at or below this length are treated as stop
// words during query preprocessing.
const minKeywordLength = 2

// Scorer computes lexical relevance of chunk text against a query.
type Scorer struct {
	weights   Weights
	stopWords map[string]struct{}
}

// Option configures the scorer.
type Option func(*Scorer)

// WithWeights overrides the default scoring constants.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithStopWords replaces the default stop-word set.
func WithStopWords(words []string) Option {
	return func(s *Scorer) {
		s.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			s.stopWords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// New creates a scorer with the given options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights:   DefaultWeights(),
		stopWords: defaultStopWords(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keywords preprocesses a query: lowercase, trim, split on whitespace,
// then drop stop words and short tokens. If filtering removes every
// token the unfiltered split is returned, so a query is never scored
// against zero search terms.
func (s *Scorer) Keywords(query string) []string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(tokens) == 0 {
		return nil
	}

	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= minKeywordLength {
			continue
		}
		if _, stop := s.stopWords[tok]; stop {
			continue
		}
		filtered = append(filtered, tok)
	}

	if len(filtered) == 0 {
		return tokens
	}
	return filtered
}

// Score computes the relevance of chunk text against a query.
// Scoring is additive: phrase match, per-keyword matches, a proximity
// bonus for clustered hits, an all-keywords bonus, and a flat exact
// bonus, then scaled down for long chunks and rounded.
func (s *Scorer) Score(chunkText, query string) Result {
	keywords := s.Keywords(query)
	result := Result{TotalWords: len(keywords)}
	if len(keywords) == 0 || chunkText == "" {
		return result
	}

	w := s.weights
	lowerChunk := strings.ToLower(chunkText)
	lowerQuery := strings.ToLower(strings.TrimSpace(query))

	score := 0

	// Exact phrase match, counting non-overlapping occurrences.
	occurrences := strings.Count(lowerChunk, lowerQuery)
	if occurrences > 0 {
		result.ExactMatch = true
		score += w.PhraseMatch + w.PhraseRepeat*(occurrences-1)
	}

	// Per-keyword matches. Positions of exact substring hits feed the
	// proximity bonus.
	var positions []int
	chunkWords := strings.Fields(lowerChunk)
	for _, kw := range keywords {
		if strings.Contains(lowerChunk, kw) {
			score += w.WordMatch
			result.WordMatches++
			positions = append(positions, allIndexes(lowerChunk, kw)...)
			continue
		}
		if fuzzyWordMatch(chunkWords, kw) {
			score += w.FuzzyMatch
			result.WordMatches++
		}
	}

	score += s.proximityBonus(positions)

	if result.WordMatches == len(keywords) && len(keywords) > 1 {
		score += w.AllWordsBonus
	}
	if result.ExactMatch {
		score += w.ExactBonus
	}

	// Length normalisation favours shorter, denser chunks.
	factor := math.Min(1.0, float64(w.NormaliseLength)/float64(len(chunkText)))
	result.Relevance = int(math.Round(float64(score) * factor))

	return result
}

// proximityBonus rewards keyword hits clustered close together. It
// needs at least two recorded positions and a mean consecutive gap
// inside the proximity window.
func (s *Scorer) proximityBonus(positions []int) int {
	if len(positions) < 2 {
		return 0
	}

	sort.Ints(positions)
	total := 0
	for i := 1; i < len(positions); i++ {
		total += positions[i] - positions[i-1]
	}
	meanGap := float64(total) / float64(len(positions)-1)
	if meanGap >= float64(s.weights.ProximityWindow) {
		return 0
	}

	bonus := s.weights.ProximityMax - int(meanGap)/s.weights.ProximityDivisor
	if bonus < 0 {
		bonus = 0
	}
	return bonus
}

// fuzzyWordMatch reports whether any chunk word contains the keyword as
// a substring, or vice versa.
func fuzzyWordMatch(chunkWords []string, keyword string) bool {
	for _, cw := range chunkWords {
		if strings.Contains(cw, keyword) || strings.Contains(keyword, cw) {
			return true
		}
	}
	return false
}

// allIndexes returns the start offsets of every non-overlapping
// occurrence of sub in s.
func allIndexes(s, sub string) []int {
	var indexes []int
	offset := 0
	for {
		i := strings.Index(s[offset:], sub)
		if i < 0 {
			return indexes
		}
		indexes = append(indexes, offset+i)
		offset += i + len(sub)
	}
}

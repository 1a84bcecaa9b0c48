package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords(t *testing.T) {
	s := New()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "filters stop words and short tokens",
			query:    "The quick brown fox",
			expected: []string{"quick", "brown", "fox"},
		},
		{
			name:     "lowercases and trims",
			query:    "  DATABASE Connections  ",
			expected: []string{"database", "connections"},
		},
		{
			name:     "all stop words falls back to raw tokens",
			query:    "the and for",
			expected: []string{"the", "and", "for"},
		},
		{
			name:     "all short tokens falls back to raw tokens",
			query:    "a is of",
			expected: []string{"a", "is", "of"},
		},
		{
			name:     "empty query",
			query:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			query:    "   \t ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Keywords(tt.query))
		})
	}
}

func TestScore_ExactPhrase(t *testing.T) {
	s := New()

	result := s.Score("The cat sat on the mat.", "cat sat")

	// Phrase 20, two word matches 2+2, proximity 10, all-words 8,
	// exact bonus 5; chunk is short so no length scaling.
	assert.Equal(t, 47, result.Relevance)
	assert.True(t, result.ExactMatch)
	assert.Equal(t, 2, result.WordMatches)
	assert.Equal(t, 2, result.TotalWords)
}

func TestScore_NoMatch(t *testing.T) {
	s := New()

	result := s.Score("completely unrelated prose", "zebra quantum")

	assert.Equal(t, 0, result.Relevance)
	assert.False(t, result.ExactMatch)
	assert.Equal(t, 0, result.WordMatches)
}

func TestScore_EmptyInputs(t *testing.T) {
	s := New()

	assert.Zero(t, s.Score("", "query").Relevance)
	assert.Zero(t, s.Score("some chunk text", "").Relevance)
	assert.Zero(t, s.Score("some chunk text", "   ").Relevance)
}

func TestScore_FuzzyWordMatch(t *testing.T) {
	s := New()

	// "databases" never appears verbatim, but "database" is a word-level
	// containment match.
	result := s.Score("database connections pool", "databases")

	assert.Equal(t, 1, result.Relevance)
	assert.False(t, result.ExactMatch)
	assert.Equal(t, 1, result.WordMatches)
}

func TestScore_PhraseRepeatOutscoresSingleOccurrence(t *testing.T) {
	s := New()

	single := s.Score("alpha beta and nothing else here", "alpha beta")
	repeated := s.Score("alpha beta alpha beta alpha beta", "alpha beta")

	assert.Greater(t, repeated.Relevance, single.Relevance)
	assert.True(t, repeated.ExactMatch)
}

func TestScore_ProximityFavoursClusteredKeywords(t *testing.T) {
	s := New()

	clustered := s.Score("alpha beta gamma", "alpha gamma")
	spread := s.Score("alpha "+strings.Repeat("x ", 40)+"gamma", "alpha gamma")

	assert.Greater(t, clustered.Relevance, spread.Relevance)
}

func TestScore_LengthNormalisationFavoursShortChunks(t *testing.T) {
	s := New()

	short := s.Score("the needle is right here", "needle")
	long := s.Score(strings.Repeat("filler ", 400)+"needle", "needle")

	assert.Greater(t, short.Relevance, long.Relevance)
	assert.Positive(t, long.Relevance)
}

func TestScore_StopWordQueryStillScores(t *testing.T) {
	s := New()

	// A query of nothing but stop words falls back to its raw tokens,
	// so it is never scored against zero search terms.
	result := s.Score("the cat", "the")

	assert.Positive(t, result.Relevance)
	assert.Equal(t, 1, result.TotalWords)
}

func TestScore_AllWordsBonusRequiresMultipleKeywords(t *testing.T) {
	s := New(WithWeights(Weights{
		WordMatch:        2,
		AllWordsBonus:    8,
		ProximityDivisor: 5,
		ProximityWindow:  50,
		NormaliseLength:  1000,
	}))

	one := s.Score("alpha here", "alpha")
	both := s.Score("alpha beta", "alpha beta")

	assert.Equal(t, 2, one.Relevance)
	// 2+2 word matches, all-words 8, proximity capped at 0 by the
	// zeroed ProximityMax.
	assert.Equal(t, 12, both.Relevance)
}

func TestScore_CaseInsensitive(t *testing.T) {
	s := New()

	lower := s.Score("the cat sat on the mat", "cat sat")
	mixed := s.Score("The CAT Sat on the mat", "CaT sAt")

	assert.Equal(t, lower.Relevance, mixed.Relevance)
}

func TestWithStopWords(t *testing.T) {
	s := New(WithStopWords([]string{"cat"}))

	assert.Equal(t, []string{"dog"}, s.Keywords("cat dog"))
}

func TestWithWeights(t *testing.T) {
	s := New(WithWeights(Weights{
		PhraseMatch:      100,
		ProximityDivisor: 5,
		ProximityWindow:  50,
		NormaliseLength:  1000,
	}))

	result := s.Score("needle in a haystack", "needle")

	assert.Equal(t, 100, result.Relevance)
}

func TestAllIndexes(t *testing.T) {
	assert.Equal(t, []int{0, 6}, allIndexes("needleneedle", "needle"))
	assert.Nil(t, allIndexes("haystack", "needle"))
}

func TestProximityBonus(t *testing.T) {
	s := New()

	assert.Zero(t, s.proximityBonus(nil))
	assert.Zero(t, s.proximityBonus([]int{5}))
	assert.Zero(t, s.proximityBonus([]int{0, 100}))
	assert.Equal(t, 10, s.proximityBonus([]int{0, 4}))
	assert.Equal(t, 6, s.proximityBonus([]int{0, 20}))
}

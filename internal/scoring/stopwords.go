package scoring

// stopWordList is the fixed set of common English function words
// excluded from query keywords. Tokens of length <= minKeywordLength
// are excluded separately, so short stop words like "a" or "is" are
// listed only for clarity when callers supply their own sets.
var stopWordList = []string{
	"the", "and", "for", "are", "but", "not", "you", "all",
	"can", "had", "her", "was", "one", "our", "out", "his",
	"has", "have", "been", "being", "were", "they", "them",
	"this", "that", "these", "those", "with", "from", "into",
	"will", "would", "could", "should", "does", "did", "done",
	"what", "when", "where", "which", "who", "why", "how",
}

func defaultStopWords() map[string]struct{} {
	set := make(map[string]struct{}, len(stopWordList))
	for _, w := range stopWordList {
		set[w] = struct{}{}
	}
	return set
}

package services

import (
	"strings"
	"unicode"
)

// TextAnalyzer provides the keyword handling shared by novelty checks and
// theme bucketing.
type TextAnalyzer interface {
	// Keywords returns the set of lowercase non-stop-words longer than two runes
	Keywords(text string) map[string]bool

	// Normalize lowercases text and collapses everything but letters and digits to single spaces
	Normalize(text string) string

	// Similarity returns the Jaccard overlap of the keyword sets of a and b
	Similarity(a, b string) float64
}

// DefaultTextAnalyzer is the English stop-word based TextAnalyzer.
type DefaultTextAnalyzer struct {
	stopWords map[string]bool
}

// NewDefaultTextAnalyzer creates a new text analyzer with common English stop words
func NewDefaultTextAnalyzer() *DefaultTextAnalyzer {
	return &DefaultTextAnalyzer{
		stopWords: defaultStopWords(),
	}
}

// Keywords extracts meaningful keywords from text
func (ta *DefaultTextAnalyzer) Keywords(text string) map[string]bool {
	keywords := make(map[string]bool)
	for _, word := range strings.Fields(ta.Normalize(text)) {
		if len([]rune(word)) > 2 && !ta.stopWords[word] {
			keywords[word] = true
		}
	}
	return keywords
}

// Normalize lowercases text and replaces runs of non-alphanumerics with one space
func (ta *DefaultTextAnalyzer) Normalize(text string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space && b.Len() > 0 {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Similarity returns |A∩B| / |A∪B| over keyword sets; 0 when both are empty.
func (ta *DefaultTextAnalyzer) Similarity(a, b string) float64 {
	ka, kb := ta.Keywords(a), ta.Keywords(b)
	if len(ka) == 0 && len(kb) == 0 {
		return 0
	}

	shared := 0
	for w := range ka {
		if kb[w] {
			shared++
		}
	}
	union := len(ka) + len(kb) - shared
	return float64(shared) / float64(union)
}

func defaultStopWords() map[string]bool {
	words := []string{
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
		"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
		"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
		"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
		"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
		"when", "make", "can", "like", "no", "just", "him", "know", "take",
		"into", "your", "some", "could", "them", "see", "other", "than", "then",
		"now", "only", "its", "over", "also", "after", "how", "our", "well",
		"way", "even", "want", "because", "any", "these", "most", "us", "is",
		"was", "are", "been", "has", "had", "were", "said", "did", "having",
		"may", "am", "should", "too", "very", "really",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

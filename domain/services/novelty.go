package services

// DefaultNoveltyThreshold is the keyword overlap at or above which a candidate
// insight counts as a repeat of an existing one.
const DefaultNoveltyThreshold = 0.8

// NoveltyFilter drops candidate insights that restate something already known.
type NoveltyFilter struct {
	analyzer  TextAnalyzer
	threshold float64
}

// NewNoveltyFilter creates a filter; a non-positive threshold selects the default.
func NewNoveltyFilter(analyzer TextAnalyzer, threshold float64) *NoveltyFilter {
	if threshold <= 0 {
		threshold = DefaultNoveltyThreshold
	}
	return &NoveltyFilter{analyzer: analyzer, threshold: threshold}
}

// Filter returns the candidates, in order, that match neither an existing note
// nor an earlier accepted candidate.
func (f *NoveltyFilter) Filter(candidates, existing []string) []string {
	known := make([]string, 0, len(existing)+len(candidates))
	known = append(known, existing...)

	novel := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if f.isKnown(c, known) {
			continue
		}
		novel = append(novel, c)
		known = append(known, c)
	}
	return novel
}

func (f *NoveltyFilter) isKnown(candidate string, known []string) bool {
	norm := f.analyzer.Normalize(candidate)
	for _, k := range known {
		if norm == f.analyzer.Normalize(k) {
			return true
		}
		if f.analyzer.Similarity(candidate, k) >= f.threshold {
			return true
		}
	}
	return false
}

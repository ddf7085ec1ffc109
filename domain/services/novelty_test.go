package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoveltyFilter_Filter(t *testing.T) {
	f := NewNoveltyFilter(NewDefaultTextAnalyzer(), 0)
	existing := []string{"Wants to grow the consulting business to ten clients"}

	got := f.Filter([]string{
		"wants to grow the consulting business to ten clients!",
		"Grow consulting business to ten clients",
		"Feels drained after long sales calls",
		"Feels drained after long sales calls",
	}, existing)

	assert.Equal(t, []string{"Feels drained after long sales calls"}, got)
}

func TestNoveltyFilter_KeepsDistinctNotes(t *testing.T) {
	f := NewNoveltyFilter(NewDefaultTextAnalyzer(), 0.8)
	got := f.Filter([]string{"Prefers async communication", "Reads every morning"}, nil)
	assert.Len(t, got, 2)
}

func TestDefaultTextAnalyzer_Similarity(t *testing.T) {
	ta := NewDefaultTextAnalyzer()
	assert.Equal(t, 0.0, ta.Similarity("", ""))
	assert.Equal(t, 1.0, ta.Similarity("Pricing strategy", "pricing STRATEGY"))
	assert.InDelta(t, 1.0/3.0, ta.Similarity("pricing strategy", "pricing clients"), 1e-9)
	assert.Equal(t, "hello world 42", ta.Normalize("  Hello, world!! 42 "))
}

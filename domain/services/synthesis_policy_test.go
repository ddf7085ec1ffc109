package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSynthesisPolicy_Decide(t *testing.T) {
	policy := SynthesisPolicy{MaxAge: 7 * 24 * time.Hour, MinNewInsights: 5}
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * 24 * time.Hour)
	old := now.Add(-8 * 24 * time.Hour)

	tests := []struct {
		name   string
		state  SynthesisState
		force  bool
		run    bool
		reason SynthesisReason
	}{
		{"no insights skips", SynthesisState{TotalInsights: 0}, false, false, ReasonNoInsights},
		{"no insights skips even when forced", SynthesisState{TotalInsights: 0}, true, false, ReasonNoInsights},
		{"never synthesized runs", SynthesisState{TotalInsights: 1}, false, true, ReasonNeverSynthesized},
		{"stale runs", SynthesisState{LastSynthesisAt: &old, TotalInsights: 3, NewInsights: 0}, false, true, ReasonStale},
		{"many new insights runs", SynthesisState{LastSynthesisAt: &recent, TotalInsights: 20, NewInsights: 6}, false, true, ReasonNewInsights},
		{"exactly the threshold does not run", SynthesisState{LastSynthesisAt: &recent, TotalInsights: 20, NewInsights: 5}, false, false, ReasonFresh},
		{"both conditions fail skips", SynthesisState{LastSynthesisAt: &recent, TotalInsights: 20, NewInsights: 1}, false, false, ReasonFresh},
		{"force bypasses freshness", SynthesisState{LastSynthesisAt: &recent, TotalInsights: 20, NewInsights: 1}, true, true, ReasonForced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, reason := policy.Decide(tt.state, now, tt.force)
			assert.Equal(t, tt.run, run)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

package services

import "time"

// SynthesisReason explains a synthesis decision.
type SynthesisReason string

const (
	ReasonNoInsights       SynthesisReason = "no-insights"
	ReasonNeverSynthesized SynthesisReason = "never-synthesized"
	ReasonStale            SynthesisReason = "stale"
	ReasonNewInsights      SynthesisReason = "new-insights"
	ReasonForced           SynthesisReason = "forced"
	ReasonFresh            SynthesisReason = "fresh"
)

// SynthesisPolicy decides whether a profile's essence should be regenerated.
type SynthesisPolicy struct {
	// MaxAge is how long an essence stays fresh.
	MaxAge time.Duration
	// MinNewInsights is the count of new insights that must be exceeded to force a refresh.
	MinNewInsights int
}

// SynthesisState is what the policy needs to know about a profile.
type SynthesisState struct {
	LastSynthesisAt *time.Time
	TotalInsights   int
	NewInsights     int
}

// Decide returns whether synthesis should run and why. A profile without
// insights never runs; otherwise it runs if either the age or the new-insight
// condition is met, or if forced.
func (p SynthesisPolicy) Decide(state SynthesisState, now time.Time, force bool) (bool, SynthesisReason) {
	if state.TotalInsights == 0 {
		return false, ReasonNoInsights
	}
	if state.LastSynthesisAt == nil {
		return true, ReasonNeverSynthesized
	}
	if now.Sub(*state.LastSynthesisAt) > p.MaxAge {
		return true, ReasonStale
	}
	if state.NewInsights > p.MinNewInsights {
		return true, ReasonNewInsights
	}
	if force {
		return true, ReasonForced
	}
	return false, ReasonFresh
}

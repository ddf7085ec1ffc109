package services

import "strings"

// Theme is one of the fixed buckets insights are grouped into before synthesis.
type Theme string

const (
	ThemeGoals         Theme = "Goals & Vision"
	ThemeStrengths     Theme = "Strengths"
	ThemeChallenges    Theme = "Challenges"
	ThemePatterns      Theme = "Patterns & Habits"
	ThemeRelationships Theme = "Relationships"
	ThemeBusiness      Theme = "Business & Work"
	ThemeOther         Theme = "Other"
)

// Themes lists every bucket in matching and rendering order.
var Themes = []Theme{
	ThemeGoals,
	ThemeStrengths,
	ThemeChallenges,
	ThemePatterns,
	ThemeRelationships,
	ThemeBusiness,
	ThemeOther,
}

var themeKeywords = map[Theme][]string{
	ThemeGoals: {
		"goal", "vision", "aspire", "dream", "want to", "wants to", "hopes to", "plans to", "aims", "ambition", "purpose", "future",
	},
	ThemeStrengths: {
		"strength", "skilled", "good at", "excels", "talent", "confident", "capable", "proud", "expert",
	},
	ThemeChallenges: {
		"struggle", "challenge", "difficult", "fear", "afraid", "anxious", "stuck", "overwhelm", "doubt",
		"burnout", "frustrat", "obstacle",
	},
	ThemePatterns: {
		"habit", "routine", "tends to", "often", "usually", "always", "never", "pattern", "procrastinat",
		"morning", "schedule",
	},
	ThemeRelationships: {
		"family", "partner", "spouse", "friend", "team", "mentor", "relationship", "children", "kids",
		"community", "network",
	},
	ThemeBusiness: {
		"business", "client", "customer", "revenue", "sales", "pricing", "market", "career", "job",
		"company", "product", "launch", "income",
	},
}

// CategorizeInsights buckets notes by keyword; the first theme (in Themes order)
// with a matching keyword wins, unmatched notes go to Other. Every theme has an
// entry, possibly empty.
func CategorizeInsights(notes []string) map[Theme][]string {
	buckets := make(map[Theme][]string, len(Themes))
	for _, theme := range Themes {
		buckets[theme] = []string{}
	}

	for _, note := range notes {
		theme := ClassifyTheme(note)
		buckets[theme] = append(buckets[theme], note)
	}
	return buckets
}

// ClassifyTheme returns the bucket a single note falls into.
func ClassifyTheme(note string) Theme {
	lower := strings.ToLower(note)
	for _, theme := range Themes {
		for _, kw := range themeKeywords[theme] {
			if strings.Contains(lower, kw) {
				return theme
			}
		}
	}
	return ThemeOther
}

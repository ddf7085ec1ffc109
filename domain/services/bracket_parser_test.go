package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResponse = `Here is what I noticed.

INSIGHTS: [
- Wants to replace agency income with a coaching practice
2. Feels guilty taking time off
* ok
]

TAGS: [coaching, Guilt, rest]

Goals:
[
  1) Sign three paying clients by March
]
`

func TestParseBracketedList_KeepsLinesLongerThanMinimum(t *testing.T) {
	items, found := ParseBracketedList(sampleResponse, ListSpec{Label: "INSIGHTS", MinLength: 10})

	assert.True(t, found)
	assert.Equal(t, []string{
		"Wants to replace agency income with a coaching practice",
		"Feels guilty taking time off",
	}, items)
}

func TestParseBracketedList_MinimumIsExclusive(t *testing.T) {
	resp := "INSIGHTS: [\n- 1234567890\n- 12345678901\n]"
	items, _ := ParseBracketedList(resp, ListSpec{Label: "INSIGHTS", MinLength: 10})
	assert.Equal(t, []string{"12345678901"}, items)
}

func TestParseBracketedList_CaseInsensitiveAcrossLines(t *testing.T) {
	items, found := ParseBracketedList(sampleResponse, ListSpec{Label: "GOALS", MinLength: 10})
	assert.True(t, found)
	assert.Equal(t, []string{"Sign three paying clients by March"}, items)
}

func TestParseBracketedList_SplitCommas(t *testing.T) {
	items, _ := ParseBracketedList(sampleResponse, ListSpec{Label: "TAGS", MinLength: 1, SplitCommas: true})
	assert.Equal(t, []string{"coaching", "Guilt", "rest"}, items)
}

func TestParseBracketedList_MissingLabel(t *testing.T) {
	items, found := ParseBracketedList(sampleResponse, ListSpec{Label: "CHALLENGES"})
	assert.False(t, found)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestParseBracketedList_UnderscoreLabelMatchesSpaces(t *testing.T) {
	resp := "Executive Summary: [A bootstrapped studio selling design sprints]"
	items, found := ParseBracketedList(resp, ListSpec{Label: "EXECUTIVE_SUMMARY", MinLength: 5})
	assert.True(t, found)
	assert.Equal(t, []string{"A bootstrapped studio selling design sprints"}, items)
}

func TestParseBracketedLists_CountsMatchedLabels(t *testing.T) {
	lists, matched := ParseBracketedLists(sampleResponse, []ListSpec{
		{Label: "INSIGHTS", MinLength: 10},
		{Label: "TAGS", MinLength: 1, SplitCommas: true},
		{Label: "CHALLENGES", MinLength: 10},
	})
	assert.Equal(t, 2, matched)
	assert.Len(t, lists, 3)
	assert.Empty(t, lists["CHALLENGES"])
}

func TestCleanListLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  - plain bullet", "plain bullet"},
		{"• unicode bullet", "unicode bullet"},
		{"– Feels stuck between two offers", "Feels stuck between two offers"},
		{"— em dash bullet", "em dash bullet"},
		{"▪ square bullet", "square bullet"},
		{"3. numbered", "numbered"},
		{"(2) parenthesized", "parenthesized"},
		{"- 1. nested markers", "nested markers"},
		{`"quoted item",`, "quoted item"},
		{"3.5x revenue growth", "3.5x revenue growth"},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanListLine(tt.in))
		})
	}
}

func TestParseBracketedList_DashBullets(t *testing.T) {
	response := "INSIGHTS: [\n– Feels stuck between two offers\n— Writes best before noon\n]"

	items, found := ParseBracketedList(response, ListSpec{Label: "INSIGHTS", MinLength: 10})

	assert.True(t, found)
	assert.Equal(t, []string{"Feels stuck between two offers", "Writes best before noon"}, items)
}

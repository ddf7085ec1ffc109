package services

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	// leading bullets and numbering: "-", "–", "—", "*", "•", "1.", "2)", "(3)"
	listMarker = regexp.MustCompile(`^(?:[-–—‒*•·▪◦>#]+|\d+[.):](?:\s+|$)|\(\d+\)(?:\s+|$))\s*`)
	labelCache sync.Map
)

// ListSpec describes one labeled bracketed list expected in an LLM response.
type ListSpec struct {
	Label string
	// MinLength is exclusive: an item is kept only if it has more runes than this.
	MinLength int
	// SplitCommas also splits each line on commas, for single-line tag lists.
	SplitCommas bool
}

// ParseBracketedLists extracts `LABEL: [ ... ]` blocks from response. Every
// spec gets an entry (possibly empty). matched counts labels that were found.
func ParseBracketedLists(response string, specs []ListSpec) (lists map[string][]string, matched int) {
	lists = make(map[string][]string, len(specs))
	for _, spec := range specs {
		items, found := ParseBracketedList(response, spec)
		lists[spec.Label] = items
		if found {
			matched++
		}
	}
	return lists, matched
}

// ParseBracketedList extracts a single labeled list.
func ParseBracketedList(response string, spec ListSpec) (items []string, found bool) {
	items = []string{}

	m := labelPattern(spec.Label).FindStringSubmatch(response)
	if m == nil {
		return items, false
	}

	for _, line := range strings.Split(m[1], "\n") {
		parts := []string{line}
		if spec.SplitCommas {
			parts = strings.Split(line, ",")
		}
		for _, part := range parts {
			item := CleanListLine(part)
			if utf8.RuneCountInString(item) > spec.MinLength {
				items = append(items, item)
			}
		}
	}
	return items, true
}

// CleanListLine trims whitespace, leading list markers, wrapping quotes and
// trailing commas from one line of a bracketed list.
func CleanListLine(line string) string {
	s := strings.TrimSpace(line)
	for {
		next := strings.TrimSpace(listMarker.ReplaceAllString(s, ""))
		if next == s {
			break
		}
		s = next
	}
	s = strings.TrimRight(s, ",;")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// labelPattern matches LABEL, an optional colon, then the shortest bracketed
// span. Underscores in the label also match spaces or hyphens.
func labelPattern(label string) *regexp.Regexp {
	if re, ok := labelCache.Load(label); ok {
		return re.(*regexp.Regexp)
	}
	words := strings.Split(label, "_")
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`(?is)\b` + strings.Join(words, `[\s_-]+`) + `\s*:?\s*\[(.*?)\]`)
	labelCache.Store(label, re)
	return re
}

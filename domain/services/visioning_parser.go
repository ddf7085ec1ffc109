package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Canonical visioning section keys.
const (
	SectionVision       = "vision"
	SectionCurrentState = "current_state"
	SectionGoals        = "goals"
	SectionValues       = "values"
	SectionChallenges   = "challenges"
	SectionStrengths    = "strengths"
	SectionIdealDay     = "ideal_day"
	SectionPreamble     = "preamble"
)

var (
	sectionAliases = []struct {
		key      string
		keywords []string
	}{
		{SectionIdealDay, []string{"ideal day", "typical day", "perfect day"}},
		{SectionCurrentState, []string{"current state", "where are you now", "right now", "currently", "today"}},
		{SectionChallenges, []string{"challenge", "obstacle", "struggle", "holding you back", "fear"}},
		{SectionStrengths, []string{"strength", "good at", "talent", "superpower"}},
		{SectionValues, []string{"value", "principle", "matters most"}},
		{SectionGoals, []string{"goal", "objective", "milestone", "next 12 months", "this year", "achieve"}},
		{SectionVision, []string{"vision", "future", "years from now", "dream", "legacy", "success look like"}},
	}

	markdownHeaderRe = regexp.MustCompile(`^#{1,6}\s*(.+?)\s*#*$`)
	labelHeaderRe    = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9 &/'()-]{1,60}):\s*(.*)$`)
	numberedHeaderRe = regexp.MustCompile(`^\d+[.)]\s+(.+\?)$`)
	sectionKeyRe     = regexp.MustCompile(`[^a-z0-9]+`)
)

// VisioningSections is a parsed visioning questionnaire. Order keeps the
// first-seen order of section keys.
type VisioningSections struct {
	Sections map[string]string
	Order    []string
}

// Get returns the text of a section, or "".
func (v VisioningSections) Get(key string) string {
	return v.Sections[key]
}

// ParseVisioning splits a questionnaire into sections. A header is a markdown
// heading, a question line, or a short "Label:" line; its text is mapped onto a
// canonical key when it mentions a known topic, otherwise onto a slug of itself.
// Repeated keys are concatenated. Text before the first header is the preamble.
func ParseVisioning(text string) VisioningSections {
	result := VisioningSections{Sections: map[string]string{}}

	key := SectionPreamble
	var lines []string
	flush := func() {
		body := strings.TrimSpace(strings.Join(lines, "\n"))
		lines = nil
		if body == "" {
			return
		}
		if existing, ok := result.Sections[key]; ok {
			result.Sections[key] = existing + "\n" + body
			return
		}
		result.Sections[key] = body
		result.Order = append(result.Order, key)
	}

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		header, rest, ok := detectHeader(line)
		if !ok {
			lines = append(lines, raw)
			continue
		}
		flush()
		key = canonicalSection(header)
		if rest != "" {
			lines = append(lines, rest)
		}
	}
	flush()

	return result
}

func detectHeader(line string) (header, rest string, ok bool) {
	if line == "" {
		return "", "", false
	}
	if m := markdownHeaderRe.FindStringSubmatch(line); m != nil {
		return m[1], "", true
	}
	if m := numberedHeaderRe.FindStringSubmatch(line); m != nil {
		return m[1], "", true
	}
	if strings.HasSuffix(line, "?") && utf8.RuneCountInString(line) <= 160 {
		return line, "", true
	}
	if m := labelHeaderRe.FindStringSubmatch(line); m != nil {
		return m[1], strings.TrimSpace(m[2]), true
	}
	return "", "", false
}

func canonicalSection(header string) string {
	lower := strings.ToLower(header)
	for _, alias := range sectionAliases {
		for _, kw := range alias.keywords {
			if strings.Contains(lower, kw) {
				return alias.key
			}
		}
	}
	slug := strings.Trim(sectionKeyRe.ReplaceAllString(lower, "_"), "_")
	if slug == "" {
		return SectionPreamble
	}
	return slug
}

package entities

import (
	"strings"

	"github.com/samber/lo"
)

// MaxProfileTags bounds the tag list kept on a profile.
const MaxProfileTags = 30

// NormalizeTag lowercases and trims a tag, collapsing inner whitespace.
func NormalizeTag(tag string) string {
	return strings.Join(strings.Fields(strings.ToLower(tag)), " ")
}

// ParseTags splits a comma-joined tag string into normalized, deduplicated tags.
func ParseTags(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return []string{}
	}
	return MergeTags(nil, strings.Split(joined, ","))
}

// JoinTags renders tags as the comma-joined form stored in the tabular database.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// MergeTags appends incoming to existing, keeping first-seen order and dropping
// empties and duplicates. Merging the same input twice yields the same list.
func MergeTags(existing, incoming []string) []string {
	all := append(append([]string{}, existing...), incoming...)
	normalized := lo.Map(all, func(t string, _ int) string {
		return NormalizeTag(strings.ReplaceAll(t, ",", " "))
	})
	merged := lo.Uniq(lo.Compact(normalized))
	if len(merged) > MaxProfileTags {
		merged = merged[:MaxProfileTags]
	}
	return merged
}

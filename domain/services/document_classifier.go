package services

import (
	"path/filepath"
	"strings"
	"unicode"
)

// DocumentType is the routing outcome for an uploaded document.
type DocumentType string

const (
	DocumentTypeVisioning    DocumentType = "visioning"
	DocumentTypeBusinessPlan DocumentType = "business-plan"
	DocumentTypeGeneral      DocumentType = "general"
)

// StatusMessage is the user-facing message shown once a document of this type is processed.
func (t DocumentType) StatusMessage() string {
	switch t {
	case DocumentTypeVisioning:
		return "Your visioning document has been analyzed and your profile updated."
	case DocumentTypeBusinessPlan:
		return "Your business plan has been analyzed and added to your profile."
	default:
		return "Your document has been reviewed and key insights were saved."
	}
}

const (
	defaultClassifyThreshold = 3
	defaultFilenameBonus     = 3
)

var (
	visioningKeywords = []string{
		"vision", "ideal day", "ideal life", "five years from now", "5 years from now",
		"core values", "my purpose", "legacy", "dream", "what does success look like",
		"who do you want to become", "questionnaire", "personal mission", "what lights you up",
		"if money were no object",
	}
	businessPlanKeywords = []string{
		"business plan", "executive summary", "target market", "market analysis",
		"revenue", "pricing", "competitor", "competitive advantage", "financial projection",
		"marketing strategy", "operations plan", "customer acquisition", "business model",
		"profit", "cash flow", "funding",
	}
	// Hints match whole filename words; "business-plan" matches the two words in sequence.
	visioningFileHints    = []string{"vision", "visioning", "questionnaire"}
	businessPlanFileHints = []string{"business-plan", "businessplan", "bizplan", "plan"}
)

// Classification is the routing decision with the scores behind it.
type Classification struct {
	Type   DocumentType         `json:"type"`
	Scores map[DocumentType]int `json:"scores"`
}

// DocumentClassifier routes documents by keyword counts and filename hints.
// It is deterministic: the same filename and text always yield the same type.
type DocumentClassifier struct {
	threshold     int
	filenameBonus int
}

// NewDocumentClassifier creates a classifier with the default threshold and filename bonus.
func NewDocumentClassifier() *DocumentClassifier {
	return &DocumentClassifier{
		threshold:     defaultClassifyThreshold,
		filenameBonus: defaultFilenameBonus,
	}
}

// Classify scores text and filename for each specific type. The higher score
// wins once it reaches the threshold; a tie goes to visioning.
func (c *DocumentClassifier) Classify(filename, text string) Classification {
	lower := strings.ToLower(text)
	name := filenameWords(filename)

	vision := countKeywords(lower, visioningKeywords)
	plan := countKeywords(lower, businessPlanKeywords)

	if hasHint(name, visioningFileHints) {
		vision += c.filenameBonus
	}
	if hasHint(name, businessPlanFileHints) {
		plan += c.filenameBonus
	}

	result := Classification{
		Type: DocumentTypeGeneral,
		Scores: map[DocumentType]int{
			DocumentTypeVisioning:    vision,
			DocumentTypeBusinessPlan: plan,
		},
	}

	switch {
	case vision >= c.threshold && vision >= plan:
		result.Type = DocumentTypeVisioning
	case plan >= c.threshold:
		result.Type = DocumentTypeBusinessPlan
	}
	return result
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		n += strings.Count(text, kw)
	}
	return n
}

// filenameWords lowercases the base name without its extension and splits it
// on anything that is not a letter or digit.
func filenameWords(filename string) []string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return splitWords(strings.ToLower(base))
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasHint(words []string, hints []string) bool {
	for _, h := range hints {
		if containsRun(words, splitWords(h)) {
			return true
		}
	}
	return false
}

// containsRun reports whether run appears in words as consecutive elements.
func containsRun(words, run []string) bool {
	if len(run) == 0 {
		return false
	}
	for i := 0; i+len(run) <= len(words); i++ {
		match := true
		for j, w := range run {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

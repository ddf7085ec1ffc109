package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentClassifier_Classify(t *testing.T) {
	c := NewDocumentClassifier()

	tests := []struct {
		name     string
		filename string
		text     string
		want     DocumentType
	}{
		{
			name:     "visioning by content",
			filename: "answers.txt",
			text:     "My vision is a calm studio. My ideal day starts with writing. Core values: honesty.",
			want:     DocumentTypeVisioning,
		},
		{
			name:     "business plan by content",
			filename: "doc.txt",
			text:     "Executive summary. Our target market is dentists. Revenue comes from subscriptions and pricing is tiered.",
			want:     DocumentTypeBusinessPlan,
		},
		{
			name:     "filename hint alone",
			filename: "Q3 Business_Plan.docx",
			text:     "Notes for the quarter.",
			want:     DocumentTypeBusinessPlan,
		},
		{
			name:     "visioning filename hint",
			filename: "visioning-questionnaire.md",
			text:     "Answers below.",
			want:     DocumentTypeVisioning,
		},
		{
			name:     "general when below threshold",
			filename: "journal.txt",
			text:     "Went for a walk and thought about pricing.",
			want:     DocumentTypeGeneral,
		},
		{
			name:     "tie resolves to visioning",
			filename: "notes.txt",
			text:     "vision vision vision revenue revenue revenue",
			want:     DocumentTypeVisioning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.filename, tt.text).Type)
		})
	}
}

func TestDocumentClassifier_FilenameHintsMatchWholeWords(t *testing.T) {
	c := NewDocumentClassifier()
	neutral := "Some thoughts from this week."

	tests := []struct {
		filename string
		want     DocumentType
	}{
		{"explanation.txt", DocumentTypeGeneral},
		{"planet-notes.md", DocumentTypeGeneral},
		{"television.txt", DocumentTypeGeneral},
		{"supervision-log.txt", DocumentTypeGeneral},
		{"intake-form.txt", DocumentTypeGeneral},
		{"plan.txt", DocumentTypeBusinessPlan},
		{"2024 business plan.md", DocumentTypeBusinessPlan},
		{"BusinessPlan.pdf", DocumentTypeBusinessPlan},
		{"my_vision.txt", DocumentTypeVisioning},
		{"client-questionnaire.docx", DocumentTypeVisioning},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := c.Classify(tt.filename, neutral)
			assert.Equal(t, tt.want, got.Type, "scores: %v", got.Scores)
		})
	}
}

func TestDocumentClassifier_Deterministic(t *testing.T) {
	c := NewDocumentClassifier()
	text := "Our business model depends on the target market. My vision for five years from now."
	first := c.Classify("plan.txt", text)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.Classify("plan.txt", text))
	}
}

func TestDocumentType_StatusMessage(t *testing.T) {
	assert.Contains(t, DocumentTypeVisioning.StatusMessage(), "visioning")
	assert.Contains(t, DocumentTypeBusinessPlan.StatusMessage(), "business plan")
	assert.Contains(t, DocumentTypeGeneral.StatusMessage(), "insights")
}

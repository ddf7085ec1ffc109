package entities

import (
	"strings"
	"time"

	pkgerrors "sol-backend/pkg/errors"

	"github.com/google/uuid"
)

// InsightSource records which flow produced an insight.
type InsightSource string

const (
	SourceChat         InsightSource = "chat"
	SourceVisioning    InsightSource = "visioning"
	SourceBusinessPlan InsightSource = "business-plan"
	SourceDocument     InsightSource = "document"
)

// IsDocument reports whether the insight came from an uploaded document.
func (s InsightSource) IsDocument() bool {
	return s == SourceVisioning || s == SourceBusinessPlan || s == SourceDocument
}

// InsightEntry is a short derived observation about a user. Entries are
// append-only and never edited.
type InsightEntry struct {
	ID        string        `json:"id"`
	UserEmail string        `json:"user_email"`
	Note      string        `json:"note"`
	Tags      []string      `json:"tags"`
	Source    InsightSource `json:"source"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewInsightEntry creates an insight for email.
func NewInsightEntry(email, note string, tags []string, source InsightSource) (*InsightEntry, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, pkgerrors.NewValidationError("insight note cannot be empty")
	}
	if source == "" {
		source = SourceChat
	}

	return &InsightEntry{
		ID:        uuid.New().String(),
		UserEmail: email,
		Note:      note,
		Tags:      MergeTags(nil, tags),
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}, nil
}

package entities

import (
	"time"

	pkgerrors "sol-backend/pkg/errors"

	"github.com/google/uuid"
)

// VisioningDocument is a questionnaire response describing a user's business
// goals, plus what the analysis derived from it.
type VisioningDocument struct {
	ID          string            `json:"id"`
	UserEmail   string            `json:"user_email"`
	Filename    string            `json:"filename"`
	RawText     string            `json:"raw_text,omitempty"`
	Summary     string            `json:"summary"`
	Vision      string            `json:"vision"`
	Tags        []string          `json:"tags"`
	Sections    map[string]string `json:"sections,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
}

// NewVisioningDocument creates an unprocessed visioning document.
func NewVisioningDocument(email, filename, rawText string) (*VisioningDocument, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if rawText == "" {
		return nil, pkgerrors.ErrEmptyDocument
	}

	return &VisioningDocument{
		ID:        uuid.New().String(),
		UserEmail: email,
		Filename:  filename,
		RawText:   rawText,
		Tags:      []string{},
		Sections:  map[string]string{},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarkProcessed stores the analysis output.
func (d *VisioningDocument) MarkProcessed(summary, vision string, tags []string, at time.Time) {
	at = at.UTC()
	d.Summary = summary
	d.Vision = vision
	d.Tags = MergeTags(nil, tags)
	d.ProcessedAt = &at
}

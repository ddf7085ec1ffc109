package entities

import (
	"time"

	pkgerrors "sol-backend/pkg/errors"

	"github.com/google/uuid"
)

// BusinessPlan holds the fields derived from an uploaded business plan.
type BusinessPlan struct {
	ID               string    `json:"id"`
	UserEmail        string    `json:"user_email"`
	Filename         string    `json:"filename"`
	RawText          string    `json:"raw_text,omitempty"`
	ExecutiveSummary string    `json:"executive_summary"`
	TargetMarket     string    `json:"target_market"`
	RevenueModel     string    `json:"revenue_model"`
	Goals            []string  `json:"goals"`
	Tags             []string  `json:"tags"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// NewBusinessPlan creates a plan record for email.
func NewBusinessPlan(email, filename, rawText string) (*BusinessPlan, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if rawText == "" {
		return nil, pkgerrors.ErrEmptyDocument
	}

	return &BusinessPlan{
		ID:          uuid.New().String(),
		UserEmail:   email,
		Filename:    filename,
		RawText:     rawText,
		Goals:       []string{},
		Tags:        []string{},
		SubmittedAt: time.Now().UTC(),
	}, nil
}

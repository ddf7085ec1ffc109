package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	pkgerrors "sol-backend/pkg/errors"

	"github.com/google/uuid"
)

// Message is one chat turn: the user's text and the assistant's reply.
// The message log is append-only.
type Message struct {
	ID            string    `json:"id"`
	UserEmail     string    `json:"user_email"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	TokenEstimate int       `json:"token_estimate"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewMessage creates a message and computes its token estimate.
func NewMessage(email, userText, assistantText string) (*Message, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if strings.TrimSpace(userText) == "" {
		return nil, pkgerrors.NewValidationError("message cannot be empty")
	}

	return &Message{
		ID:            uuid.New().String(),
		UserEmail:     email,
		UserText:      userText,
		AssistantText: assistantText,
		TokenEstimate: EstimateTokens(userText) + EstimateTokens(assistantText),
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// EstimateTokens approximates the token count as one token per four runes,
// rounded up. Non-empty text is at least one token.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

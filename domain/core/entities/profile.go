package entities

import (
	"strings"
	"time"

	pkgerrors "sol-backend/pkg/errors"

	"github.com/google/uuid"
)

// Profile is the per-user record every analysis flow reads and updates.
// Email is the lookup key; writes are last-write-wins.
type Profile struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name,omitempty"`
	Vision          string     `json:"vision,omitempty"`
	CurrentState    string     `json:"current_state,omitempty"`
	Goals           string     `json:"goals,omitempty"`
	Tags            []string   `json:"tags"`
	EssenceProfile  string     `json:"essence_profile,omitempty"`
	LastSynthesisAt *time.Time `json:"last_synthesis_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewProfile creates an empty profile for email.
func NewProfile(email string) (*Profile, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}

	now := time.Now().UTC()
	return &Profile{
		ID:        uuid.New().String(),
		Email:     email,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddTags merges tags into the profile and reports whether the list changed.
func (p *Profile) AddTags(tags ...string) bool {
	merged := MergeTags(p.Tags, tags)
	changed := len(merged) != len(p.Tags)
	p.Tags = merged
	if changed {
		p.touch()
	}
	return changed
}

// SetVision replaces the vision text when v is non-empty.
func (p *Profile) SetVision(v string) {
	if v = strings.TrimSpace(v); v != "" {
		p.Vision = v
		p.touch()
	}
}

// SetGoals replaces the goals text when g is non-empty.
func (p *Profile) SetGoals(g string) {
	if g = strings.TrimSpace(g); g != "" {
		p.Goals = g
		p.touch()
	}
}

// RecordSynthesis stores a freshly synthesized essence.
func (p *Profile) RecordSynthesis(essence string, at time.Time) {
	at = at.UTC()
	p.EssenceProfile = essence
	p.LastSynthesisAt = &at
	p.UpdatedAt = at
}

func (p *Profile) touch() {
	p.UpdatedAt = time.Now().UTC()
}

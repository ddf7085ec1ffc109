package ports

import (
	"context"
	"time"

	"sol-backend/domain/core/entities"
)

// ProfileRepository persists user profiles keyed by email.
type ProfileRepository interface {
	// GetByEmail returns the profile or an error matching ErrRecordNotFound
	GetByEmail(ctx context.Context, email string) (*entities.Profile, error)

	// Create inserts a new profile
	Create(ctx context.Context, profile *entities.Profile) error

	// Update writes the mutable profile fields (last write wins)
	Update(ctx context.Context, profile *entities.Profile) error

	// List returns every profile, for the synthesis sweep
	List(ctx context.Context) ([]*entities.Profile, error)
}

// MessageRepository is the append-only chat log.
type MessageRepository interface {
	Append(ctx context.Context, msg *entities.Message) error

	// Recent returns the newest limit messages, newest first
	Recent(ctx context.Context, email string, limit int) ([]*entities.Message, error)

	// First returns the oldest message, or nil when there is none
	First(ctx context.Context, email string) (*entities.Message, error)

	Count(ctx context.Context, email string) (int, error)
}

// InsightRepository is the append-only insight log.
type InsightRepository interface {
	Create(ctx context.Context, insight *entities.InsightEntry) error

	// Recent returns the newest limit insights, newest first. limit <= 0 returns all.
	Recent(ctx context.Context, email string, limit int) ([]*entities.InsightEntry, error)

	// RecentBySource is Recent restricted to one source
	RecentBySource(ctx context.Context, email string, source entities.InsightSource, limit int) ([]*entities.InsightEntry, error)

	// RecentFromDocuments returns the newest insights whose source is a document
	RecentFromDocuments(ctx context.Context, email string, limit int) ([]*entities.InsightEntry, error)

	Count(ctx context.Context, email string) (int, error)

	// CountSince counts insights created strictly after since
	CountSince(ctx context.Context, email string, since time.Time) (int, error)
}

// VisioningRepository persists visioning documents.
type VisioningRepository interface {
	Create(ctx context.Context, doc *entities.VisioningDocument) error
	Update(ctx context.Context, doc *entities.VisioningDocument) error
	GetByID(ctx context.Context, id string) (*entities.VisioningDocument, error)

	// ListByEmail returns the newest limit documents, newest first
	ListByEmail(ctx context.Context, email string, limit int) ([]*entities.VisioningDocument, error)
}

// BusinessPlanRepository persists business plans.
type BusinessPlanRepository interface {
	Create(ctx context.Context, plan *entities.BusinessPlan) error

	// ListByEmail returns the newest limit plans, newest first
	ListByEmail(ctx context.Context, email string, limit int) ([]*entities.BusinessPlan, error)
}

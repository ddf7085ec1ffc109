package events

import (
	"time"

	"github.com/google/uuid"
)

// SourceBackend is the EventBridge source for everything this service emits.
const SourceBackend = "sol.backend"

// Event types
const (
	TypeInsightsExtracted  = "insights.extracted"
	TypeDocumentProcessed  = "document.processed"
	TypeProfileSynthesized = "profile.synthesized"
)

// DomainEvent is something that has happened to a user's records.
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

func newBase(email, eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: email,
		EventType:   eventType,
		Timestamp:   at.UTC(),
	}
}

// InsightsExtracted is raised after new insight entries were persisted.
type InsightsExtracted struct {
	BaseEvent
	Email      string   `json:"email"`
	Source     string   `json:"source"`
	InsightIDs []string `json:"insight_ids"`
	Tags       []string `json:"tags"`
}

// NewInsightsExtracted creates an InsightsExtracted event
func NewInsightsExtracted(email, source string, insightIDs, tags []string, at time.Time) InsightsExtracted {
	return InsightsExtracted{
		BaseEvent:  newBase(email, TypeInsightsExtracted, at),
		Email:      email,
		Source:     source,
		InsightIDs: insightIDs,
		Tags:       tags,
	}
}

// DocumentProcessed is raised once an uploaded document was routed and analyzed.
type DocumentProcessed struct {
	BaseEvent
	Email        string `json:"email"`
	DocumentType string `json:"document_type"`
	DocumentID   string `json:"document_id,omitempty"`
	Filename     string `json:"filename"`
}

// NewDocumentProcessed creates a DocumentProcessed event
func NewDocumentProcessed(email, docType, docID, filename string, at time.Time) DocumentProcessed {
	return DocumentProcessed{
		BaseEvent:    newBase(email, TypeDocumentProcessed, at),
		Email:        email,
		DocumentType: docType,
		DocumentID:   docID,
		Filename:     filename,
	}
}

// ProfileSynthesized is raised after a new essence profile was written.
type ProfileSynthesized struct {
	BaseEvent
	Email        string `json:"email"`
	Reason       string `json:"reason"`
	InsightCount int    `json:"insight_count"`
}

// NewProfileSynthesized creates a ProfileSynthesized event
func NewProfileSynthesized(email, reason string, insightCount int, at time.Time) ProfileSynthesized {
	return ProfileSynthesized{
		BaseEvent:    newBase(email, TypeProfileSynthesized, at),
		Email:        email,
		Reason:       reason,
		InsightCount: insightCount,
	}
}

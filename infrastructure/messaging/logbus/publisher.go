// Package logbus is the event publisher used when no event bus is configured.
// Events are written to the log and otherwise dropped.
package logbus

import (
	"context"

	"sol-backend/domain/events"

	"go.uber.org/zap"
)

// Publisher logs every event at debug level.
type Publisher struct {
	logger *zap.Logger
}

// NewPublisher creates a new log publisher
func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("event",
		zap.String("eventType", event.GetEventType()),
		zap.String("eventId", event.GetEventID()),
		zap.String("aggregateId", event.GetAggregateID()),
		zap.Time("timestamp", event.GetTimestamp()),
	)
	return nil
}

func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

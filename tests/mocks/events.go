package mocks

import (
	"context"
	"sync"

	"sol-backend/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of ports.EventPublisher that
// also records every published event.
type MockEventPublisher struct {
	mock.Mock

	mu        sync.Mutex
	published []events.DomainEvent
}

// NewMockEventPublisher returns a publisher that accepts every event
func NewMockEventPublisher() *MockEventPublisher {
	m := &MockEventPublisher{}
	m.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("PublishBatch", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		m.record(event)
	}
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	args := m.Called(ctx, domainEvents)
	if args.Error(0) == nil {
		m.record(domainEvents...)
	}
	return args.Error(0)
}

// Published returns the events accepted so far.
func (m *MockEventPublisher) Published() []events.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.DomainEvent(nil), m.published...)
}

// OfType returns the accepted events with the given type.
func (m *MockEventPublisher) OfType(eventType string) []events.DomainEvent {
	var out []events.DomainEvent
	for _, e := range m.Published() {
		if e.GetEventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockEventPublisher) record(evts ...events.DomainEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, evts...)
}

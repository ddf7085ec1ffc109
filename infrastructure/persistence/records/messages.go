package records

import (
	"context"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
)

type messageRow struct {
	ID            string `json:"id"`
	UserEmail     string `json:"user_email"`
	UserText      string `json:"user_text"`
	AssistantText string `json:"assistant_text"`
	TokenEstimate int    `json:"token_estimate"`
	CreatedAt     string `json:"created_at"`
}

func (r messageRow) entity() *entities.Message {
	return &entities.Message{
		ID:            r.ID,
		UserEmail:     r.UserEmail,
		UserText:      r.UserText,
		AssistantText: r.AssistantText,
		TokenEstimate: r.TokenEstimate,
		CreatedAt:     parseTime(r.CreatedAt),
	}
}

// MessageRepository implements ports.MessageRepository
type MessageRepository struct {
	store ports.RecordStore
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(store ports.RecordStore) *MessageRepository {
	return &MessageRepository{store: store}
}

// Append stores a new chat turn
func (r *MessageRepository) Append(ctx context.Context, m *entities.Message) error {
	rec, err := toRecord(messageRow{
		ID:            m.ID,
		UserEmail:     m.UserEmail,
		UserText:      m.UserText,
		AssistantText: m.AssistantText,
		TokenEstimate: m.TokenEstimate,
		CreatedAt:     formatTime(m.CreatedAt),
	})
	if err != nil {
		return err
	}
	_, err = r.store.Create(ctx, ports.TableMessages, rec)
	return err
}

// Recent returns the newest messages, newest first
func (r *MessageRepository) Recent(ctx context.Context, email string, limit int) ([]*entities.Message, error) {
	q := ports.Where("user_email", entities.NormalizeEmail(email)).OrderBy("created_at", true).Take(limit)
	return r.find(ctx, q)
}

// First returns the oldest message, or nil
func (r *MessageRepository) First(ctx context.Context, email string) (*entities.Message, error) {
	q := ports.Where("user_email", entities.NormalizeEmail(email)).OrderBy("created_at", false).Take(1)
	msgs, err := r.find(ctx, q)
	if err != nil || len(msgs) == 0 {
		return nil, err
	}
	return msgs[0], nil
}

// Count returns the number of messages for email
func (r *MessageRepository) Count(ctx context.Context, email string) (int, error) {
	return r.store.Count(ctx, ports.TableMessages, ports.Where("user_email", entities.NormalizeEmail(email)))
}

func (r *MessageRepository) find(ctx context.Context, q ports.Query) ([]*entities.Message, error) {
	recs, err := r.store.Find(ctx, ports.TableMessages, q)
	if err != nil {
		return nil, err
	}
	msgs := make([]*entities.Message, 0, len(recs))
	for _, rec := range recs {
		var row messageRow
		if err := fromRecord(rec, &row); err != nil {
			return nil, err
		}
		msgs = append(msgs, row.entity())
	}
	return msgs, nil
}

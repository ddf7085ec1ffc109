package records

import (
	"context"
	"time"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	"sol-backend/pkg/utils"
)

type insightRow struct {
	ID        string `json:"id"`
	UserEmail string `json:"user_email"`
	Note      string `json:"note"`
	Tags      string `json:"tags"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

func (r insightRow) entity() *entities.InsightEntry {
	return &entities.InsightEntry{
		ID:        r.ID,
		UserEmail: r.UserEmail,
		Note:      r.Note,
		Tags:      entities.ParseTags(r.Tags),
		Source:    entities.InsightSource(r.Source),
		CreatedAt: parseTime(r.CreatedAt),
	}
}

// InsightRepository implements ports.InsightRepository
type InsightRepository struct {
	store ports.RecordStore
}

// NewInsightRepository creates a new InsightRepository
func NewInsightRepository(store ports.RecordStore) *InsightRepository {
	return &InsightRepository{store: store}
}

// Create appends an insight
func (r *InsightRepository) Create(ctx context.Context, in *entities.InsightEntry) error {
	rec, err := toRecord(insightRow{
		ID:        in.ID,
		UserEmail: in.UserEmail,
		Note:      in.Note,
		Tags:      entities.JoinTags(in.Tags),
		Source:    string(in.Source),
		CreatedAt: formatTime(in.CreatedAt),
	})
	if err != nil {
		return err
	}
	_, err = r.store.Create(ctx, ports.TableInsights, rec)
	return err
}

// Recent returns insights newest first; limit <= 0 returns all of them
func (r *InsightRepository) Recent(ctx context.Context, email string, limit int) ([]*entities.InsightEntry, error) {
	q := ports.Where("user_email", entities.NormalizeEmail(email)).OrderBy("created_at", true)
	if limit > 0 {
		q = q.Take(limit)
	}
	return r.find(ctx, q)
}

// RecentBySource returns the newest insights from one source
func (r *InsightRepository) RecentBySource(ctx context.Context, email string, source entities.InsightSource, limit int) ([]*entities.InsightEntry, error) {
	q := ports.Where("user_email", entities.NormalizeEmail(email)).
		And("source", ports.OpEq, string(source)).
		OrderBy("created_at", true)
	if limit > 0 {
		q = q.Take(limit)
	}
	return r.find(ctx, q)
}

// RecentFromDocuments returns the newest insights from any non-chat source
func (r *InsightRepository) RecentFromDocuments(ctx context.Context, email string, limit int) ([]*entities.InsightEntry, error) {
	q := ports.Where("user_email", entities.NormalizeEmail(email)).
		And("source", ports.OpNeq, string(entities.SourceChat)).
		OrderBy("created_at", true)
	if limit > 0 {
		q = q.Take(limit)
	}
	return r.find(ctx, q)
}

// Count returns the number of insights for email
func (r *InsightRepository) Count(ctx context.Context, email string) (int, error) {
	return r.store.Count(ctx, ports.TableInsights, ports.Where("user_email", entities.NormalizeEmail(email)))
}

// CountSince counts insights created after since
func (r *InsightRepository) CountSince(ctx context.Context, email string, since time.Time) (int, error) {
	q := ports.Where("user_email", entities.NormalizeEmail(email)).
		And("created_at", ports.OpGt, utils.FormatTimestamp(since))
	return r.store.Count(ctx, ports.TableInsights, q)
}

func (r *InsightRepository) find(ctx context.Context, q ports.Query) ([]*entities.InsightEntry, error) {
	recs, err := r.store.Find(ctx, ports.TableInsights, q)
	if err != nil {
		return nil, err
	}
	out := make([]*entities.InsightEntry, 0, len(recs))
	for _, rec := range recs {
		var row insightRow
		if err := fromRecord(rec, &row); err != nil {
			return nil, err
		}
		out = append(out, row.entity())
	}
	return out, nil
}

package records

import (
	"context"
	"strings"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
)

type businessPlanRow struct {
	ID               string `json:"id"`
	UserEmail        string `json:"user_email"`
	Filename         string `json:"filename"`
	RawText          string `json:"raw_text"`
	ExecutiveSummary string `json:"executive_summary"`
	TargetMarket     string `json:"target_market"`
	RevenueModel     string `json:"revenue_model"`
	Goals            string `json:"goals"`
	Tags             string `json:"tags"`
	SubmittedAt      string `json:"submitted_at"`
}

// Goals are stored one per line.
func (r businessPlanRow) entity() *entities.BusinessPlan {
	goals := []string{}
	for _, g := range strings.Split(r.Goals, "\n") {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}

	return &entities.BusinessPlan{
		ID:               r.ID,
		UserEmail:        r.UserEmail,
		Filename:         r.Filename,
		RawText:          r.RawText,
		ExecutiveSummary: r.ExecutiveSummary,
		TargetMarket:     r.TargetMarket,
		RevenueModel:     r.RevenueModel,
		Goals:            goals,
		Tags:             entities.ParseTags(r.Tags),
		SubmittedAt:      parseTime(r.SubmittedAt),
	}
}

// BusinessPlanRepository implements ports.BusinessPlanRepository
type BusinessPlanRepository struct {
	store ports.RecordStore
}

// NewBusinessPlanRepository creates a new BusinessPlanRepository
func NewBusinessPlanRepository(store ports.RecordStore) *BusinessPlanRepository {
	return &BusinessPlanRepository{store: store}
}

// Create stores a business plan
func (r *BusinessPlanRepository) Create(ctx context.Context, p *entities.BusinessPlan) error {
	rec, err := toRecord(businessPlanRow{
		ID:               p.ID,
		UserEmail:        p.UserEmail,
		Filename:         p.Filename,
		RawText:          p.RawText,
		ExecutiveSummary: p.ExecutiveSummary,
		TargetMarket:     p.TargetMarket,
		RevenueModel:     p.RevenueModel,
		Goals:            strings.Join(p.Goals, "\n"),
		Tags:             entities.JoinTags(p.Tags),
		SubmittedAt:      formatTime(p.SubmittedAt),
	})
	if err != nil {
		return err
	}
	_, err = r.store.Create(ctx, ports.TableBusinessPlans, rec)
	return err
}

// ListByEmail returns the newest plans for email
func (r *BusinessPlanRepository) ListByEmail(ctx context.Context, email string, limit int) ([]*entities.BusinessPlan, error) {
	q := ports.Where("user_email", entities.NormalizeEmail(email)).OrderBy("submitted_at", true)
	if limit > 0 {
		q = q.Take(limit)
	}

	recs, err := r.store.Find(ctx, ports.TableBusinessPlans, q)
	if err != nil {
		return nil, err
	}
	plans := make([]*entities.BusinessPlan, 0, len(recs))
	for _, rec := range recs {
		var row businessPlanRow
		if err := fromRecord(rec, &row); err != nil {
			return nil, err
		}
		plans = append(plans, row.entity())
	}
	return plans, nil
}

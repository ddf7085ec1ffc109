package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	pkgerrors "sol-backend/pkg/errors"
	"sol-backend/pkg/observability"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

// Slice limits used when gathering a user's context.
const (
	RecentMessageLimit   = 10
	RecentInsightLimit   = 20
	DocumentLimit        = 3
	DocumentInsightLimit = 10

	summaryTextLimit = 280
)

// Slice names reported in UserContext.Degraded.
const (
	SliceProfile          = "profile"
	SliceRecentMessages   = "recent_messages"
	SliceRecentInsights   = "recent_insights"
	SliceVisioning        = "visioning_documents"
	SliceBusinessPlans    = "business_plans"
	SliceMessageCount     = "message_count"
	SliceInsightCount     = "insight_count"
	SliceFirstMessage     = "first_message"
	SliceDocumentInsights = "document_insights"
)

// UserContext is everything known about a user, gathered for one prompt.
// Slices that failed to load hold their zero value and are named in Degraded.
type UserContext struct {
	Email              string                        `json:"email"`
	Profile            *entities.Profile             `json:"profile,omitempty"`
	RecentMessages     []*entities.Message           `json:"recent_messages"`
	RecentInsights     []*entities.InsightEntry      `json:"recent_insights"`
	VisioningDocuments []*entities.VisioningDocument `json:"visioning_documents"`
	BusinessPlans      []*entities.BusinessPlan      `json:"business_plans"`
	MessageCount       int                           `json:"message_count"`
	InsightCount       int                           `json:"insight_count"`
	MemberSince        *time.Time                    `json:"member_since,omitempty"`
	DocumentInsights   []*entities.InsightEntry      `json:"document_insights"`
	Degraded           []string                      `json:"degraded"`
}

// IsDegraded reports whether the named slice failed to load.
func (c *UserContext) IsDegraded(slice string) bool {
	for _, d := range c.Degraded {
		if d == slice {
			return true
		}
	}
	return false
}

// HasDegraded reports whether any slice failed to load.
func (c *UserContext) HasDegraded() bool {
	return len(c.Degraded) > 0
}

// ContextAggregator gathers a user's context from the repositories concurrently.
type ContextAggregator struct {
	profiles  ports.ProfileRepository
	messages  ports.MessageRepository
	insights  ports.InsightRepository
	visioning ports.VisioningRepository
	plans     ports.BusinessPlanRepository
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewContextAggregator creates a new context aggregator
func NewContextAggregator(
	profiles ports.ProfileRepository,
	messages ports.MessageRepository,
	insights ports.InsightRepository,
	visioning ports.VisioningRepository,
	plans ports.BusinessPlanRepository,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ContextAggregator {
	return &ContextAggregator{
		profiles:  profiles,
		messages:  messages,
		insights:  insights,
		visioning: visioning,
		plans:     plans,
		metrics:   metrics,
		logger:    logger,
	}
}

// Aggregate fetches all nine slices in parallel. A failing slice is logged and
// left empty; Aggregate itself only fails on an empty email.
func (a *ContextAggregator) Aggregate(ctx context.Context, email string) (*UserContext, error) {
	email = entities.NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}

	uc := &UserContext{
		Email:              email,
		RecentMessages:     []*entities.Message{},
		RecentInsights:     []*entities.InsightEntry{},
		VisioningDocuments: []*entities.VisioningDocument{},
		BusinessPlans:      []*entities.BusinessPlan{},
		DocumentInsights:   []*entities.InsightEntry{},
		Degraded:           []string{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	// Each slice absorbs its own error so one failure never cancels the others.
	fetch := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				a.logger.Warn("context slice unavailable",
					zap.String("slice", name),
					zap.String("email", email),
					zap.Error(err))
				if a.metrics != nil {
					a.metrics.DegradedSlices.WithLabelValues(name).Inc()
				}
				mu.Lock()
				uc.Degraded = append(uc.Degraded, name)
				mu.Unlock()
			}
			return nil
		})
	}

	fetch(SliceProfile, func(ctx context.Context) error {
		p, err := a.profiles.GetByEmail(ctx, email)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return nil
			}
			return err
		}
		uc.Profile = p
		return nil
	})
	fetch(SliceRecentMessages, func(ctx context.Context) error {
		msgs, err := a.messages.Recent(ctx, email, RecentMessageLimit)
		if err == nil {
			uc.RecentMessages = msgs
		}
		return err
	})
	fetch(SliceRecentInsights, func(ctx context.Context) error {
		ins, err := a.insights.Recent(ctx, email, RecentInsightLimit)
		if err == nil {
			uc.RecentInsights = ins
		}
		return err
	})
	fetch(SliceVisioning, func(ctx context.Context) error {
		docs, err := a.visioning.ListByEmail(ctx, email, DocumentLimit)
		if err == nil {
			uc.VisioningDocuments = docs
		}
		return err
	})
	fetch(SliceBusinessPlans, func(ctx context.Context) error {
		plans, err := a.plans.ListByEmail(ctx, email, DocumentLimit)
		if err == nil {
			uc.BusinessPlans = plans
		}
		return err
	})
	fetch(SliceMessageCount, func(ctx context.Context) error {
		n, err := a.messages.Count(ctx, email)
		if err == nil {
			uc.MessageCount = n
		}
		return err
	})
	fetch(SliceInsightCount, func(ctx context.Context) error {
		n, err := a.insights.Count(ctx, email)
		if err == nil {
			uc.InsightCount = n
		}
		return err
	})
	fetch(SliceFirstMessage, func(ctx context.Context) error {
		first, err := a.messages.First(ctx, email)
		if err == nil && first != nil {
			at := first.CreatedAt
			uc.MemberSince = &at
		}
		return err
	})
	fetch(SliceDocumentInsights, func(ctx context.Context) error {
		ins, err := a.insights.RecentFromDocuments(ctx, email, DocumentInsightLimit)
		if err == nil {
			uc.DocumentInsights = ins
		}
		return err
	})

	_ = g.Wait()

	sort.Strings(uc.Degraded)
	return uc, nil
}

// Summary flattens the context into plain text for a prompt. Empty sections are omitted.
func (c *UserContext) Summary() string {
	var sections []string

	if p := c.Profile; p != nil {
		var lines []string
		addField(&lines, "Name", p.Name)
		addField(&lines, "Vision", p.Vision)
		addField(&lines, "Current state", p.CurrentState)
		addField(&lines, "Goals", p.Goals)
		if len(p.Tags) > 0 {
			addField(&lines, "Tags", strings.Join(p.Tags, ", "))
		}
		addField(&lines, "Essence", p.EssenceProfile)
		sections = appendSection(sections, "Profile", lines)
	}

	if c.MessageCount > 0 || c.InsightCount > 0 {
		lines := []string{
			fmt.Sprintf("Messages exchanged: %d", c.MessageCount),
			fmt.Sprintf("Insights recorded: %d", c.InsightCount),
		}
		if c.MemberSince != nil {
			lines = append(lines, "Member since: "+c.MemberSince.Format("2006-01-02"))
		}
		sections = appendSection(sections, "Activity", lines)
	}

	if len(c.RecentMessages) > 0 {
		lines := make([]string, 0, 2*len(c.RecentMessages))
		for i := len(c.RecentMessages) - 1; i >= 0; i-- {
			m := c.RecentMessages[i]
			lines = append(lines, "User: "+truncateRunes(m.UserText, summaryTextLimit))
			if m.AssistantText != "" {
				lines = append(lines, "Sol: "+truncateRunes(m.AssistantText, summaryTextLimit))
			}
		}
		sections = appendSection(sections, "Recent conversation", lines)
	}

	insights := mergeInsights(c.RecentInsights, c.DocumentInsights)
	if len(insights) > 0 {
		lines := make([]string, 0, len(insights))
		for _, in := range insights {
			lines = append(lines, "- "+truncateRunes(in.Note, summaryTextLimit))
		}
		sections = appendSection(sections, "Known insights", lines)
	}

	if len(c.VisioningDocuments) > 0 {
		var lines []string
		for _, d := range c.VisioningDocuments {
			text := d.Summary
			if text == "" {
				text = d.Vision
			}
			if text != "" {
				lines = append(lines, "- "+truncateRunes(text, summaryTextLimit))
			}
		}
		sections = appendSection(sections, "Visioning", lines)
	}

	if len(c.BusinessPlans) > 0 {
		var lines []string
		for _, p := range c.BusinessPlans {
			if p.ExecutiveSummary != "" {
				lines = append(lines, "- "+truncateRunes(p.ExecutiveSummary, summaryTextLimit))
			}
			if p.TargetMarket != "" {
				lines = append(lines, "  Target market: "+truncateRunes(p.TargetMarket, summaryTextLimit))
			}
		}
		sections = appendSection(sections, "Business plans", lines)
	}

	return strings.Join(sections, "\n\n")
}

func addField(lines *[]string, label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*lines = append(*lines, label+": "+truncateRunes(value, summaryTextLimit))
	}
}

func appendSection(sections []string, title string, lines []string) []string {
	if len(lines) == 0 {
		return sections
	}
	return append(sections, "## "+title+"\n"+strings.Join(lines, "\n"))
}

// mergeInsights returns recent followed by any document insights not already present.
func mergeInsights(recent, fromDocs []*entities.InsightEntry) []*entities.InsightEntry {
	seen := make(map[string]bool, len(recent))
	out := make([]*entities.InsightEntry, 0, len(recent)+len(fromDocs))
	for _, in := range append(append([]*entities.InsightEntry{}, recent...), fromDocs...) {
		if seen[in.ID] {
			continue
		}
		seen[in.ID] = true
		out = append(out, in)
	}
	return out
}

func truncateRunes(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

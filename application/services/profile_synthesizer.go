package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	"sol-backend/domain/events"
	domainservices "sol-backend/domain/services"
	pkgerrors "sol-backend/pkg/errors"
	"sol-backend/pkg/observability"
	"sol-backend/pkg/utils"

	"go.uber.org/zap"
)

const synthesisSystemPrompt = "You are Sol, a business coach who keeps a concise, honest portrait of each client."

// SynthesisConfig holds the trigger thresholds and output bounds.
type SynthesisConfig struct {
	MaxAge          time.Duration
	MinNewInsights  int
	EssenceMaxWords int
	Temperature     float64
	MaxTokens       int
}

// DefaultSynthesisConfig returns the default synthesis settings
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		MaxAge:          7 * 24 * time.Hour,
		MinNewInsights:  5,
		EssenceMaxWords: 250,
		Temperature:     0.5,
		MaxTokens:       700,
	}
}

// SynthesisResult reports what a synthesis check did.
type SynthesisResult struct {
	Ran          bool   `json:"ran"`
	Reason       string `json:"reason"`
	Essence      string `json:"essence,omitempty"`
	InsightCount int    `json:"insight_count"`
}

// SweepReport summarizes a run over all profiles.
type SweepReport struct {
	Checked     int `json:"checked"`
	Synthesized int `json:"synthesized"`
	Failed      int `json:"failed"`
}

// ProfileSynthesizer regenerates a profile's essence from all of its insights
// when the essence is stale or enough new insights have accumulated.
type ProfileSynthesizer struct {
	profiles  ports.ProfileRepository
	insights  ports.InsightRepository
	llm       ports.LLMProvider
	publisher ports.EventPublisher
	policy    domainservices.SynthesisPolicy
	config    SynthesisConfig
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewProfileSynthesizer creates a new profile synthesizer
func NewProfileSynthesizer(
	profiles ports.ProfileRepository,
	insights ports.InsightRepository,
	llm ports.LLMProvider,
	publisher ports.EventPublisher,
	config SynthesisConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ProfileSynthesizer {
	return &ProfileSynthesizer{
		profiles:  profiles,
		insights:  insights,
		llm:       llm,
		publisher: publisher,
		policy: domainservices.SynthesisPolicy{
			MaxAge:         config.MaxAge,
			MinNewInsights: config.MinNewInsights,
		},
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// SynthesizeIfDue runs synthesis for email when the policy says so. force
// skips the freshness checks but never runs for a user without insights.
func (s *ProfileSynthesizer) SynthesizeIfDue(ctx context.Context, email string, force bool) (*SynthesisResult, error) {
	email = entities.NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil && !pkgerrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if err != nil {
		profile = nil
	}

	total, err := s.insights.Count(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to count insights: %w", err)
	}

	state := domainservices.SynthesisState{TotalInsights: total}
	if profile != nil && profile.LastSynthesisAt != nil {
		state.LastSynthesisAt = profile.LastSynthesisAt
		state.NewInsights, err = s.insights.CountSince(ctx, email, *profile.LastSynthesisAt)
		if err != nil {
			return nil, fmt.Errorf("failed to count new insights: %w", err)
		}
	}

	now := time.Now().UTC()
	run, reason := s.policy.Decide(state, now, force)
	if s.metrics != nil {
		s.metrics.Syntheses.WithLabelValues(strconv.FormatBool(run), string(reason)).Inc()
	}

	result := &SynthesisResult{Ran: run, Reason: string(reason), InsightCount: total}
	if !run {
		s.logger.Debug("Synthesis skipped", synthesisLogFields(email, reason, state, now)...)
		return result, nil
	}

	all, err := s.insights.Recent(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load insights: %w", err)
	}
	notes := make([]string, 0, len(all))
	for _, in := range all {
		notes = append(notes, in.Note)
	}

	response, err := s.llm.Complete(ctx, buildSynthesisPrompt(profile, notes, s.config.EssenceMaxWords), ports.CompletionOptions{
		System:      synthesisSystemPrompt,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize profile: %w", err)
	}
	essence := TruncateWords(strings.TrimSpace(response), s.config.EssenceMaxWords)

	if profile == nil {
		if profile, err = getOrCreateProfile(ctx, s.profiles, email, s.logger); err != nil {
			return nil, err
		}
	}
	profile.RecordSynthesis(essence, now)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save essence profile: %w", err)
	}

	result.Essence = essence
	s.logger.Info("Profile synthesized", synthesisLogFields(email, reason, state, now)...)

	event := events.NewProfileSynthesized(email, string(reason), total, now)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("eventType", event.GetEventType()), zap.Error(err))
	}

	return result, nil
}

// SweepAll checks every profile. Per-profile failures are logged and counted.
func (s *ProfileSynthesizer) SweepAll(ctx context.Context) (*SweepReport, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	report := &SweepReport{}
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Checked++
		res, err := s.SynthesizeIfDue(ctx, p.Email, false)
		if err != nil {
			report.Failed++
			s.logger.Error("Synthesis failed", zap.String("email", p.Email), zap.Error(err))
			continue
		}
		if res.Ran {
			report.Synthesized++
		}
	}

	s.logger.Info("Synthesis sweep finished",
		zap.Int("checked", report.Checked),
		zap.Int("synthesized", report.Synthesized),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func buildSynthesisPrompt(profile *entities.Profile, notes []string, maxWords int) string {
	var sb strings.Builder
	sb.WriteString("Below are observations collected about a client, grouped by theme.\n")
	if profile != nil {
		if profile.Name != "" {
			fmt.Fprintf(&sb, "Client name: %s\n", profile.Name)
		}
		if profile.Vision != "" {
			fmt.Fprintf(&sb, "Stated vision: %s\n", profile.Vision)
		}
		if profile.EssenceProfile != "" {
			fmt.Fprintf(&sb, "\nPrevious portrait:\n%s\n", profile.EssenceProfile)
		}
	}

	buckets := domainservices.CategorizeInsights(notes)
	for _, theme := range domainservices.Themes {
		if len(buckets[theme]) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", theme)
		for _, note := range buckets[theme] {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
	}

	fmt.Fprintf(&sb, "\nWrite one narrative portrait of this client in at most %d words. "+
		"Describe who they are, what drives them, how they work and what holds them back. "+
		"Use plain prose without headings or lists.", maxWords)
	return sb.String()
}

// TruncateWords keeps at most n whitespace-separated words of s. Text within
// the limit is returned unchanged.
func TruncateWords(s string, n int) string {
	if n <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}

func synthesisLogFields(email string, reason domainservices.SynthesisReason, state domainservices.SynthesisState, now time.Time) []zap.Field {
	fields := []zap.Field{
		zap.String("email", email),
		zap.String("reason", string(reason)),
		zap.Int("insights", state.TotalInsights),
		zap.Int("new_insights", state.NewInsights),
	}
	if state.LastSynthesisAt != nil {
		fields = append(fields, zap.Float64("essence_age_days", utils.DaysSince(*state.LastSynthesisAt, now)))
	}
	return fields
}

package fixtures

import (
	"time"

	"sol-backend/domain/core/entities"
)

// DefaultEmail is the user every builder targets unless told otherwise.
const DefaultEmail = "test-user@example.com"

// ProfileBuilder helps create test profiles with default values
type ProfileBuilder struct {
	email           string
	name            string
	vision          string
	goals           string
	tags            []string
	essence         string
	lastSynthesisAt *time.Time
}

func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{
		email: DefaultEmail,
		name:  "Test User",
		tags:  []string{"test"},
	}
}

func (b *ProfileBuilder) WithEmail(email string) *ProfileBuilder {
	b.email = email
	return b
}

func (b *ProfileBuilder) WithName(name string) *ProfileBuilder {
	b.name = name
	return b
}

func (b *ProfileBuilder) WithVision(vision string) *ProfileBuilder {
	b.vision = vision
	return b
}

func (b *ProfileBuilder) WithGoals(goals string) *ProfileBuilder {
	b.goals = goals
	return b
}

func (b *ProfileBuilder) WithTags(tags ...string) *ProfileBuilder {
	b.tags = tags
	return b
}

func (b *ProfileBuilder) WithEssence(essence string) *ProfileBuilder {
	b.essence = essence
	return b
}

func (b *ProfileBuilder) SynthesizedAt(at time.Time) *ProfileBuilder {
	at = at.UTC()
	b.lastSynthesisAt = &at
	return b
}

func (b *ProfileBuilder) Build() (*entities.Profile, error) {
	p, err := entities.NewProfile(b.email)
	if err != nil {
		return nil, err
	}
	p.Name = b.name
	p.Vision = b.vision
	p.Goals = b.goals
	p.Tags = entities.MergeTags(nil, b.tags)
	p.EssenceProfile = b.essence
	p.LastSynthesisAt = b.lastSynthesisAt
	return p, nil
}

func (b *ProfileBuilder) MustBuild() *entities.Profile {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// InsightBuilder helps create test insights
type InsightBuilder struct {
	email     string
	note      string
	tags      []string
	source    entities.InsightSource
	createdAt time.Time
}

func NewInsightBuilder() *InsightBuilder {
	return &InsightBuilder{
		email:  DefaultEmail,
		note:   "Works best with a clear weekly plan",
		source: entities.SourceChat,
	}
}

func (b *InsightBuilder) WithEmail(email string) *InsightBuilder {
	b.email = email
	return b
}

func (b *InsightBuilder) WithNote(note string) *InsightBuilder {
	b.note = note
	return b
}

func (b *InsightBuilder) WithTags(tags ...string) *InsightBuilder {
	b.tags = tags
	return b
}

func (b *InsightBuilder) WithSource(source entities.InsightSource) *InsightBuilder {
	b.source = source
	return b
}

func (b *InsightBuilder) CreatedAt(at time.Time) *InsightBuilder {
	b.createdAt = at
	return b
}

func (b *InsightBuilder) Build() (*entities.InsightEntry, error) {
	in, err := entities.NewInsightEntry(b.email, b.note, b.tags, b.source)
	if err != nil {
		return nil, err
	}
	if !b.createdAt.IsZero() {
		in.CreatedAt = b.createdAt.UTC()
	}
	return in, nil
}

func (b *InsightBuilder) MustBuild() *entities.InsightEntry {
	in, err := b.Build()
	if err != nil {
		panic(err)
	}
	return in
}

// MessageBuilder helps create test chat turns
type MessageBuilder struct {
	email     string
	userText  string
	reply     string
	createdAt time.Time
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{
		email:    DefaultEmail,
		userText: "How should I plan my week?",
		reply:    "Start with the one outcome that matters most.",
	}
}

func (b *MessageBuilder) WithEmail(email string) *MessageBuilder {
	b.email = email
	return b
}

func (b *MessageBuilder) WithText(userText, reply string) *MessageBuilder {
	b.userText = userText
	b.reply = reply
	return b
}

func (b *MessageBuilder) CreatedAt(at time.Time) *MessageBuilder {
	b.createdAt = at
	return b
}

func (b *MessageBuilder) MustBuild() *entities.Message {
	m, err := entities.NewMessage(b.email, b.userText, b.reply)
	if err != nil {
		panic(err)
	}
	if !b.createdAt.IsZero() {
		m.CreatedAt = b.createdAt.UTC()
	}
	return m
}

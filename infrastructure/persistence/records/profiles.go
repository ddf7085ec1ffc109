package records

import (
	"context"
	"fmt"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	pkgerrors "sol-backend/pkg/errors"
)

type profileRow struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	Vision          string  `json:"vision"`
	CurrentState    string  `json:"current_state"`
	Goals           string  `json:"goals"`
	Tags            string  `json:"tags"`
	EssenceProfile  string  `json:"essence_profile"`
	LastSynthesisAt *string `json:"last_synthesis_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func newProfileRow(p *entities.Profile) profileRow {
	return profileRow{
		ID:              p.ID,
		Email:           p.Email,
		Name:            p.Name,
		Vision:          p.Vision,
		CurrentState:    p.CurrentState,
		Goals:           p.Goals,
		Tags:            entities.JoinTags(p.Tags),
		EssenceProfile:  p.EssenceProfile,
		LastSynthesisAt: formatTimePtr(p.LastSynthesisAt),
		CreatedAt:       formatTime(p.CreatedAt),
		UpdatedAt:       formatTime(p.UpdatedAt),
	}
}

func (r profileRow) entity() *entities.Profile {
	return &entities.Profile{
		ID:              r.ID,
		Email:           r.Email,
		Name:            r.Name,
		Vision:          r.Vision,
		CurrentState:    r.CurrentState,
		Goals:           r.Goals,
		Tags:            entities.ParseTags(r.Tags),
		EssenceProfile:  r.EssenceProfile,
		LastSynthesisAt: parseTimePtr(r.LastSynthesisAt),
		CreatedAt:       parseTime(r.CreatedAt),
		UpdatedAt:       parseTime(r.UpdatedAt),
	}
}

// ProfileRepository implements ports.ProfileRepository
type ProfileRepository struct {
	store ports.RecordStore
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(store ports.RecordStore) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// GetByEmail returns the first profile stored for email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*entities.Profile, error) {
	email = entities.NormalizeEmail(email)
	recs, err := r.store.Find(ctx, ports.TableProfiles, ports.Where("email", email).OrderBy("created_at", false).Take(1))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("profile %s: %w", email, pkgerrors.ErrRecordNotFound)
	}

	var row profileRow
	if err := fromRecord(recs[0], &row); err != nil {
		return nil, err
	}
	return row.entity(), nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, p *entities.Profile) error {
	rec, err := toRecord(newProfileRow(p))
	if err != nil {
		return err
	}
	_, err = r.store.Create(ctx, ports.TableProfiles, rec)
	return err
}

// Update patches every mutable column of the profile
func (r *ProfileRepository) Update(ctx context.Context, p *entities.Profile) error {
	rec, err := toRecord(newProfileRow(p))
	if err != nil {
		return err
	}
	delete(rec, "id")
	delete(rec, "email")
	delete(rec, "created_at")

	_, err = r.store.Update(ctx, ports.TableProfiles, p.ID, rec)
	return err
}

// List returns all profiles
func (r *ProfileRepository) List(ctx context.Context) ([]*entities.Profile, error) {
	recs, err := r.store.Find(ctx, ports.TableProfiles, ports.Query{}.OrderBy("created_at", false))
	if err != nil {
		return nil, err
	}

	profiles := make([]*entities.Profile, 0, len(recs))
	for _, rec := range recs {
		var row profileRow
		if err := fromRecord(rec, &row); err != nil {
			return nil, err
		}
		profiles = append(profiles, row.entity())
	}
	return profiles, nil
}

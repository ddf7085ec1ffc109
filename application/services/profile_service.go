package services

import (
	"context"
	"fmt"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	pkgerrors "sol-backend/pkg/errors"

	"go.uber.org/zap"
)

// ProfileService reads profiles and creates them on first contact.
type ProfileService struct {
	profiles ports.ProfileRepository
	logger   *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ports.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// Get returns the profile for email, or a not-found error
func (s *ProfileService) Get(ctx context.Context, email string) (*entities.Profile, error) {
	if entities.NormalizeEmail(email) == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}
	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewNotFoundError("profile").WithCause(err)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetOrCreate finds the profile for email, creating an empty one if absent.
// Find-then-create is not atomic; concurrent first requests may create two rows.
func (s *ProfileService) GetOrCreate(ctx context.Context, email string) (*entities.Profile, error) {
	return getOrCreateProfile(ctx, s.profiles, email, s.logger)
}

func getOrCreateProfile(ctx context.Context, repo ports.ProfileRepository, email string, logger *zap.Logger) (*entities.Profile, error) {
	p, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return p, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p, err = entities.NewProfile(email)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	logger.Info("Profile created", zap.String("email", p.Email))
	return p, nil
}

package service

import (
	"context"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
)

// ProfileService coordinates profile reads and self-service updates.
type ProfileService interface {
	CreateBlank(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, params repository.UpdateProfileParams) (*domain.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

// CreateBlank inserts the empty profile row every new account starts with.
func (s *profileService) CreateBlank(ctx context.Context, userID string) error {
	return s.profiles.Create(ctx, userID)
}

func (s *profileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetByUser(ctx, userID)
}

func (s *profileService) Update(ctx context.Context, userID string, params repository.UpdateProfileParams) (*domain.Profile, error) {
	return s.profiles.Update(ctx, userID, params)
}

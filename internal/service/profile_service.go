package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"medcamp/internal/auth"
	apperrors "medcamp/internal/errors"
	"medcamp/internal/model"
	"medcamp/internal/repository"
)

// ProfileService manages the caller's own display profile.
type ProfileService interface {
	Get(ctx context.Context, caller auth.Identity) (*model.Profile, error)
	Update(ctx context.Context, caller auth.Identity, fullName, organization string) (*model.Profile, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

// NewProfileService builds a ProfileService.
func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Get(ctx context.Context, caller auth.Identity) (*model.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, caller auth.Identity, fullName, organization string) (*model.Profile, error) {
	profile := &model.Profile{
		UserID:       caller.UserID,
		FullName:     strings.TrimSpace(fullName),
		Organization: strings.TrimSpace(organization),
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

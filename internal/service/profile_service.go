package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ovoloshina/shopbot-backend/internal/model"
	"github.com/ovoloshina/shopbot-backend/internal/repository"
)

// ProfileService backs the intake questionnaire. The front end calls Ensure
// on every first contact, then SetField once per answered question.
type ProfileService interface {
	Ensure(ctx context.Context, userID int64, handle string) (*model.Profile, error)
	SetField(ctx context.Context, userID int64, field, value string) error
	Get(ctx context.Context, userID int64) (*model.Profile, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

// Ensure creates the profile if missing. A duplicate create is treated as
// already satisfied, so the bot can re-send /start freely.
func (s *profileService) Ensure(ctx context.Context, userID int64, handle string) (*model.Profile, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.New("handle is required")
	}
	p, err := s.repo.Create(ctx, userID, handle)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, repository.ErrDuplicateUser) {
		return s.repo.Get(ctx, userID)
	}
	return nil, err
}

func (s *profileService) SetField(ctx context.Context, userID int64, field, value string) error {
	return s.repo.SetField(ctx, userID, model.ProfileField(field), strings.TrimSpace(value))
}

func (s *profileService) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	return s.repo.Get(ctx, userID)
}

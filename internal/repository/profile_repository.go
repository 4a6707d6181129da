package repository

import (
	"context"
	"errors"

	"github.com/ovoloshina/shopbot-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrDuplicateUser = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrUnknownField  = errors.New("unknown profile field")
)

// ProfileRepository stores one intake profile per chat user. Fields are
// filled one at a time as the front end walks the questionnaire;
// last-write-wins per field is acceptable because a single user's intake is
// sequential.
type ProfileRepository interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, userID int64, handle string) (*model.Profile, error)
	SetField(ctx context.Context, userID int64, field model.ProfileField, value string) error
	Get(ctx context.Context, userID int64) (*model.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *profileRepository) Create(ctx context.Context, userID int64, handle string) (*model.Profile, error) {
	p := &model.Profile{UserID: userID, Handle: handle}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) SetField(ctx context.Context, userID int64, field model.ProfileField, value string) error {
	column, ok := model.ProfileColumns[field]
	if !ok {
		return ErrUnknownField
	}
	exists, err := r.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Update(column, value).Error
}

func (r *profileRepository) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &p, nil
}

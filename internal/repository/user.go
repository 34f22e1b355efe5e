package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tajoco/contacts/internal/model"
	ctxutil "github.com/tajoco/contacts/pkg/context"
	"github.com/tajoco/contacts/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail finds a user by email, (nil, nil) when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByEmail")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved by email").
		String("email", email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

// UpdateRefreshToken replaces the user's stored refresh token, nil clears it
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID uint, token *string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateRefreshToken")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update refresh token").
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Refresh token updated").
		Uint("user_id", userID).
		Bool("has_token", token != nil).
		Log()

	return nil
}

// ConfirmEmail flips the confirmed flag for the user with the given email
func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "ConfirmEmail")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("confirmed", true)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to confirm email").
			String("email", email).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Email confirmed").
		String("email", email).
		Log()

	return nil
}

// UpdateAvatar stores a new avatar URL for the user
func (r *UserRepository) UpdateAvatar(ctx context.Context, email string, url string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateAvatar")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("avatar", url)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update avatar").
			String("email", email).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

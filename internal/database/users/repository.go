// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByLogin(ctx, "alice")
package users

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookexchange/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user. A taken username or email yields gorm.ErrDuplicatedKey
// when the connection translates errors.
func (r *Repository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByLogin retrieves a user by username or email.
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either value is taken.
func (r *Repository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// GetUserByTokenHash retrieves a user by the SHA-256 hash of their API token.
func (r *Repository) GetUserByTokenHash(ctx context.Context, tokenHash string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetTokenHash stores a new token hash. Returns gorm.ErrRecordNotFound when
// the user does not exist.
func (r *Repository) SetTokenHash(ctx context.Context, userID uint, tokenHash string, createdAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"token_hash":       tokenHash,
		"token_created_at": createdAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordLogin resets the failed login counter and stamps the login time.
func (r *Repository) RecordLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"last_login_at":      at,
		"failed_login_count": 0,
		"locked_until":       nil,
	}).Error
}

// RecordFailedLogin stores the failed attempt count and an optional lock.
func (r *Repository) RecordFailedLogin(ctx context.Context, userID uint, count int, lockedUntil *time.Time) error {
	updates := map[string]any{"failed_login_count": count}
	if lockedUntil != nil {
		updates["locked_until"] = *lockedUntil
	}
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Updates(updates).Error
}

// CountUsers returns the number of registered users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}

// Package interests provides database operations for book interests.
//
// # Interface Implementation
//
//	var _ services.InterestStore = (*Repository)(nil)
package interests

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookexchange/internal/entities"
)

// Repository handles all book interest database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new interests repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateInterest inserts a pending interest.
// A second interest by the same user on the same book yields gorm.ErrDuplicatedKey.
func (r *Repository) CreateInterest(ctx context.Context, interest *entities.BookInterest) error {
	return r.db.WithContext(ctx).Omit("Book").Create(interest).Error
}

// GetInterestByID retrieves an interest with its book preloaded.
func (r *Repository) GetInterestByID(ctx context.Context, id uint) (*entities.BookInterest, error) {
	var interest entities.BookInterest
	err := r.db.WithContext(ctx).Preload("Book").First(&interest, id).Error
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

// FindInterestsForOwner returns interests on every book owned by ownerID,
// newest first.
func (r *Repository) FindInterestsForOwner(ctx context.Context, ownerID uint) ([]entities.BookInterest, error) {
	var interests []entities.BookInterest
	err := r.db.WithContext(ctx).
		Joins("JOIN books ON books.id = book_interests.book_id").
		Where("books.owner_id = ?", ownerID).
		Order("book_interests.id DESC").
		Find(&interests).Error
	return interests, err
}

// MarkChosen flags an interest as the chosen recipient of bookID. It returns
// false without error when another interest on the same book is already chosen.
func (r *Repository) MarkChosen(ctx context.Context, interestID, bookID uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE book_interests SET chosen_by_owner = ?, updated_at = ?
		 WHERE id = ? AND NOT EXISTS (
			SELECT 1 FROM book_interests other
			WHERE other.book_id = ? AND other.chosen_by_owner = ? AND other.id <> ?
		 )`,
		true, time.Now(), interestID, bookID, true, interestID,
	)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

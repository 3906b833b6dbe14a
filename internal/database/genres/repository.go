// Package genres provides database operations for book genres.
//
// Genres are looked up by exact name and created on first use. The unique
// index on genres.name makes concurrent creation of the same name safe.
//
// # Usage
//
//	repo := genres.NewRepository(db)
//	genre, err := repo.GetOrCreateGenre(ctx, "Science Fiction")
package genres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookexchange/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateGenre returns the genre with the given name, creating it if needed.
// A concurrent insert of the same name resolves to the existing row.
func (r *Repository) GetOrCreateGenre(ctx context.Context, name string) (*entities.Genre, error) {
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&entities.Genre{Name: name}).Error
	if err != nil {
		return nil, err
	}

	var genre entities.Genre
	if err := db.Where("name = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// ListGenres returns all genres ordered by name.
func (r *Repository) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

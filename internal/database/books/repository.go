// Package books provides database operations for exchange books.
//
// # Interface Implementation
//
//	var _ services.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	available, err := repo.FindAvailableBooks(ctx, entities.BookFilter{Genre: "sci"})
package books

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookexchange/internal/entities"
)

// updatableColumns are written on every owner update. Zero values included.
var updatableColumns = []string{
	"Title", "Author", "Description", "Available", "Location", "Condition", "Image",
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a book and links its already persisted genres.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Omit("Genres.*").Create(book).Error
}

// GetBookByID retrieves a book with its genres.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Preload("Genres").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindAvailableBooks returns available books matching every set filter field,
// newest first.
func (r *Repository) FindAvailableBooks(ctx context.Context, filter entities.BookFilter) ([]entities.Book, error) {
	query := r.db.WithContext(ctx).Preload("Genres").Where("books.available = ?", true)

	if filter.Author != "" {
		query = query.Where("books.author = ?", filter.Author)
	}
	if filter.Condition != "" {
		query = query.Where("books.condition = ?", filter.Condition)
	}
	if filter.Location != "" {
		query = query.Where("books.location = ?", filter.Location)
	}
	if filter.Genre != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Genre)) + "%"
		tagged := r.db.Table("book_genres").
			Select("book_genres.book_id").
			Joins("JOIN genres ON genres.id = book_genres.genre_id").
			Where(`LOWER(genres.name) LIKE ? ESCAPE '\'`, pattern)
		query = query.Where("books.id IN (?)", tagged)
	}

	var books []entities.Book
	err := query.Order("books.id DESC").Find(&books).Error
	return books, err
}

// FindBooksByOwner returns every book of an owner regardless of availability,
// newest first.
func (r *Repository) FindBooksByOwner(ctx context.Context, ownerID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&books).Error
	return books, err
}

// UpdateBook writes the editable columns of book. When replaceGenres is set the
// genre links are replaced by book.Genres in the same transaction.
func (r *Repository) UpdateBook(ctx context.Context, book *entities.Book, replaceGenres bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(book).Select(updatableColumns).Updates(book)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if !replaceGenres {
			return nil
		}

		assoc := tx.Model(book).Association("Genres")
		if len(book.Genres) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(book.Genres)
	})
}

// DeleteBook removes a book together with its genre links and interests.
func (r *Repository) DeleteBook(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookInterest{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

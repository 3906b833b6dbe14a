package services

import (
	"context"

	"github.com/mrlokans/bookexchange/internal/entities"
)

// GenreStore resolves genres by name.
type GenreStore interface {
	GetOrCreateGenre(ctx context.Context, name string) (*entities.Genre, error)
	ListGenres(ctx context.Context) ([]entities.Genre, error)
}

// BookStore persists books. Lookups of missing rows return gorm.ErrRecordNotFound.
type BookStore interface {
	CreateBook(ctx context.Context, book *entities.Book) error
	GetBookByID(ctx context.Context, id uint) (*entities.Book, error)
	FindAvailableBooks(ctx context.Context, filter entities.BookFilter) ([]entities.Book, error)
	FindBooksByOwner(ctx context.Context, ownerID uint) ([]entities.Book, error)
	UpdateBook(ctx context.Context, book *entities.Book, replaceGenres bool) error
	DeleteBook(ctx context.Context, id uint) error
}

// InterestStore persists book interests.
type InterestStore interface {
	CreateInterest(ctx context.Context, interest *entities.BookInterest) error
	GetInterestByID(ctx context.Context, id uint) (*entities.BookInterest, error)
	FindInterestsForOwner(ctx context.Context, ownerID uint) ([]entities.BookInterest, error)
	// MarkChosen returns false when another interest on the book is already chosen.
	MarkChosen(ctx context.Context, interestID, bookID uint) (bool, error)
}

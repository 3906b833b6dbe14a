package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookexchange/internal/entities"
)

const (
	maxTitleLength     = 255
	maxTextLength      = 255
	maxConditionLength = 64
	maxImageLength     = 1024
	maxGenreNameLength = 100
)

// GenreInput names a genre. Genres are resolved by name.
type GenreInput struct {
	Name string `json:"name"`
}

// BookInput is the payload for creating a book. Owner is never read from it.
type BookInput struct {
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Description string       `json:"description"`
	Available   *bool        `json:"available"`
	Location    string       `json:"location"`
	Condition   string       `json:"condition"`
	Image       string       `json:"image"`
	Genres      []GenreInput `json:"genres"`
}

// BookPatch carries the fields to change on a book. Nil fields are kept.
// A non-nil Genres replaces the whole set.
type BookPatch struct {
	Title       *string       `json:"title"`
	Author      *string       `json:"author"`
	Description *string       `json:"description"`
	Available   *bool         `json:"available"`
	Location    *string       `json:"location"`
	Condition   *string       `json:"condition"`
	Image       *string       `json:"image"`
	Genres      *[]GenreInput `json:"genres"`
}

// CatalogService decides who may see and change books.
type CatalogService struct {
	books  BookStore
	genres GenreStore
}

func NewCatalogService(books BookStore, genres GenreStore) *CatalogService {
	return &CatalogService{books: books, genres: genres}
}

// ListCatalog returns available books matching filter, newest first.
// Unavailable books are never listed, even for their owner.
func (s *CatalogService) ListCatalog(ctx context.Context, id Identity, filter entities.BookFilter) ([]entities.Book, error) {
	if err := Authorize(id, ActionRead, 0); err != nil {
		return nil, err
	}
	books, err := s.books.FindAvailableBooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return books, nil
}

// ListMine returns every book owned by the caller, newest first.
func (s *CatalogService) ListMine(ctx context.Context, id Identity) ([]entities.Book, error) {
	if err := Authorize(id, ActionCreate, 0); err != nil {
		return nil, err
	}
	books, err := s.books.FindBooksByOwner(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list own books: %w", err)
	}
	return books, nil
}

// GetBook returns a single book by id, whatever its availability.
func (s *CatalogService) GetBook(ctx context.Context, id Identity, bookID uint) (*entities.Book, error) {
	if err := Authorize(id, ActionRead, 0); err != nil {
		return nil, err
	}
	return s.loadBook(ctx, bookID)
}

// CreateBook lists a new book owned by the caller.
func (s *CatalogService) CreateBook(ctx context.Context, id Identity, input BookInput) (*entities.Book, error) {
	if err := Authorize(id, ActionCreate, 0); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if err := validateBookFields(input.Title, input.Author, input.Location, input.Condition, input.Image); err != nil {
		return nil, err
	}
	names, err := normalizeGenreNames(input.Genres)
	if err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, names)
	if err != nil {
		return nil, err
	}

	book := &entities.Book{
		OwnerID:     id.UserID,
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		Available:   true,
		Location:    input.Location,
		Condition:   input.Condition,
		Image:       input.Image,
		Genres:      genres,
	}
	if input.Available != nil {
		book.Available = *input.Available
	}

	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// UpdateBook applies patch to a book owned by the caller.
func (s *CatalogService) UpdateBook(ctx context.Context, id Identity, bookID uint, patch BookPatch) (*entities.Book, error) {
	if !id.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	book, err := s.loadBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, ActionOwnerMutate, book.OwnerID); err != nil {
		return nil, err
	}

	applyPatch(book, patch)
	book.Title = strings.TrimSpace(book.Title)
	if err := validateBookFields(book.Title, book.Author, book.Location, book.Condition, book.Image); err != nil {
		return nil, err
	}

	replaceGenres := patch.Genres != nil
	if replaceGenres {
		names, err := normalizeGenreNames(*patch.Genres)
		if err != nil {
			return nil, err
		}
		genres, err := s.resolveGenres(ctx, names)
		if err != nil {
			return nil, err
		}
		book.Genres = genres
	}

	if err := s.books.UpdateBook(ctx, book, replaceGenres); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return book, nil
}

// DeleteBook removes a book owned by the caller along with its interests.
func (s *CatalogService) DeleteBook(ctx context.Context, id Identity, bookID uint) (*entities.Book, error) {
	if !id.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	book, err := s.loadBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, ActionOwnerMutate, book.OwnerID); err != nil {
		return nil, err
	}

	if err := s.books.DeleteBook(ctx, book.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}
	return book, nil
}

// ListGenres returns every known genre ordered by name.
func (s *CatalogService) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	genres, err := s.genres.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (s *CatalogService) loadBook(ctx context.Context, bookID uint) (*entities.Book, error) {
	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book %d: %w", bookID, err)
	}
	return book, nil
}

// resolveGenres gets or creates each named genre, in order.
func (s *CatalogService) resolveGenres(ctx context.Context, names []string) ([]entities.Genre, error) {
	genres := make([]entities.Genre, 0, len(names))
	for _, name := range names {
		genre, err := s.genres.GetOrCreateGenre(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve genre %q: %w", name, err)
		}
		genres = append(genres, *genre)
	}
	return genres, nil
}

// normalizeGenreNames trims names and drops repeats within one request.
func normalizeGenreNames(inputs []GenreInput) ([]string, error) {
	seen := make(map[string]bool, len(inputs))
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, invalid("genres", "genre name is required")
		}
		if len(name) > maxGenreNameLength {
			return nil, invalid("genres", fmt.Sprintf("genre name must be at most %d characters", maxGenreNameLength))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

func validateBookFields(title, author, location, condition, image string) error {
	if title == "" {
		return invalid("title", "title is required")
	}
	if len(title) > maxTitleLength {
		return invalid("title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if len(author) > maxTextLength {
		return invalid("author", fmt.Sprintf("author must be at most %d characters", maxTextLength))
	}
	if len(location) > maxTextLength {
		return invalid("location", fmt.Sprintf("location must be at most %d characters", maxTextLength))
	}
	if len(condition) > maxConditionLength {
		return invalid("condition", fmt.Sprintf("condition must be at most %d characters", maxConditionLength))
	}
	if len(image) > maxImageLength {
		return invalid("image", fmt.Sprintf("image must be at most %d characters", maxImageLength))
	}
	return nil
}

func applyPatch(book *entities.Book, patch BookPatch) {
	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.Description != nil {
		book.Description = *patch.Description
	}
	if patch.Available != nil {
		book.Available = *patch.Available
	}
	if patch.Location != nil {
		book.Location = *patch.Location
	}
	if patch.Condition != nil {
		book.Condition = *patch.Condition
	}
	if patch.Image != nil {
		book.Image = *patch.Image
	}
}

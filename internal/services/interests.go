package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookexchange/internal/entities"
)

// InterestInput is the payload for expressing interest. Only the book is
// accepted from the caller.
type InterestInput struct {
	Book uint `json:"book"`
}

// InterestService runs the interest workflow: non-owners ask for a book,
// the owner picks one of them.
type InterestService struct {
	books     BookStore
	interests InterestStore
}

func NewInterestService(books BookStore, interests InterestStore) *InterestService {
	return &InterestService{books: books, interests: interests}
}

// ExpressInterest records that the caller wants bookID.
func (s *InterestService) ExpressInterest(ctx context.Context, id Identity, bookID uint) (*entities.BookInterest, error) {
	if !id.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if bookID == 0 {
		return nil, invalid("book", "book is required")
	}

	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book %d: %w", bookID, err)
	}
	if err := Authorize(id, ActionNonOwnerCreate, book.OwnerID); err != nil {
		return nil, err
	}

	interest := &entities.BookInterest{
		BookID:           book.ID,
		InterestedUserID: id.UserID,
	}
	if err := s.interests.CreateInterest(ctx, interest); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: interest in book %d already expressed", ErrConflict, bookID)
		}
		return nil, fmt.Errorf("failed to create interest: %w", err)
	}
	return interest, nil
}

// ListForOwner returns interests on the caller's books, newest first.
func (s *InterestService) ListForOwner(ctx context.Context, id Identity) ([]entities.BookInterest, error) {
	if err := Authorize(id, ActionCreate, 0); err != nil {
		return nil, err
	}
	interests, err := s.interests.FindInterestsForOwner(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	return interests, nil
}

// ChooseRecipient marks interestID as the chosen recipient of its book.
// Only the book owner may choose; choosing the already chosen interest again
// succeeds, choosing a second interest on the same book is a conflict.
func (s *InterestService) ChooseRecipient(ctx context.Context, id Identity, interestID uint) (*entities.BookInterest, error) {
	if !id.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	interest, err := s.interests.GetInterestByID(ctx, interestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get interest %d: %w", interestID, err)
	}

	ownerID, err := s.bookOwner(ctx, interest)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, ActionOwnerMutate, ownerID); err != nil {
		return nil, err
	}

	if interest.ChosenByOwner {
		return interest, nil
	}

	ok, err := s.interests.MarkChosen(ctx, interest.ID, interest.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to choose recipient: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: book %d already has a chosen recipient", ErrConflict, interest.BookID)
	}

	interest.ChosenByOwner = true
	return interest, nil
}

func (s *InterestService) bookOwner(ctx context.Context, interest *entities.BookInterest) (uint, error) {
	if interest.Book != nil {
		return interest.Book.OwnerID, nil
	}
	book, err := s.books.GetBookByID(ctx, interest.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get book %d: %w", interest.BookID, err)
	}
	return book.OwnerID, nil
}

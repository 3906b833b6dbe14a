package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookexchange/internal/entities"
)

func bookIDs(books []entities.Book) []uint {
	ids := make([]uint, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestCatalogService_UnavailableBooksHiddenFromCatalog(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	visible, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{Title: "Visible"})
	require.NoError(t, err)
	hidden, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{Title: "Hidden", Available: boolPtr(false)})
	require.NoError(t, err)

	for _, id := range []Identity{Anonymous, UserIdentity(bob), UserIdentity(alice)} {
		catalog, err := env.catalog.ListCatalog(ctx, id, entities.BookFilter{})
		require.NoError(t, err)
		assert.Equal(t, []uint{visible.ID}, bookIDs(catalog))
	}

	mine, err := env.catalog.ListMine(ctx, UserIdentity(alice))
	require.NoError(t, err)
	assert.Equal(t, []uint{hidden.ID, visible.ID}, bookIDs(mine))
}

func TestCatalogService_AnonymousCatalogNewestFirst(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{Title: "First"})
	require.NoError(t, err)
	_, err = env.catalog.CreateBook(ctx, UserIdentity(bob), BookInput{Title: "Second", Available: boolPtr(false)})
	require.NoError(t, err)
	third, err := env.catalog.CreateBook(ctx, UserIdentity(carol), BookInput{Title: "Third"})
	require.NoError(t, err)

	catalog, err := env.catalog.ListCatalog(ctx, Anonymous, entities.BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{third.ID, first.ID}, bookIDs(catalog))
}

func TestCatalogService_CreateBook(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	t.Run("owner is the caller and available defaults to true", func(t *testing.T) {
		book, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{Title: "  Dune  ", Author: "Frank Herbert"})
		require.NoError(t, err)
		assert.Equal(t, alice, book.OwnerID)
		assert.Equal(t, "Dune", book.Title)
		assert.True(t, book.Available)

		stored, err := env.catalog.GetBook(ctx, Anonymous, book.ID)
		require.NoError(t, err)
		assert.Equal(t, alice, stored.OwnerID)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := env.catalog.CreateBook(ctx, Anonymous, BookInput{Title: "Dune"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{Title: "   "})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("blank genre name writes nothing", func(t *testing.T) {
		_, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{
			Title:  "Partial",
			Genres: []GenreInput{{Name: "Drama"}, {Name: " "}},
		})
		assert.ErrorIs(t, err, ErrValidation)

		var count int64
		env.db.Model(&entities.Genre{}).Where("name = ?", "Drama").Count(&count)
		assert.Zero(t, count)
		env.db.Model(&entities.Book{}).Where("title = ?", "Partial").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("genre name too long", func(t *testing.T) {
		_, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{
			Title:  "Long",
			Genres: []GenreInput{{Name: strings.Repeat("x", 101)}},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCatalogService_GenresAreShared(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{
		Title:  "Dune",
		Genres: []GenreInput{{Name: "Sci-Fi"}, {Name: "Sci-Fi"}},
	})
	require.NoError(t, err)
	second, err := env.catalog.CreateBook(ctx, UserIdentity(bob), BookInput{
		Title:  "Hyperion",
		Genres: []GenreInput{{Name: " Sci-Fi "}},
	})
	require.NoError(t, err)

	var count int64
	env.db.Model(&entities.Genre{}).Where("name = ?", "Sci-Fi").Count(&count)
	assert.Equal(t, int64(1), count)

	require.Len(t, first.Genres, 1)
	require.Len(t, second.Genres, 1)
	assert.Equal(t, first.Genres[0].ID, second.Genres[0].ID)

	all, err := env.catalog.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCatalogService_GenreFilter(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	scifi, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{
		Title:  "Dune",
		Genres: []GenreInput{{Name: "Science Fiction"}},
	})
	require.NoError(t, err)
	_, err = env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{
		Title:  "Emma",
		Genres: []GenreInput{{Name: "Romance"}},
	})
	require.NoError(t, err)

	result, err := env.catalog.ListCatalog(ctx, Anonymous, entities.BookFilter{Genre: "sci"})
	require.NoError(t, err)
	assert.Equal(t, []uint{scifi.ID}, bookIDs(result))
}

func TestCatalogService_UpdateBook(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	book, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{
		Title:     "Dune",
		Condition: "good",
		Genres:    []GenreInput{{Name: "Sci-Fi"}},
	})
	require.NoError(t, err)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := env.catalog.UpdateBook(ctx, UserIdentity(carol), book.ID, BookPatch{Title: strPtr("Stolen")})
		assert.ErrorIs(t, err, ErrForbidden)

		stored, err := env.catalog.GetBook(ctx, Anonymous, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", stored.Title)
	})

	t.Run("anonymous is unauthenticated", func(t *testing.T) {
		_, err := env.catalog.UpdateBook(ctx, Anonymous, book.ID, BookPatch{Title: strPtr("Nope")})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("owner partial update keeps other fields", func(t *testing.T) {
		updated, err := env.catalog.UpdateBook(ctx, UserIdentity(alice), book.ID, BookPatch{
			Title:     strPtr("Dune Messiah"),
			Available: boolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", updated.Title)
		assert.False(t, updated.Available)
		assert.Equal(t, "good", updated.Condition)
		assert.Equal(t, alice, updated.OwnerID)

		stored, err := env.catalog.GetBook(ctx, Anonymous, book.ID)
		require.NoError(t, err)
		assert.False(t, stored.Available)
		require.Len(t, stored.Genres, 1)
		assert.Equal(t, "Sci-Fi", stored.Genres[0].Name)
	})

	t.Run("genres replaced", func(t *testing.T) {
		genres := []GenreInput{{Name: "Classic"}, {Name: "Space Opera"}}
		_, err := env.catalog.UpdateBook(ctx, UserIdentity(alice), book.ID, BookPatch{Genres: &genres})
		require.NoError(t, err)

		stored, err := env.catalog.GetBook(ctx, Anonymous, book.ID)
		require.NoError(t, err)
		require.Len(t, stored.Genres, 2)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := env.catalog.UpdateBook(ctx, UserIdentity(alice), book.ID, BookPatch{Title: strPtr("")})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := env.catalog.UpdateBook(ctx, UserIdentity(alice), 999, BookPatch{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCatalogService_DeleteBook(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	book, err := env.catalog.CreateBook(ctx, UserIdentity(alice), BookInput{Title: "Dune"})
	require.NoError(t, err)
	_, err = env.interests.ExpressInterest(ctx, UserIdentity(bob), book.ID)
	require.NoError(t, err)

	_, err = env.catalog.DeleteBook(ctx, UserIdentity(bob), book.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.catalog.DeleteBook(ctx, Anonymous, book.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	deleted, err := env.catalog.DeleteBook(ctx, UserIdentity(alice), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", deleted.Title)

	_, err = env.catalog.GetBook(ctx, Anonymous, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := env.interests.ListForOwner(ctx, UserIdentity(alice))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCatalogService_ListMineRequiresIdentity(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.catalog.ListMine(context.Background(), Anonymous)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

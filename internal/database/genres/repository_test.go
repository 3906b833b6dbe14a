package genres

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookexchange/internal/database"
	"github.com/mrlokans/bookexchange/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "genres.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db), db
}

func TestRepository_GetOrCreateGenre_New(t *testing.T) {
	repo, _ := setupTestDB(t)

	genre, err := repo.GetOrCreateGenre(context.Background(), "Sci-Fi")

	require.NoError(t, err)
	assert.NotZero(t, genre.ID)
	assert.Equal(t, "Sci-Fi", genre.Name)
}

func TestRepository_GetOrCreateGenre_Existing(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	first, err := repo.GetOrCreateGenre(ctx, "Sci-Fi")
	require.NoError(t, err)

	second, err := repo.GetOrCreateGenre(ctx, "Sci-Fi")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&entities.Genre{}).Where("name = ?", "Sci-Fi").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetOrCreateGenre_CaseSensitive(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	upper, err := repo.GetOrCreateGenre(ctx, "Poetry")
	require.NoError(t, err)
	lower, err := repo.GetOrCreateGenre(ctx, "poetry")
	require.NoError(t, err)

	assert.NotEqual(t, upper.ID, lower.ID)
}

func TestRepository_GetOrCreateGenre_Concurrent(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]uint, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			genre, err := repo.GetOrCreateGenre(ctx, "Mystery")
			errs[i] = err
			if genre != nil {
				ids[i] = genre.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	db.Model(&entities.Genre{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_ListGenres(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Romance", "Fantasy", "Horror"} {
		_, err := repo.GetOrCreateGenre(ctx, name)
		require.NoError(t, err)
	}

	genres, err := repo.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 3)
	assert.Equal(t, "Fantasy", genres[0].Name)
	assert.Equal(t, "Horror", genres[1].Name)
	assert.Equal(t, "Romance", genres[2].Name)
}

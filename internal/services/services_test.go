package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookexchange/internal/database"
	"github.com/mrlokans/bookexchange/internal/database/books"
	"github.com/mrlokans/bookexchange/internal/database/genres"
	"github.com/mrlokans/bookexchange/internal/database/interests"
)

const (
	alice uint = 1
	bob   uint = 2
	carol uint = 3
)

type testEnv struct {
	db        *gorm.DB
	catalog   *CatalogService
	interests *InterestService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "services.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	bookRepo := books.NewRepository(db)
	return &testEnv{
		db:        db,
		catalog:   NewCatalogService(bookRepo, genres.NewRepository(db)),
		interests: NewInterestService(bookRepo, interests.NewRepository(db)),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

package users

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookexchange/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	dbPath := filepath.Join(t.TempDir(), "users.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func createUser(t *testing.T, repo *Repository, username string) *entities.User {
	t.Helper()
	user := &entities.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestRepository_CreateUser(t *testing.T) {
	repo := setupTestDB(t)

	user := createUser(t, repo, "alice")
	assert.NotZero(t, user.ID)

	dup := &entities.User{Username: "alice", Email: "other@example.com"}
	err := repo.CreateUser(context.Background(), dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRepository_GetUserByLogin(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	created := createUser(t, repo, "alice")

	byName, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.GetUserByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetUserByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_ExistsByUsernameOrEmail(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	createUser(t, repo, "alice")

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "alice", "new@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail(ctx, "bob", "bob@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_TokenHash(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "alice")

	now := time.Now()
	require.NoError(t, repo.SetTokenHash(ctx, user.ID, "abc123", &now))

	found, err := repo.GetUserByTokenHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	require.NotNil(t, found.TokenCreatedAt)

	require.NoError(t, repo.SetTokenHash(ctx, user.ID, "", nil))
	_, err = repo.GetUserByTokenHash(ctx, "abc123")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.SetTokenHash(ctx, 999, "x", nil), gorm.ErrRecordNotFound)
}

func TestRepository_LoginCounters(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "alice")

	locked := time.Now().Add(time.Hour)
	require.NoError(t, repo.RecordFailedLogin(ctx, user.ID, 5, &locked))

	found, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.FailedLoginCount)
	require.NotNil(t, found.LockedUntil)

	require.NoError(t, repo.RecordLogin(ctx, user.ID, time.Now()))

	found, err = repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, found.FailedLoginCount)
	assert.Nil(t, found.LockedUntil)
	assert.NotNil(t, found.LastLoginAt)
}

func TestRepository_CountUsers(t *testing.T) {
	repo := setupTestDB(t)
	createUser(t, repo, "alice")
	createUser(t, repo, "bob")

	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

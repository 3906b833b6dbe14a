package audit

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/bookexchange/internal/database/audit"
	"github.com/mrlokans/bookexchange/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	svc := NewService(auditRepo.NewRepository(db))
	t.Cleanup(func() {
		svc.Wait()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventBook,
		Action:    "book_create",
		Status:    entities.AuditStatusSuccess,
	}

	err := svc.Log(context.Background(), event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "book_create", saved.Action)
}

func TestService_LogBook(t *testing.T) {
	svc, db := setupTestService(t)
	origin := Origin{UserID: 3, IPAddress: "10.0.0.1", RequestID: "req-1"}

	book := &entities.Book{
		ID:        7,
		Title:     "Dune",
		Available: true,
		Genres:    []entities.Genre{{Name: "Science Fiction"}},
	}
	svc.LogBook(origin, ActionBookCreate, book)
	svc.Wait()

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", ActionBookCreate).First(&event).Error)
	assert.Equal(t, uint(3), event.UserID)
	assert.Equal(t, entities.AuditEventBook, event.EventType)
	assert.Equal(t, "Listed book: Dune", event.Description)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, "10.0.0.1", event.IPAddress)
	require.NotNil(t, event.EntityID)
	assert.Equal(t, uint(7), *event.EntityID)
	assert.Contains(t, event.Metadata, `"genres":["Science Fiction"]`)
	assert.Contains(t, event.Metadata, `"available":true`)
}

func TestService_LogInterest(t *testing.T) {
	svc, db := setupTestService(t)

	interest := &entities.BookInterest{ID: 4, BookID: 7, InterestedUserID: 2, ChosenByOwner: true}
	svc.LogInterest(Origin{UserID: 1}, ActionInterestChoose, interest)
	svc.Wait()

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", ActionInterestChoose).First(&event).Error)
	assert.Equal(t, entities.AuditEventInterest, event.EventType)
	assert.Equal(t, "book_interest", event.EntityType)
	assert.Contains(t, event.Metadata, `"chosen_by_owner":true`)
}

func TestService_LogAuth(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful login", func(t *testing.T) {
		svc.LogAuth(Origin{UserID: 1, IPAddress: "192.168.1.1"}, ActionSessionLogin, true)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", ActionSessionLogin).First(&event).Error)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "192.168.1.1", event.IPAddress)
	})

	t.Run("failed login", func(t *testing.T) {
		svc.LogAuth(Origin{IPAddress: "192.168.1.1"}, ActionSessionLoginErr, false)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", ActionSessionLoginErr).First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Nil(t, event.EntityID)
	})
}

func TestService_GetEventsAndDeleteOld(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{UserID: 1, EventType: entities.AuditEventBook, Action: "old", CreatedAt: time.Now().Add(-100 * 24 * time.Hour)}))
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{UserID: 1, EventType: entities.AuditEventBook, Action: "recent"}))

	events, total, err := svc.GetEvents(ctx, 1, entities.AuditEventBook, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, events, 2)

	deleted, err := svc.DeleteOldEvents(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 20)
	assert.Equal(t, "aaaaaaa...", truncate(long, 10))
}

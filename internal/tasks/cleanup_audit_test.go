package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	retention chan time.Duration
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(_ context.Context, retention time.Duration) (int64, error) {
	f.retention <- retention
	return 3, f.err
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{}.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupAuditEventsTask_Retention(t *testing.T) {
	assert.Equal(t, 90*24*time.Hour, CleanupAuditEventsTask{}.Retention())
	assert.Equal(t, 7*24*time.Hour, CleanupAuditEventsTask{RetentionDays: 7}.Retention())
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("deletes with the task retention", func(t *testing.T) {
		cleaner := &fakeCleaner{retention: make(chan time.Duration, 1)}
		process := CleanupAuditEventsProcessor(cleaner)

		require.NoError(t, process(context.Background(), CleanupAuditEventsTask{RetentionDays: 30}))
		assert.Equal(t, 30*24*time.Hour, <-cleaner.retention)
	})

	t.Run("propagates cleaner errors", func(t *testing.T) {
		cleaner := &fakeCleaner{retention: make(chan time.Duration, 1), err: errors.New("db down")}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("fails without a cleaner", func(t *testing.T) {
		err := CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{})
		assert.Error(t, err)
	})
}

func TestCleanupAuditEventsQueue_RunsEnqueuedTask(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	cleaner := &fakeCleaner{retention: make(chan time.Duration, 1)}
	client.Register(NewCleanupAuditEventsQueue(cleaner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)

	id, err := client.Enqueue(ctx, CleanupAuditEventsTask{RetentionDays: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case retention := <-cleaner.retention:
		assert.Equal(t, 24*time.Hour, retention)
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task was not executed within timeout")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}

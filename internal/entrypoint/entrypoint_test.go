package entrypoint

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookexchange/internal/config"
	"github.com/mrlokans/bookexchange/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{
			Driver:   config.DriverSQLite,
			Path:     filepath.Join(t.TempDir(), "app.db"),
			LogLevel: "silent",
		},
		Auth: config.Auth{BcryptCost: 4},
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	assert.True(t, app.isSQLite())

	ctx := context.Background()
	user, err := app.Auth.CreateUser(ctx, "alice", "alice@example.com", "correct-horse-battery")
	require.NoError(t, err)

	book, err := app.Catalog.CreateBook(ctx, services.UserIdentity(user.ID), services.BookInput{Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, book.OwnerID)
}

func TestNewApp_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := NewApp(cfg)
	assert.Error(t, err)
}

func TestTasksDBSource(t *testing.T) {
	cfg := &config.Config{}
	assert.Equal(t, config.DefaultDatabasePath, tasksDBSource(cfg))

	cfg.Database.Path = "/data/exchange.db"
	assert.Equal(t, "/data/exchange.db", tasksDBSource(cfg))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_ReportsListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:99999", Handler: http.NotFoundHandler()}

	err := Serve(context.Background(), srv, time.Second)
	assert.Error(t, err)
}

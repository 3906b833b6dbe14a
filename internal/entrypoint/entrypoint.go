package entrypoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/bookexchange/internal/auth"
	"github.com/mrlokans/bookexchange/internal/config"
	http_controllers "github.com/mrlokans/bookexchange/internal/http"
	"github.com/mrlokans/bookexchange/internal/scheduler"
	"github.com/mrlokans/bookexchange/internal/tasks"
)

// Serve runs srv until ctx is cancelled, then shuts it down within timeout.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutdown Server, waiting %v before killing", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("Server exiting")
	return nil
}

// Run starts the HTTP server and background workers and blocks until
// SIGINT/SIGTERM or the first fatal error.
func Run(cfg *config.Config, version string) error {
	log.Printf("Starting bookexchange v%s", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	var sqlDB *sql.DB
	if app.isSQLite() {
		if sqlDB, err = app.DB.DB.DB(); err != nil {
			return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
		}
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	csrfSecret, err := auth.SessionSecret(cfg.Auth.SessionSecret)
	if err != nil {
		return fmt.Errorf("failed to prepare CSRF secret: %w", err)
	}

	if count, err := app.Auth.GetUserCount(ctx); err == nil && count == 0 {
		log.Printf("No users found. Register with POST /api/users or 'bookexchange user create'.")
	}

	rateLimiter := auth.NewRateLimiter(cfg.Auth)
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:        app.Catalog,
		Interests:      app.Interests,
		Audit:          app.Audit,
		Database:       app.DB,
		AuthService:    app.Auth,
		SessionManager: sessionManager,
		RateLimiter:    rateLimiter,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return Serve(gctx, newServer(cfg, router), timeout)
	})
	g.Go(func() error {
		return rateLimiter.Run(gctx)
	})

	if cfg.Tasks.Enabled {
		taskClient, err := tasks.NewClient(tasksDBSource(cfg), tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()
		taskClient.Register(tasks.NewCleanupAuditEventsQueue(app.Audit))

		cleanup := scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)

		g.Go(func() error {
			return taskClient.Run(gctx, timeout)
		})
		g.Go(func() error {
			return cleanup.Run(gctx)
		})
	} else {
		log.Printf("Task queue disabled; audit retention cleanup will not run")
	}

	return g.Wait()
}

func newServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// tasksDBSource picks the file the task queue database is placed next to.
// The queue always uses SQLite, also when the main store is Postgres.
func tasksDBSource(cfg *config.Config) string {
	if cfg.Database.Path != "" {
		return cfg.Database.Path
	}
	return config.DefaultDatabasePath
}

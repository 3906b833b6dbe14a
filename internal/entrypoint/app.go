package entrypoint

import (
	"fmt"
	"log"
	"strings"

	"github.com/mrlokans/bookexchange/internal/audit"
	"github.com/mrlokans/bookexchange/internal/auth"
	"github.com/mrlokans/bookexchange/internal/config"
	"github.com/mrlokans/bookexchange/internal/database"
	auditrepo "github.com/mrlokans/bookexchange/internal/database/audit"
	"github.com/mrlokans/bookexchange/internal/database/books"
	"github.com/mrlokans/bookexchange/internal/database/genres"
	"github.com/mrlokans/bookexchange/internal/database/interests"
	"github.com/mrlokans/bookexchange/internal/database/users"
	"github.com/mrlokans/bookexchange/internal/services"
)

// App holds the long-lived services shared by the server and CLI commands.
type App struct {
	Config    *config.Config
	DB        *database.Database
	Auth      *auth.Service
	Audit     *audit.Service
	Catalog   *services.CatalogService
	Interests *services.InterestService
}

// NewApp opens the database and builds every service on top of it.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bookRepo := books.NewRepository(db.DB)

	return &App{
		Config:    cfg,
		DB:        db,
		Auth:      auth.NewService(users.NewRepository(db.DB), cfg.Auth),
		Audit:     audit.NewService(auditrepo.NewRepository(db.DB)),
		Catalog:   services.NewCatalogService(bookRepo, genres.NewRepository(db.DB)),
		Interests: services.NewInterestService(bookRepo, interests.NewRepository(db.DB)),
	}, nil
}

// Close waits for pending audit writes and closes the database.
func (a *App) Close() {
	a.Audit.Wait()
	if err := a.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// isSQLite reports whether sessions and tasks can share the SQLite file.
func (a *App) isSQLite() bool {
	driver := strings.ToLower(a.Config.Database.Driver)
	return driver == "" || driver == config.DriverSQLite
}

package http

import (
	"github.com/mrlokans/bookexchange/internal/audit"
	"github.com/mrlokans/bookexchange/internal/auth"
	"github.com/mrlokans/bookexchange/internal/database"
	"github.com/mrlokans/bookexchange/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core services
	Catalog   *services.CatalogService
	Interests *services.InterestService
	Audit     *audit.Service
	Database  *database.Database

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager // optional; disables cookie login when nil
	RateLimiter    *auth.RateLimiter

	// CSRF protection for cookie-authenticated requests
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookexchange/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// Session must be loaded before CSRF inspects the cookie
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		if len(cfg.CSRFSecret) > 0 {
			router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.SessionManager))
		}
	}

	router.Use(auth.NewMiddleware(cfg.AuthService, cfg.SessionManager).Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	var events auth.EventLogger
	if cfg.Audit != nil {
		events = cfg.Audit
	}
	auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter, events).RegisterRoutes(api)

	books := NewBooksController(cfg.Catalog, cfg.Audit)
	api.GET("/books", books.ListCatalog)
	api.POST("/books", books.CreateBook)
	api.GET("/books/:id", books.GetBook)
	api.PUT("/books/:id", books.UpdateBook)
	api.PATCH("/books/:id", books.UpdateBook)
	api.DELETE("/books/:id", books.DeleteBook)
	api.GET("/my-books", books.ListMine)
	api.GET("/genres", books.ListGenres)

	interests := NewInterestsController(cfg.Interests, cfg.Audit)
	api.POST("/book-interests", interests.ExpressInterest)
	api.GET("/book-interests", interests.ListForOwner)
	api.PUT("/book-interests/:id/choose-recipient", interests.ChooseRecipient)
	api.PATCH("/book-interests/:id/choose-recipient", interests.ChooseRecipient)

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	return router
}

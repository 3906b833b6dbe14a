package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookexchange/internal/audit"
)

// EventLogger records authentication events. *audit.Service implements it.
type EventLogger interface {
	LogAuth(origin audit.Origin, action string, success bool)
}

// credentialsRequest is the body of token and login requests.
type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// registerRequest is the body of POST /api/users.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthController handles account and credential endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	events         EventLogger
}

// NewAuthController creates a new authentication controller. sessionManager
// and events may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, rateLimiter *RateLimiter, events EventLogger) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		events:         events,
	}
}

// RegisterRoutes registers authentication routes under the given group.
func (ac *AuthController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/users", ac.Register)

	authGroup := api.Group("/auth")
	authGroup.POST("/token", ac.IssueToken)
	authGroup.DELETE("/token", RequireAuth(), ac.RevokeToken)
	authGroup.GET("/me", RequireAuth(), ac.Me)
	if ac.sessionManager != nil {
		authGroup.POST("/login", ac.Login)
		authGroup.POST("/logout", ac.Logout)
	}
}

// Register creates an account.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "invalid_request"})
		return
	}

	user, err := ac.service.CreateUser(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "conflict"})
		case isCredentialValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_failed"})
		default:
			log.Printf("Failed to register user %q: %v", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
		}
		return
	}

	ac.logEvent(c, user.ID, audit.ActionUserRegister, true)
	c.JSON(http.StatusCreated, user)
}

// IssueToken exchanges credentials for a new API token. Any previous token
// of the user stops working.
func (ac *AuthController) IssueToken(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required", "code": "invalid_request"})
		return
	}

	userID, ok := ac.authenticate(c, req)
	if !ok {
		return
	}

	token, err := ac.service.GenerateToken(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Failed to generate token for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token", "code": "internal"})
		return
	}

	ac.logEvent(c, userID, audit.ActionTokenIssue, true)
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Store this token securely - it will not be shown again",
	})
}

// RevokeToken removes the caller's API token.
func (ac *AuthController) RevokeToken(c *gin.Context) {
	userID := GetUserID(c)
	if err := ac.service.RevokeToken(c.Request.Context(), userID); err != nil {
		log.Printf("Failed to revoke token for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token", "code": "internal"})
		return
	}

	ac.logEvent(c, userID, audit.ActionTokenRevoke, true)
	c.Status(http.StatusNoContent)
}

// Login starts a cookie session.
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required", "code": "invalid_request"})
		return
	}

	userID, ok := ac.authenticate(c, req)
	if !ok {
		return
	}

	user, err := ac.service.GetUserByID(c.Request.Context(), userID)
	if err == nil {
		err = ac.sessionManager.CreateSession(c.Request, user)
	}
	if err != nil {
		log.Printf("Failed to create session for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session", "code": "internal"})
		return
	}

	ac.logEvent(c, user.ID, audit.ActionSessionLogin, true)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout ends the cookie session.
func (ac *AuthController) Logout(c *gin.Context) {
	userID := GetUserID(c)
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
	if userID != AnonymousUserID {
		ac.logEvent(c, userID, audit.ActionSessionLogout, true)
	}
	c.Status(http.StatusNoContent)
}

// Me returns the caller's account.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.service.GetUserByID(c.Request.Context(), GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "code": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"auth_type": GetAuthType(c),
	})
}

// authenticate checks credentials under the rate limiter and writes the
// error response itself when they are rejected.
func (ac *AuthController) authenticate(c *gin.Context, req credentialsRequest) (uint, bool) {
	clientIP := c.ClientIP()

	if ac.rateLimiter != nil {
		if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, req.Username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many login attempts",
				"code":        "rate_limited",
				"retry_after": retryAfter.String(),
			})
			return 0, false
		}
	}

	user, err := ac.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if ac.rateLimiter != nil {
			ac.rateLimiter.RecordFailure(clientIP, req.Username)
		}
		ac.logEvent(c, 0, audit.ActionSessionLoginErr, false)

		switch {
		case errors.Is(err, ErrAccountLocked):
			c.JSON(http.StatusLocked, gin.H{"error": err.Error(), "code": "account_locked"})
		case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password", "code": "invalid_credentials"})
		default:
			log.Printf("Failed to authenticate %q: %v", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
		}
		return 0, false
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, req.Username)
	}
	return user.ID, true
}

func (ac *AuthController) logEvent(c *gin.Context, userID uint, action string, success bool) {
	if ac.events == nil {
		return
	}
	ac.events.LogAuth(audit.Origin{
		UserID:    userID,
		IPAddress: c.ClientIP(),
		RequestID: c.GetString(audit.RequestIDKey),
	}, action, success)
}

func isCredentialValidationError(err error) bool {
	for _, target := range []error{
		ErrUsernameRequired, ErrUsernameInvalid,
		ErrEmailRequired, ErrEmailInvalid,
		ErrPasswordRequired, ErrPasswordTooShort, ErrPasswordTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Package auth resolves who is calling the exchange API.
//
// Callers authenticate in one of two ways, both optional:
//   - "Authorization: Bearer <token>" with an API token issued by POST /api/auth/token
//   - a session cookie created by POST /api/auth/login
//
// Requests without credentials continue as anonymous; handlers decide what an
// anonymous caller may do. A bearer token that fails validation is rejected
// with 401 rather than downgraded to anonymous.
//
// Cookie-authenticated unsafe requests must echo the X-CSRF-Token response
// header. Token requests are exempt.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<64 hex chars>  # Random per process if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_TOKEN_EXPIRY=720h              # API token expiry
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Usage
//
//	authService := auth.NewService(users.NewRepository(db), cfg.Auth)
//	router.Use(auth.NewMiddleware(authService, sessions).Handler())
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c) // 0 when anonymous
package auth

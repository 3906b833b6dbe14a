package audit

const (
	ActionBookCreate = "book_create"
	ActionBookUpdate = "book_update"
	ActionBookDelete = "book_delete"

	ActionInterestCreate = "interest_create"
	ActionInterestChoose = "interest_choose"

	ActionUserRegister    = "user_register"
	ActionTokenIssue      = "token_issue"
	ActionTokenRevoke     = "token_revoke"
	ActionSessionLogin    = "login"
	ActionSessionLogout   = "logout"
	ActionSessionLoginErr = "login_failed"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

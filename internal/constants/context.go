package constants

// ContextKey is the typed key for values stored in a request context.
type ContextKey string

// Context keys shared between middleware, handlers and the logger.
const (
	CtxKeyRequestID ContextKey = "request_id"
	CtxKeyUserID    ContextKey = "user_id"
	CtxKeyUserEmail ContextKey = "user_email"
	CtxKeyClientIP  ContextKey = "client_ip"
	CtxKeyUserAgent ContextKey = "user_agent"
	CtxKeyStartTime ContextKey = "start_time"
	CtxKeyModule    ContextKey = "module"
	CtxKeyFunction  ContextKey = "function"
)

// Gin context keys set by the auth middleware.
const (
	GinKeyCurrentUser = "current_user"
)

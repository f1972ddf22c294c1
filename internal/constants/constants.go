package constants

const (
	// Context keys set by middleware
	ContextKeyActor  = "actor"
	ContextKeyTaskID = "task_id"

	// Session keys
	SessionKeyUserID = "user_id"
	SessionKeyRole   = "role"

	SessionCookieName = "tasktrack_session"
	SessionMaxAge     = 86400 * 7 // 7 days

	MinPasswordLength = 6

	// Task field limits
	MaxTitleLength = 100

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

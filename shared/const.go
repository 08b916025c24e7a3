package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RolePatient   = "PATIENT"
	RoleTherapist = "THERAPIST"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"

	UserStatusActive    = "ACTIVE"
	UserStatusSuspended = "SUSPENDED"

	SessionStatusScheduled = "SCHEDULED"
	SessionStatusLive      = "LIVE"
	SessionStatusCompleted = "COMPLETED"
	SessionStatusCancelled = "CANCELLED"

	NotificationSessionReminder = "SESSION_REMINDER"
	NotificationSessionStarting = "SESSION_STARTING"
	NotificationStreakRisk      = "STREAK_RISK"

	EmailStatusSent   = "SENT"
	EmailStatusFailed = "FAILED"
)

package dto

import "time"

// Job results are constructed fresh per invocation and returned to the
// caller (cron endpoint). Errors hold one entry per failed item; a job
// never aborts because one item failed.

type SessionReminderResult struct {
	Reminders int      `json:"reminders"`
	Starting  int      `json:"starting"`
	Errors    []string `json:"errors"`
}

type StreakRiskResult struct {
	Candidates int      `json:"candidates"`
	Notified   int      `json:"notified"`
	Errors     []string `json:"errors"`
}

type CleanupResult struct {
	ReadNotifications   int64    `json:"read_notifications"`
	UnreadNotifications int64    `json:"unread_notifications"`
	EmailLogs           int64    `json:"email_logs"`
	AuditLogs           int64    `json:"audit_logs"`
	Errors              []string `json:"errors"`
}

type SessionCleanupResult struct {
	CancelledSessions int64    `json:"cancelled_sessions"`
	Errors            []string `json:"errors"`
}

type TherapistStatsResult struct {
	Therapists int      `json:"therapists"`
	Updated    int      `json:"updated"`
	Errors     []string `json:"errors"`
}

// UnsupportedJobResult distinguishes "cannot run" from "ran, nothing to
// do" for jobs whose data-model prerequisites do not exist yet.
type UnsupportedJobResult struct {
	Supported bool   `json:"supported"`
	Reason    string `json:"reason"`
}

type JobRunResponse struct {
	Job        string      `json:"job"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Result     interface{} `json:"result"`
}

package services

import (
	"fmt"
	"time"

	"github.com/moodz-app/moodz_api/dto"
	log "github.com/sirupsen/logrus"
)

const (
	readNotificationRetention   = 30 * 24 * time.Hour
	unreadNotificationRetention = 90 * 24 * time.Hour
	emailLogRetention           = 90 * 24 * time.Hour
	auditLogRetention           = 365 * 24 * time.Hour // compliance

	staleSessionGrace = 2 * time.Hour
)

// RunCleanup bounds log-table growth under independent retention policies.
// Each deletion has its own failure boundary so one failing sweep never
// stops the others.
func (svc *JobService) RunCleanup() *dto.CleanupResult {
	start := time.Now()
	result := &dto.CleanupResult{Errors: []string{}}

	if n, err := svc.notificationRepo.DeleteReadBefore(start.Add(-readNotificationRetention)); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("read notifications: %v", err))
	} else {
		result.ReadNotifications = n
	}

	if n, err := svc.notificationRepo.DeleteUnreadBefore(start.Add(-unreadNotificationRetention)); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("unread notifications: %v", err))
	} else {
		result.UnreadNotifications = n
	}

	if n, err := svc.notificationRepo.DeleteEmailLogsBefore(start.Add(-emailLogRetention)); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("email logs: %v", err))
	} else {
		result.EmailLogs = n
	}

	if n, err := svc.notificationRepo.DeleteAuditLogsBefore(start.Add(-auditLogRetention)); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("audit logs: %v", err))
	} else {
		result.AuditLogs = n
	}

	recordJobRun(JobCleanup, start, len(result.Errors))
	log.WithFields(log.Fields{
		"read_notifications":   result.ReadNotifications,
		"unread_notifications": result.UnreadNotifications,
		"email_logs":           result.EmailLogs,
		"audit_logs":           result.AuditLogs,
		"errors":               len(result.Errors),
	}).Info("Cleanup job finished")

	return result
}

// RunSessionCleanup cancels SCHEDULED sessions whose start time is more
// than two hours past, a safeguard against sessions never started or
// completed.
func (svc *JobService) RunSessionCleanup() *dto.SessionCleanupResult {
	start := time.Now()
	result := &dto.SessionCleanupResult{Errors: []string{}}

	cancelled, err := svc.sessionRepo.CancelStale(start.Add(-staleSessionGrace), start)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("session cancel: %v", err))
	} else {
		result.CancelledSessions = cancelled
	}

	recordJobRun(JobSessionCleanup, start, len(result.Errors))
	log.WithFields(log.Fields{
		"cancelled": result.CancelledSessions,
		"errors":    len(result.Errors),
	}).Info("Session cleanup job finished")

	return result
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/shared"
)

func createTestNotification(t *testing.T, db *gorm.DB, read bool, age time.Duration) *model.Notification {
	t.Helper()

	n := &model.Notification{
		ID:        newID(t),
		UserID:    "user-1",
		Type:      shared.NotificationStreakRisk,
		Title:     "Keep your streak going",
		Read:      read,
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestCleanupRetentionBoundaries(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobRunner(db, newFakeDispatcher())

	day := 24 * time.Hour

	// Read notifications: 30 day retention.
	createTestNotification(t, db, true, 31*day)
	keptRead := createTestNotification(t, db, true, 29*day)

	// Unread notifications: 90 day retention.
	createTestNotification(t, db, false, 91*day)
	keptUnread := createTestNotification(t, db, false, 31*day)

	require.NoError(t, db.Create(&model.EmailLog{
		ID: newID(t), Recipient: "a@test.local", Status: shared.EmailStatusSent,
		CreatedAt: time.Now().Add(-91 * day),
	}).Error)
	require.NoError(t, db.Create(&model.EmailLog{
		ID: newID(t), Recipient: "b@test.local", Status: shared.EmailStatusSent,
		CreatedAt: time.Now().Add(-89 * day),
	}).Error)

	require.NoError(t, db.Create(&model.AuditLog{
		ID: newID(t), UserID: "user-1", Action: "user.login",
		CreatedAt: time.Now().Add(-366 * day),
	}).Error)
	require.NoError(t, db.Create(&model.AuditLog{
		ID: newID(t), UserID: "user-1", Action: "user.login",
		CreatedAt: time.Now().Add(-300 * day),
	}).Error)

	result := svc.RunCleanup()

	assert.Equal(t, int64(1), result.ReadNotifications)
	assert.Equal(t, int64(1), result.UnreadNotifications)
	assert.Equal(t, int64(1), result.EmailLogs)
	assert.Equal(t, int64(1), result.AuditLogs)
	assert.Empty(t, result.Errors)

	var notifications []model.Notification
	require.NoError(t, db.Find(&notifications).Error)
	ids := []string{notifications[0].ID, notifications[1].ID}
	assert.ElementsMatch(t, []string{keptRead.ID, keptUnread.ID}, ids)
}

func TestCleanupOldUnreadOutlivesOldRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobRunner(db, newFakeDispatcher())

	day := 24 * time.Hour

	// Both 60 days old; only the read one is past its retention.
	createTestNotification(t, db, true, 60*day)
	unread := createTestNotification(t, db, false, 60*day)

	result := svc.RunCleanup()

	assert.Equal(t, int64(1), result.ReadNotifications)
	assert.Equal(t, int64(0), result.UnreadNotifications)

	var remaining []model.Notification
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, unread.ID, remaining[0].ID)
}

func TestCleanupEmptyTables(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobRunner(db, newFakeDispatcher())

	result := svc.RunCleanup()

	assert.Equal(t, int64(0), result.ReadNotifications)
	assert.Equal(t, int64(0), result.UnreadNotifications)
	assert.Equal(t, int64(0), result.EmailLogs)
	assert.Equal(t, int64(0), result.AuditLogs)
	assert.Empty(t, result.Errors)
}

func TestSessionCleanupCancelsStaleScheduledSessions(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobRunner(db, newFakeDispatcher())

	now := time.Now()
	stale := createTestSession(t, db, "therapist-1", now.Add(-3*time.Hour), shared.SessionStatusScheduled)
	recent := createTestSession(t, db, "therapist-1", now.Add(-time.Hour), shared.SessionStatusScheduled)
	completed := createTestSession(t, db, "therapist-1", now.Add(-5*time.Hour), shared.SessionStatusCompleted)

	result := svc.RunSessionCleanup()

	assert.Equal(t, int64(1), result.CancelledSessions)
	assert.Empty(t, result.Errors)

	var stored model.TherapySession
	require.NoError(t, db.First(&stored, "id = ?", stale.ID).Error)
	assert.Equal(t, shared.SessionStatusCancelled, stored.Status)

	require.NoError(t, db.First(&stored, "id = ?", recent.ID).Error)
	assert.Equal(t, shared.SessionStatusScheduled, stored.Status, "inside the grace period")

	require.NoError(t, db.First(&stored, "id = ?", completed.ID).Error)
	assert.Equal(t, shared.SessionStatusCompleted, stored.Status, "only SCHEDULED sessions are touched")
}

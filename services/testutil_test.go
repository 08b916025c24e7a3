package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/shared"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)&mode=memory&name="+uuid.NewString()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	return db
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func createTestUser(t *testing.T, db *gorm.DB, role, status string) *model.User {
	t.Helper()

	user := &model.User{
		ID:        newID(t),
		Email:     uuid.NewString() + "@test.local",
		Username:  "u" + uuid.NewString()[:8],
		Role:      role,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSession(t *testing.T, db *gorm.DB, therapistID string, scheduledAt time.Time, status string) *model.TherapySession {
	t.Helper()

	session := &model.TherapySession{
		ID:          newID(t),
		TherapistID: therapistID,
		Title:       "Evening check-in circle",
		ScheduledAt: scheduledAt,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

func addTestParticipant(t *testing.T, db *gorm.DB, sessionID, userID string) {
	t.Helper()

	require.NoError(t, db.Create(&model.SessionParticipant{
		ID:        newID(t),
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}).Error)
}

func createTestMoodLog(t *testing.T, db *gorm.DB, userID string, at time.Time) {
	t.Helper()

	require.NoError(t, db.Create(&model.MoodLog{
		ID:        newID(t),
		UserID:    userID,
		Score:     5,
		CreatedAt: at,
	}).Error)
}

func createTestPatient(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	return createTestUser(t, db, shared.RolePatient, shared.UserStatusActive)
}

// fakeDispatcher records notifications and can fail selectively.
type fakeDispatcher struct {
	reminders []string
	starting  []string
	streaks   []string

	failSessions map[string]bool
	failUsers    map[string]bool
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{
		failSessions: map[string]bool{},
		failUsers:    map[string]bool{},
	}
}

func (d *fakeDispatcher) NotifySessionReminder(sessionID string) error {
	if d.failSessions[sessionID] {
		return fmt.Errorf("dispatch failed for session %s", sessionID)
	}
	d.reminders = append(d.reminders, sessionID)
	return nil
}

func (d *fakeDispatcher) NotifySessionStarting(sessionID string) error {
	if d.failSessions[sessionID] {
		return fmt.Errorf("dispatch failed for session %s", sessionID)
	}
	d.starting = append(d.starting, sessionID)
	return nil
}

func (d *fakeDispatcher) NotifyStreakRisk(userID string) error {
	if d.failUsers[userID] {
		return fmt.Errorf("dispatch failed for user %s", userID)
	}
	d.streaks = append(d.streaks, userID)
	return nil
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moodz-app/moodz_api/shared"
)

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

func TestStreakRiskNotifiesThreeDayStreak(t *testing.T) {
	db := newTestDB(t)
	dispatcher := newFakeDispatcher()
	svc := NewJobRunner(db, dispatcher)

	user := createTestPatient(t, db)
	createTestMoodLog(t, db, user.ID, daysAgo(1))
	createTestMoodLog(t, db, user.ID, daysAgo(2))
	createTestMoodLog(t, db, user.ID, daysAgo(3))

	result := svc.RunStreakRisk()

	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 1, result.Notified)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{user.ID}, dispatcher.streaks)
}

func TestStreakRiskSkipsShortStreaks(t *testing.T) {
	db := newTestDB(t)
	dispatcher := newFakeDispatcher()
	svc := NewJobRunner(db, dispatcher)

	user := createTestPatient(t, db)
	createTestMoodLog(t, db, user.ID, daysAgo(1))
	createTestMoodLog(t, db, user.ID, daysAgo(2))

	result := svc.RunStreakRisk()

	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 0, result.Notified, "two days is below the streak threshold")
	assert.Empty(t, dispatcher.streaks)
}

func TestStreakRiskSkipsBrokenStreaks(t *testing.T) {
	db := newTestDB(t)
	dispatcher := newFakeDispatcher()
	svc := NewJobRunner(db, dispatcher)

	// Five logs, but a gap after the most recent one.
	user := createTestPatient(t, db)
	for _, n := range []int{3, 4, 5, 6, 7} {
		createTestMoodLog(t, db, user.ID, daysAgo(n))
	}

	result := svc.RunStreakRisk()

	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 0, result.Notified, "a gap before today breaks the streak")
	assert.Empty(t, dispatcher.streaks)
}

func TestStreakRiskSkipsUsersWhoLoggedToday(t *testing.T) {
	db := newTestDB(t)
	dispatcher := newFakeDispatcher()
	svc := NewJobRunner(db, dispatcher)

	user := createTestPatient(t, db)
	createTestMoodLog(t, db, user.ID, time.Now().Add(-time.Minute))
	createTestMoodLog(t, db, user.ID, daysAgo(1))
	createTestMoodLog(t, db, user.ID, daysAgo(2))
	createTestMoodLog(t, db, user.ID, daysAgo(3))

	result := svc.RunStreakRisk()

	assert.Equal(t, 0, result.Candidates, "today's check-in removes the risk")
	assert.Empty(t, dispatcher.streaks)
}

func TestStreakRiskSkipsSuspendedUsers(t *testing.T) {
	db := newTestDB(t)
	dispatcher := newFakeDispatcher()
	svc := NewJobRunner(db, dispatcher)

	user := createTestUser(t, db, shared.RolePatient, shared.UserStatusSuspended)
	createTestMoodLog(t, db, user.ID, daysAgo(1))
	createTestMoodLog(t, db, user.ID, daysAgo(2))
	createTestMoodLog(t, db, user.ID, daysAgo(3))

	result := svc.RunStreakRisk()

	assert.Equal(t, 0, result.Candidates)
	assert.Empty(t, dispatcher.streaks)
}

func TestStreakRiskIsolatesDispatchFailures(t *testing.T) {
	db := newTestDB(t)
	dispatcher := newFakeDispatcher()
	svc := NewJobRunner(db, dispatcher)

	failing := createTestPatient(t, db)
	healthy := createTestPatient(t, db)
	for _, u := range []string{failing.ID, healthy.ID} {
		createTestMoodLog(t, db, u, daysAgo(1))
		createTestMoodLog(t, db, u, daysAgo(2))
		createTestMoodLog(t, db, u, daysAgo(3))
	}
	dispatcher.failUsers[failing.ID] = true

	result := svc.RunStreakRisk()

	assert.Equal(t, 2, result.Candidates)
	assert.Equal(t, 1, result.Notified)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, []string{healthy.ID}, dispatcher.streaks)
}

func TestComputeStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	assert.Equal(t, 0, computeStreak(now, nil))
	assert.Equal(t, 1, computeStreak(now, []time.Time{day(1)}))
	assert.Equal(t, 3, computeStreak(now, []time.Time{day(1), day(2), day(3)}))
	assert.Equal(t, 2, computeStreak(now, []time.Time{day(1), day(2), day(4)}), "gap stops the walk")
	assert.Equal(t, 0, computeStreak(now, []time.Time{day(3), day(4)}), "stale logs never count")

	// Duplicate same-day logs count once.
	assert.Equal(t, 2, computeStreak(now, []time.Time{day(1), day(1), day(2)}))

	// A log from today extends into earlier days.
	assert.Equal(t, 2, computeStreak(now, []time.Time{now.Add(-time.Hour), day(1), day(2)}))
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/services/repositories"
	"github.com/moodz-app/moodz_api/shared"
)

func newTestMood(t *testing.T) *MoodService {
	t.Helper()
	return &MoodService{moodRepo: repositories.NewMoodRepository(newTestDB(t))}
}

func TestLogMoodValidatesScore(t *testing.T) {
	svc := newTestMood(t)

	_, err := svc.LogMood("user-1", dto.CreateMoodLogRequest{Score: 0})
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)

	_, err = svc.LogMood("user-1", dto.CreateMoodLogRequest{Score: 11})
	require.Error(t, err)

	resp, err := svc.LogMood("user-1", dto.CreateMoodLogRequest{Score: 7, Note: "feeling better"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 7, resp.Score)
}

func TestGetHistoryReturnsLogsAndStreak(t *testing.T) {
	svc := newTestMood(t)
	db := svc.moodRepo.DB()

	user := "user-1"
	noon := truncateToDay(time.Now()).Add(12 * time.Hour)
	for _, stamp := range []time.Time{noon, noon.AddDate(0, 0, -1), noon.AddDate(0, 0, -2)} {
		resp, err := svc.LogMood(user, dto.CreateMoodLogRequest{Score: 6})
		require.NoError(t, err)
		// Pin the timestamp; LogMood stamps now.
		require.NoError(t, db.Exec(
			"UPDATE mood_logs SET created_at = ? WHERE id = ?", stamp, resp.ID).Error)
	}

	history, err := svc.GetHistory(user, 10)
	require.NoError(t, err)
	assert.Len(t, history.Logs, 3)
	assert.Equal(t, 2, history.Streak, "today plus two prior days, counted from yesterday")

	// Logs come back newest first.
	assert.True(t, history.Logs[0].CreatedAt.After(history.Logs[1].CreatedAt))
}

func TestGetHistoryClampsLimit(t *testing.T) {
	svc := newTestMood(t)

	for i := 0; i < 35; i++ {
		_, err := svc.LogMood("user-1", dto.CreateMoodLogRequest{Score: 5})
		require.NoError(t, err)
	}

	history, err := svc.GetHistory("user-1", 0)
	require.NoError(t, err)
	assert.Len(t, history.Logs, 30, "zero limit falls back to the default of 30")

	history, err = svc.GetHistory("user-1", 5)
	require.NoError(t, err)
	assert.Len(t, history.Logs, 5)
}

func TestGetHistoryEmpty(t *testing.T) {
	svc := newTestMood(t)

	history, err := svc.GetHistory("nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, history.Logs)
	assert.Equal(t, 0, history.Streak)
}

package services

import (
	stdContext "context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodz-app/moodz_api/dto"
)

func newTestRedis(t *testing.T) *RedisService {
	t.Helper()

	mr := miniredis.RunT(t)
	svc := &RedisService{}
	svc.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return svc
}

func TestRunJobDispatchesByName(t *testing.T) {
	svc := NewJobRunner(newTestDB(t), newFakeDispatcher())

	result, err := svc.RunJob(JobCleanup)
	require.NoError(t, err)
	assert.IsType(t, &dto.CleanupResult{}, result)

	result, err = svc.RunJob(JobStreakRisk)
	require.NoError(t, err)
	assert.IsType(t, &dto.StreakRiskResult{}, result)
}

func TestRunJobUnknownName(t *testing.T) {
	svc := NewJobRunner(newTestDB(t), newFakeDispatcher())

	_, err := svc.RunJob("defrag-disk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job")
}

func TestRunJobUnsupportedJobs(t *testing.T) {
	svc := NewJobRunner(newTestDB(t), newFakeDispatcher())

	for _, name := range []string{JobWeeklySummary, JobEngagementScoring} {
		result, err := svc.RunJob(name)
		require.NoError(t, err)

		unsupported, ok := result.(*dto.UnsupportedJobResult)
		require.True(t, ok)
		assert.False(t, unsupported.Supported)
		assert.NotEmpty(t, unsupported.Reason)
	}
}

func TestRunJobLockPreventsOverlap(t *testing.T) {
	svc := NewJobRunner(newTestDB(t), newFakeDispatcher())
	svc.redisSvc = newTestRedis(t)

	ctx := stdContext.Background()
	acquired, err := svc.redisSvc.AcquireLock(ctx, "job:"+JobCleanup, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = svc.RunJob(JobCleanup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	// Other jobs are unaffected by the held lock.
	_, err = svc.RunJob(JobSessionCleanup)
	assert.NoError(t, err)
}

func TestRunJobReleasesLock(t *testing.T) {
	svc := NewJobRunner(newTestDB(t), newFakeDispatcher())
	svc.redisSvc = newTestRedis(t)

	_, err := svc.RunJob(JobCleanup)
	require.NoError(t, err)

	// The lock is gone, so a follow-up run starts normally.
	_, err = svc.RunJob(JobCleanup)
	assert.NoError(t, err)
}

func TestRunJobWithoutRedisRunsUnlocked(t *testing.T) {
	svc := NewJobRunner(newTestDB(t), newFakeDispatcher())

	_, err := svc.RunJob(JobCleanup)
	assert.NoError(t, err)
}

func TestJobNamesCoverEveryDispatchCase(t *testing.T) {
	svc := NewJobRunner(newTestDB(t), newFakeDispatcher())

	for _, name := range JobNames() {
		_, err := svc.RunJob(name)
		assert.NoError(t, err, "job %s should dispatch", name)
	}
}

package services

import (
	stdContext "context"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/moodz-app/moodz_api/services/repositories"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// JobService hosts the scheduled batch procedures. Each job re-derives its
// state from the store, so runs are idempotent and safe to repeat; a
// per-item failure is recorded and never aborts the batch.
type JobService struct {
	context.DefaultService

	dbSvc    *PostgresService
	redisSvc *RedisService

	dispatcher NotificationDispatcher

	sessionRepo      *repositories.SessionRepository
	moodRepo         *repositories.MoodRepository
	userRepo         *repositories.UserRepository
	notificationRepo *repositories.NotificationRepository
	therapistRepo    *repositories.TherapistRepository
}

const JOB_SVC = "job_svc"

const (
	JobSessionReminders  = "session-reminders"
	JobStreakRisk        = "streak-risk"
	JobCleanup           = "cleanup"
	JobSessionCleanup    = "session-cleanup"
	JobTherapistStats    = "therapist-stats"
	JobWeeklySummary     = "weekly-summary"
	JobEngagementScoring = "engagement-scoring"
)

func (svc JobService) Id() string {
	return JOB_SVC
}

// NewJobRunner builds a runner outside the service container. Used by
// tests; the container path wires the same fields in Start.
func NewJobRunner(db *gorm.DB, dispatcher NotificationDispatcher) *JobService {
	svc := &JobService{dispatcher: dispatcher}
	svc.bindRepositories(db)
	return svc
}

func (svc *JobService) bindRepositories(db *gorm.DB) {
	svc.sessionRepo = repositories.NewSessionRepository(db)
	svc.moodRepo = repositories.NewMoodRepository(db)
	svc.userRepo = repositories.NewUserRepository(db)
	svc.notificationRepo = repositories.NewNotificationRepository(db)
	svc.therapistRepo = repositories.NewTherapistRepository(db)
}

func (svc *JobService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *JobService) Start() error {
	svc.dbSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.dispatcher = svc.Service(NOTIFICATION_SVC).(*NotificationService)

	svc.bindRepositories(svc.dbSvc.Db())
	return nil
}

// RunJob dispatches a named job, guarded by a best-effort Redis lock so an
// external scheduler firing twice does not overlap runs. Lock failures
// degrade to running unlocked.
func (svc *JobService) RunJob(name string) (interface{}, error) {
	release := svc.acquireJobLock(name)
	if release == nil {
		return nil, fmt.Errorf("job %s is already running", name)
	}
	defer release()

	switch name {
	case JobSessionReminders:
		return svc.RunSessionReminders(), nil
	case JobStreakRisk:
		return svc.RunStreakRisk(), nil
	case JobCleanup:
		return svc.RunCleanup(), nil
	case JobSessionCleanup:
		return svc.RunSessionCleanup(), nil
	case JobTherapistStats:
		return svc.RunTherapistStats(), nil
	case JobWeeklySummary:
		return svc.RunWeeklySummary(), nil
	case JobEngagementScoring:
		return svc.RunEngagementScoring(), nil
	default:
		return nil, fmt.Errorf("unknown job: %s", name)
	}
}

// Jobs lists every invokable job.
func (svc *JobService) Jobs() []string {
	return JobNames()
}

// JobNames lists every invokable job.
func JobNames() []string {
	return []string{
		JobSessionReminders,
		JobStreakRisk,
		JobCleanup,
		JobSessionCleanup,
		JobTherapistStats,
		JobWeeklySummary,
		JobEngagementScoring,
	}
}

// acquireJobLock returns a release func, or nil when another run holds the
// lock. Without Redis (tests, degraded mode) jobs run unlocked.
func (svc *JobService) acquireJobLock(name string) func() {
	if svc.redisSvc == nil {
		return func() {}
	}

	ctx := stdContext.Background()
	acquired, err := svc.redisSvc.AcquireLock(ctx, "job:"+name, 10*time.Minute)
	if err != nil {
		log.WithError(err).WithField("job", name).Warn("Job lock unavailable, running unlocked")
		return func() {}
	}
	if !acquired {
		return nil
	}

	return func() {
		if err := svc.redisSvc.ReleaseLock(ctx, "job:"+name); err != nil {
			log.WithError(err).WithField("job", name).Warn("Failed to release job lock")
		}
	}
}

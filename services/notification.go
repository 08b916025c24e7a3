package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/services/repositories"
	"github.com/moodz-app/moodz_api/shared"
	log "github.com/sirupsen/logrus"
)

// NotificationDispatcher is what the job runner calls. Failures surface as
// errors the jobs catch per item.
type NotificationDispatcher interface {
	NotifySessionReminder(sessionID string) error
	NotifySessionStarting(sessionID string) error
	NotifyStreakRisk(userID string) error
}

// NotificationService writes in-app notification rows for session
// participants and streak-risk users.
type NotificationService struct {
	context.DefaultService

	dbSvc    *PostgresService
	emailSvc *EmailService

	notificationRepo *repositories.NotificationRepository
	sessionRepo      *repositories.SessionRepository
	userRepo         *repositories.UserRepository
}

const NOTIFICATION_SVC = "notification_svc"

func (svc NotificationService) Id() string {
	return NOTIFICATION_SVC
}

func (svc *NotificationService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *NotificationService) Start() error {
	svc.dbSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	svc.notificationRepo = repositories.NewNotificationRepository(svc.dbSvc.Db())
	svc.sessionRepo = repositories.NewSessionRepository(svc.dbSvc.Db())
	svc.userRepo = repositories.NewUserRepository(svc.dbSvc.Db())
	return nil
}

func (svc *NotificationService) NotifySessionReminder(sessionID string) error {
	if err := svc.notifySessionParticipants(sessionID, shared.NotificationSessionReminder,
		"Your session starts in about an hour",
		"Your group session %q starts at %s. Take a moment to get ready."); err != nil {
		return err
	}

	// Email is best effort on top of the in-app notification. A bounced
	// address must not mark the whole reminder failed.
	svc.emailSessionReminder(sessionID)
	return nil
}

func (svc *NotificationService) emailSessionReminder(sessionID string) {
	if svc.emailSvc == nil || svc.userRepo == nil {
		return
	}

	session, err := svc.sessionRepo.GetByID(sessionID)
	if err != nil {
		log.WithError(err).WithField("session_id", sessionID).Warn("Reminder email lookup failed")
		return
	}

	participants, err := svc.sessionRepo.Participants(sessionID)
	if err != nil {
		log.WithError(err).WithField("session_id", sessionID).Warn("Reminder email lookup failed")
		return
	}

	for _, userID := range participants {
		user, err := svc.userRepo.GetByID(userID)
		if err != nil || user == nil {
			continue
		}
		if err := svc.emailSvc.SendSessionReminderEmail(user.Email, user.Username, session.Title, session.ScheduledAt); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Reminder email failed")
		}
	}
}

func (svc *NotificationService) NotifySessionStarting(sessionID string) error {
	return svc.notifySessionParticipants(sessionID, shared.NotificationSessionStarting,
		"Your session is starting",
		"Your group session %q starts at %s. Join now.")
}

func (svc *NotificationService) notifySessionParticipants(sessionID, notificationType, title, bodyFormat string) error {
	session, err := svc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	participants, err := svc.sessionRepo.Participants(sessionID)
	if err != nil {
		return fmt.Errorf("session %s participants: %w", sessionID, err)
	}

	body := fmt.Sprintf(bodyFormat, session.Title, session.ScheduledAt.Format(time.Kitchen))

	for _, userID := range participants {
		err := svc.notificationRepo.Create(&model.Notification{
			UserID:    userID,
			Type:      notificationType,
			Title:     title,
			Body:      body,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("notify user %s for session %s: %w", userID, sessionID, err)
		}
	}

	log.WithFields(log.Fields{
		"session_id":   sessionID,
		"type":         notificationType,
		"participants": len(participants),
	}).Info("Session notification dispatched")

	return nil
}

func (svc *NotificationService) NotifyStreakRisk(userID string) error {
	err := svc.notificationRepo.Create(&model.Notification{
		UserID:    userID,
		Type:      shared.NotificationStreakRisk,
		Title:     "Don't lose your streak!",
		Body:      "You haven't checked in today. Log your mood to keep your streak going.",
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("notify user %s: %w", userID, err)
	}
	return nil
}

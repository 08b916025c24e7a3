package services

import (
	"fmt"
	"time"

	"github.com/moodz-app/moodz_api/dto"
	log "github.com/sirupsen/logrus"
)

const (
	reminderLeadTime  = time.Hour
	startingLeadTime  = 5 * time.Minute
	reminderTolerance = 7*time.Minute + 30*time.Second
	startingTolerance = 2*time.Minute + 30*time.Second
)

// RunSessionReminders fires "starts in ~1 hour" and "starts in ~5 minutes"
// notifications. The guard flags make repeat runs inside the same
// tolerance window no-ops: a session is notified at most once per
// threshold.
func (svc *JobService) RunSessionReminders() *dto.SessionReminderResult {
	start := time.Now()
	result := &dto.SessionReminderResult{Errors: []string{}}

	result.Reminders = svc.remindBatch(
		start.Add(reminderLeadTime), reminderTolerance,
		"reminder_sent", svc.dispatcher.NotifySessionReminder,
		&result.Errors,
	)

	result.Starting = svc.remindBatch(
		start.Add(startingLeadTime), startingTolerance,
		"starting_sent", svc.dispatcher.NotifySessionStarting,
		&result.Errors,
	)

	recordJobRun(JobSessionReminders, start, len(result.Errors))
	log.WithFields(log.Fields{
		"reminders": result.Reminders,
		"starting":  result.Starting,
		"errors":    len(result.Errors),
	}).Info("Session reminder job finished")

	return result
}

// remindBatch processes one threshold: sessions scheduled inside
// target±tolerance, still SCHEDULED, guard flag unset. One session's
// failure never blocks the rest.
func (svc *JobService) remindBatch(target time.Time, tolerance time.Duration, flagColumn string, notify func(string) error, errs *[]string) int {
	sessions, err := svc.sessionRepo.DueForReminder(target.Add(-tolerance), target.Add(tolerance), flagColumn)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s query: %v", flagColumn, err))
		return 0
	}

	sent := 0
	for _, session := range sessions {
		if err := notify(session.ID); err != nil {
			*errs = append(*errs, fmt.Sprintf("session %s: %v", session.ID, err))
			continue
		}

		if err := svc.sessionRepo.MarkFlag(session.ID, flagColumn, time.Now()); err != nil {
			*errs = append(*errs, fmt.Sprintf("session %s flag: %v", session.ID, err))
			continue
		}

		sent++
	}

	return sent
}

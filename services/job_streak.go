package services

import (
	"fmt"
	"time"

	"github.com/moodz-app/moodz_api/dto"
	log "github.com/sirupsen/logrus"
)

const streakRiskThreshold = 3

// RunStreakRisk notifies users whose check-in streak (3+ consecutive days
// of mood logs) is about to lapse because they have not logged today.
func (svc *JobService) RunStreakRisk() *dto.StreakRiskResult {
	start := time.Now()
	result := &dto.StreakRiskResult{Errors: []string{}}

	midnight := truncateToDay(start)
	weekAgo := start.AddDate(0, 0, -7)

	// Users with a log in the last 7 days but before today's midnight.
	candidateIDs, err := svc.moodRepo.UserIDsLoggedBetween(weekAgo, midnight)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("candidate query: %v", err))
		recordJobRun(JobStreakRisk, start, len(result.Errors))
		return result
	}

	activeIDs, err := svc.userRepo.FilterActive(candidateIDs)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("active filter: %v", err))
		recordJobRun(JobStreakRisk, start, len(result.Errors))
		return result
	}

	for _, userID := range activeIDs {
		// Anyone who already checked in today is out of the candidate set.
		loggedToday, err := svc.moodRepo.HasLogSince(userID, midnight)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("user %s: %v", userID, err))
			continue
		}
		if loggedToday {
			continue
		}

		result.Candidates++

		timestamps, err := svc.moodRepo.GetRecentTimestamps(userID, 7)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("user %s: %v", userID, err))
			continue
		}

		if computeStreak(start, timestamps) < streakRiskThreshold {
			continue
		}

		if err := svc.dispatcher.NotifyStreakRisk(userID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("user %s: %v", userID, err))
			continue
		}
		result.Notified++
	}

	recordJobRun(JobStreakRisk, start, len(result.Errors))
	log.WithFields(log.Fields{
		"candidates": result.Candidates,
		"notified":   result.Notified,
		"errors":     len(result.Errors),
	}).Info("Streak risk job finished")

	return result
}

// computeStreak walks timestamps (newest first) starting from now,
// counting consecutive calendar days and stopping at the first gap of
// more than one day. Multiple logs on one day count once.
func computeStreak(now time.Time, timestamps []time.Time) int {
	streak := 0
	prev := truncateToDay(now)

	for _, ts := range timestamps {
		day := truncateToDay(ts)
		if day.Equal(prev) {
			continue
		}
		if prev.Sub(day) > 24*time.Hour {
			break
		}
		streak++
		prev = day
	}

	return streak
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

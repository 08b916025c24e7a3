package services

import (
	stdContext "context"
	"fmt"
	"math"
	"time"

	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RunTherapistStats recomputes per-therapist derived statistics and
// upserts them. Per-therapist failures are isolated; the loop never
// aborts early.
func (svc *JobService) RunTherapistStats() *dto.TherapistStatsResult {
	start := time.Now()
	result := &dto.TherapistStatsResult{Errors: []string{}}

	therapists, err := svc.therapistRepo.GetAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("therapist query: %v", err))
		recordJobRun(JobTherapistStats, start, len(result.Errors))
		return result
	}
	result.Therapists = len(therapists)

	for _, therapist := range therapists {
		therapistID := therapist.UserID

		var (
			totalSessions     int64
			completedSessions int64
			patients          []string
			ratings           []int
		)

		g, _ := errgroup.WithContext(stdContext.Background())
		g.Go(func() (err error) {
			totalSessions, err = svc.sessionRepo.CountByTherapistAndStatus(therapistID,
				[]string{shared.SessionStatusCompleted, shared.SessionStatusLive})
			return
		})
		g.Go(func() (err error) {
			patients, err = svc.sessionRepo.DistinctPatients(therapistID)
			return
		})
		g.Go(func() (err error) {
			ratings, err = svc.therapistRepo.Ratings(therapistID)
			return
		})
		g.Go(func() (err error) {
			completedSessions, err = svc.sessionRepo.CountByTherapistAndStatus(therapistID,
				[]string{shared.SessionStatusCompleted})
			return
		})

		if err := g.Wait(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("therapist %s: %v", therapistID, err))
			continue
		}

		stats := &model.TherapistStats{
			TherapistID:       therapistID,
			TotalSessions:     int(totalSessions),
			CompletedSessions: int(completedSessions),
			UniquePatients:    len(patients),
			AvgRating:         averageRating(ratings),
		}

		if err := svc.therapistRepo.UpsertStats(stats, time.Now()); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("therapist %s upsert: %v", therapistID, err))
			continue
		}
		result.Updated++
	}

	// Cache the latest run so dashboards read it without touching the
	// stats tables. Best effort, the rows are the source of truth.
	if svc.redisSvc != nil {
		if err := svc.redisSvc.Set(stdContext.Background(), "therapist_stats:last_run", result, 24*time.Hour); err != nil {
			log.WithError(err).Warn("Failed to cache therapist stats result")
		}
	}

	recordJobRun(JobTherapistStats, start, len(result.Errors))
	log.WithFields(log.Fields{
		"therapists": result.Therapists,
		"updated":    result.Updated,
		"errors":     len(result.Errors),
	}).Info("Therapist stats job finished")

	return result
}

// averageRating is the arithmetic mean rounded to one decimal, or nil when
// no reviews exist.
func averageRating(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	avg := math.Round(float64(sum)/float64(len(ratings))*10) / 10
	return &avg
}

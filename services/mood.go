package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/services/repositories"
	"github.com/moodz-app/moodz_api/shared"
)

// MoodService owns mood check-ins, the data streaks are derived from.
type MoodService struct {
	context.DefaultService

	dbSvc *PostgresService

	moodRepo *repositories.MoodRepository
}

const MOOD_SVC = "mood_svc"

func (svc MoodService) Id() string {
	return MOOD_SVC
}

func (svc *MoodService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MoodService) Start() error {
	svc.dbSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.moodRepo = repositories.NewMoodRepository(svc.dbSvc.Db())
	return nil
}

func (svc *MoodService) LogMood(userID string, req dto.CreateMoodLogRequest) (*dto.MoodLogResponse, error) {
	if err := dto.GetValidator().Struct(req); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	entry := &model.MoodLog{
		UserID:    userID,
		Score:     req.Score,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}
	if err := svc.moodRepo.Create(entry); err != nil {
		return nil, err
	}

	return &dto.MoodLogResponse{
		ID:        entry.ID,
		Score:     entry.Score,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}, nil
}

func (svc *MoodService) GetHistory(userID string, limit int) (*dto.MoodHistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	logs, err := svc.moodRepo.GetRecent(userID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MoodLogResponse, 0, len(logs))
	for _, entry := range logs {
		responses = append(responses, dto.MoodLogResponse{
			ID:        entry.ID,
			Score:     entry.Score,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}

	timestamps, err := svc.moodRepo.GetRecentTimestamps(userID, 7)
	if err != nil {
		return nil, err
	}

	return &dto.MoodHistoryResponse{
		Logs:   responses,
		Streak: computeStreak(time.Now(), timestamps),
	}, nil
}

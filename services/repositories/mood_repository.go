package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/moodz-app/moodz_api/model"
	"gorm.io/gorm"
)

type MoodRepository struct {
	BaseRepository
}

func NewMoodRepository(db *gorm.DB) *MoodRepository {
	return &MoodRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *MoodRepository) Create(log *model.MoodLog) error {
	id, _ := uuid.NewV7()
	log.ID = id.String()
	return r.db.Create(log).Error
}

func (r *MoodRepository) GetRecent(userID string, limit int) ([]model.MoodLog, error) {
	var logs []model.MoodLog
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetRecentTimestamps returns the newest log timestamps for a user,
// descending. The streak job only needs the times, not the rows.
func (r *MoodRepository) GetRecentTimestamps(userID string, limit int) ([]time.Time, error) {
	var timestamps []time.Time
	err := r.db.Model(&model.MoodLog{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("created_at", &timestamps).Error
	return timestamps, err
}

// UserIDsLoggedBetween returns distinct user ids with at least one mood
// log inside [from, to).
func (r *MoodRepository) UserIDsLoggedBetween(from, to time.Time) ([]string, error) {
	var userIDs []string
	err := r.db.Model(&model.MoodLog{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

// HasLogSince reports whether the user logged at or after the given time.
func (r *MoodRepository) HasLogSince(userID string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.MoodLog{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count > 0, err
}

func (r *MoodRepository) GetAllForUser(userID string) ([]model.MoodLog, error) {
	var logs []model.MoodLog
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/model"
	"gorm.io/gorm"
)

// RateLimitRepository owns the persisted sliding counters.
type RateLimitRepository struct {
	BaseRepository
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetByKey returns the live entry for a key, or nil when absent.
func (r *RateLimitRepository) GetByKey(key string) (*model.RateLimitEntry, error) {
	var entry model.RateLimitEntry
	if err := r.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *RateLimitRepository) Create(entry *model.RateLimitEntry) error {
	id, _ := uuid.NewV7()
	entry.ID = id.String()
	return r.db.Create(entry).Error
}

// Reset starts a fresh window for an existing entry.
func (r *RateLimitRepository) Reset(key string, now, expiresAt time.Time) error {
	return r.db.Model(&model.RateLimitEntry{}).
		Where("key = ?", key).
		Updates(map[string]interface{}{
			"request_count": 1,
			"window_start":  now,
			"expires_at":    expiresAt,
			"updated_at":    now,
		}).Error
}

// Increment bumps the counter in a single UPDATE so concurrent requests
// for the same key never lose increments.
func (r *RateLimitRepository) Increment(key string, now time.Time) error {
	return r.db.Model(&model.RateLimitEntry{}).
		Where("key = ?", key).
		Updates(map[string]interface{}{
			"request_count": gorm.Expr("request_count + 1"),
			"updated_at":    now,
		}).Error
}

func (r *RateLimitRepository) DeleteByKey(key string) error {
	return r.db.Where("key = ?", key).Delete(&model.RateLimitEntry{}).Error
}

// DeleteExpired sweeps entries whose window has lapsed.
func (r *RateLimitRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&model.RateLimitEntry{})
	return result.RowsAffected, result.Error
}

func (r *RateLimitRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.RateLimitEntry{}).Count(&count).Error
	return count, err
}

func (r *RateLimitRepository) CountExpired(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.RateLimitEntry{}).
		Where("expires_at < ?", now).
		Count(&count).Error
	return count, err
}

// TopKeys returns the busiest entries by request count, descending.
func (r *RateLimitRepository) TopKeys(limit int) ([]dto.RateLimitKeyStat, error) {
	var stats []dto.RateLimitKeyStat
	err := r.db.Model(&model.RateLimitEntry{}).
		Select("key", "request_count").
		Order("request_count DESC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

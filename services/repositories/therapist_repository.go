package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/moodz-app/moodz_api/model"
	"gorm.io/gorm"
)

type TherapistRepository struct {
	BaseRepository
}

func NewTherapistRepository(db *gorm.DB) *TherapistRepository {
	return &TherapistRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *TherapistRepository) Create(profile *model.TherapistProfile) error {
	id, _ := uuid.NewV7()
	profile.ID = id.String()
	return r.db.Create(profile).Error
}

func (r *TherapistRepository) GetAll() ([]model.TherapistProfile, error) {
	var profiles []model.TherapistProfile
	err := r.db.Find(&profiles).Error
	return profiles, err
}

func (r *TherapistRepository) Ratings(therapistID string) ([]int, error) {
	var ratings []int
	err := r.db.Model(&model.Review{}).
		Where("therapist_id = ?", therapistID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *TherapistRepository) CreateReview(review *model.Review) error {
	id, _ := uuid.NewV7()
	review.ID = id.String()
	return r.db.Create(review).Error
}

// UpsertStats updates the stats row for a therapist or creates it when
// absent, stamping LastCalculatedAt either way.
func (r *TherapistRepository) UpsertStats(stats *model.TherapistStats, now time.Time) error {
	var existing model.TherapistStats
	err := r.db.Where("therapist_id = ?", stats.TherapistID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		id, _ := uuid.NewV7()
		stats.ID = id.String()
		stats.LastCalculatedAt = now
		return r.db.Create(stats).Error
	}

	return r.db.Model(&model.TherapistStats{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"total_sessions":     stats.TotalSessions,
			"completed_sessions": stats.CompletedSessions,
			"unique_patients":    stats.UniquePatients,
			"avg_rating":         stats.AvgRating,
			"last_calculated_at": now,
			"updated_at":         now,
		}).Error
}

func (r *TherapistRepository) GetStats(therapistID string) (*model.TherapistStats, error) {
	var stats model.TherapistStats
	if err := r.db.Where("therapist_id = ?", therapistID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

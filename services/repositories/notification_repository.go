package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/moodz-app/moodz_api/model"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *NotificationRepository) Create(notification *model.Notification) error {
	id, _ := uuid.NewV7()
	notification.ID = id.String()
	return r.db.Create(notification).Error
}

func (r *NotificationRepository) GetForUser(userID string, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) MarkRead(notificationID, userID string) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}

// DeleteReadBefore removes read notifications older than the cutoff.
func (r *NotificationRepository) DeleteReadBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}

// DeleteUnreadBefore removes unread notifications older than the cutoff.
// Unread rows get a longer retention than read ones.
func (r *NotificationRepository) DeleteUnreadBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("read = ? AND created_at < ?", false, cutoff).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) CreateEmailLog(log *model.EmailLog) error {
	id, _ := uuid.NewV7()
	log.ID = id.String()
	return r.db.Create(log).Error
}

func (r *NotificationRepository) DeleteEmailLogsBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&model.EmailLog{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) CreateAuditLog(log *model.AuditLog) error {
	id, _ := uuid.NewV7()
	log.ID = id.String()
	return r.db.Create(log).Error
}

func (r *NotificationRepository) DeleteAuditLogsBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&model.AuditLog{})
	return result.RowsAffected, result.Error
}

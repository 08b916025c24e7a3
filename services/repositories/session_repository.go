package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/shared"
	"gorm.io/gorm"
)

// SessionRepository handles therapy session database operations
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *SessionRepository) Create(session *model.TherapySession) error {
	id, _ := uuid.NewV7()
	session.ID = id.String()
	return r.db.Create(session).Error
}

func (r *SessionRepository) GetByID(sessionID string) (*model.TherapySession, error) {
	var session model.TherapySession
	if err := r.db.Where("id = ?", sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DueForReminder finds SCHEDULED sessions whose start time falls inside
// [from, to] and whose guard flag for the given threshold is still unset.
func (r *SessionRepository) DueForReminder(from, to time.Time, flagColumn string) ([]model.TherapySession, error) {
	var sessions []model.TherapySession
	err := r.db.Where("scheduled_at >= ? AND scheduled_at <= ?", from, to).
		Where("status = ?", shared.SessionStatusScheduled).
		Where(flagColumn+" = ?", false).
		Order("scheduled_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// MarkFlag flips a reminder guard flag. Once set, repeated job runs inside
// the same tolerance window skip the session.
func (r *SessionRepository) MarkFlag(sessionID, flagColumn string, now time.Time) error {
	return r.db.Model(&model.TherapySession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			flagColumn:   true,
			"updated_at": now,
		}).Error
}

// CancelStale marks SCHEDULED sessions as CANCELLED once their start time
// is older than the cutoff.
func (r *SessionRepository) CancelStale(cutoff, now time.Time) (int64, error) {
	result := r.db.Model(&model.TherapySession{}).
		Where("status = ? AND scheduled_at < ?", shared.SessionStatusScheduled, cutoff).
		Updates(map[string]interface{}{
			"status":     shared.SessionStatusCancelled,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *SessionRepository) CountByTherapistAndStatus(therapistID string, statuses []string) (int64, error) {
	var count int64
	err := r.db.Model(&model.TherapySession{}).
		Where("therapist_id = ? AND status IN ?", therapistID, statuses).
		Count(&count).Error
	return count, err
}

// DistinctPatients returns unique participant user ids across a
// therapist's completed sessions.
func (r *SessionRepository) DistinctPatients(therapistID string) ([]string, error) {
	var userIDs []string
	err := r.db.Model(&model.SessionParticipant{}).
		Joins("JOIN therapy_sessions ON therapy_sessions.id = session_participants.session_id").
		Where("therapy_sessions.therapist_id = ? AND therapy_sessions.status = ?",
			therapistID, shared.SessionStatusCompleted).
		Distinct("session_participants.user_id").
		Pluck("session_participants.user_id", &userIDs).Error
	return userIDs, err
}

func (r *SessionRepository) Participants(sessionID string) ([]string, error) {
	var userIDs []string
	err := r.db.Model(&model.SessionParticipant{}).
		Where("session_id = ?", sessionID).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *SessionRepository) AddParticipant(sessionID, userID string, now time.Time) error {
	id, _ := uuid.NewV7()
	return r.db.Create(&model.SessionParticipant{
		ID:        id.String(),
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
	}).Error
}

func (r *SessionRepository) Upcoming(limit int) ([]model.TherapySession, error) {
	var sessions []model.TherapySession
	err := r.db.Where("status = ? AND scheduled_at >= ?", shared.SessionStatusScheduled, time.Now()).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

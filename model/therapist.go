package model

import "time"

type TherapistProfile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;not null;size:64"`
	Bio       string    `json:"bio" gorm:"type:text"`
	Specialty string    `json:"specialty" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

type Review struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text;not null"`
	TherapistID string    `json:"therapist_id" gorm:"index;not null;size:64"`
	UserID      string    `json:"user_id" gorm:"not null;size:64"`
	Rating      int       `json:"rating" gorm:"not null"`
	Comment     string    `json:"comment" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
}

// TherapistStats is the derived row recomputed by the stats job.
// AvgRating is nil when the therapist has no reviews.
type TherapistStats struct {
	ID                string    `json:"id" gorm:"primaryKey;type:text;not null"`
	TherapistID       string    `json:"therapist_id" gorm:"uniqueIndex;not null;size:64"`
	TotalSessions     int       `json:"total_sessions" gorm:"default:0;not null"`
	CompletedSessions int       `json:"completed_sessions" gorm:"default:0;not null"`
	UniquePatients    int       `json:"unique_patients" gorm:"default:0;not null"`
	AvgRating         *float64  `json:"avg_rating,omitempty"`
	LastCalculatedAt  time.Time `json:"last_calculated_at" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"not null"`
}

package model

import "time"

// MoodLog is a single check-in. Streak logic only cares about CreatedAt;
// the score and note belong to the journaling surface.
type MoodLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string    `json:"user_id" gorm:"index;not null;size:64"`
	Score     int       `json:"score" gorm:"not null"`
	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
}

package model

import "time"

// RateLimitEntry is the persisted sliding counter for a single composite
// key. Exactly one live row exists per key; Key uniqueness is enforced by
// the store.
type RateLimitEntry struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Key          string    `json:"key" gorm:"uniqueIndex;not null;size:512"`
	RequestCount int       `json:"request_count" gorm:"default:0;not null"`
	WindowStart  time.Time `json:"window_start" gorm:"not null"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null"`
}

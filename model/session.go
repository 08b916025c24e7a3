package model

import "time"

// TherapySession is a scheduled group session. ReminderSent/StartingSent
// are the guard flags that keep the reminder job idempotent across runs.
type TherapySession struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text;not null"`
	TherapistID  string    `json:"therapist_id" gorm:"index;not null;size:64"`
	Title        string    `json:"title" gorm:"not null;size:255"`
	ScheduledAt  time.Time `json:"scheduled_at" gorm:"index;not null"`
	Status       string    `json:"status" gorm:"not null;size:20;default:SCHEDULED;index"`
	ReminderSent bool      `json:"reminder_sent" gorm:"default:false;not null"`
	StartingSent bool      `json:"starting_sent" gorm:"default:false;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null"`
}

type SessionParticipant struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	SessionID string    `json:"session_id" gorm:"index:idx_session_user,unique;not null;size:64"`
	UserID    string    `json:"user_id" gorm:"index:idx_session_user,unique;not null;size:64"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

package model

import "time"

type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string    `json:"user_id" gorm:"index;not null;size:64"`
	Type      string    `json:"type" gorm:"not null;size:50"`
	Title     string    `json:"title" gorm:"not null;size:255"`
	Body      string    `json:"body" gorm:"type:text"`
	Read      bool      `json:"read" gorm:"default:false;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
}

type EmailLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Recipient string    `json:"recipient" gorm:"not null;size:255"`
	Subject   string    `json:"subject" gorm:"size:255"`
	Status    string    `json:"status" gorm:"not null;size:20"`
	Error     string    `json:"error,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
}

package model

import "time"

type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"unique"`
	Username  string `gorm:"unique;not null"`
	Password  string
	Role      string `gorm:"not null;size:20;default:PATIENT"`
	Status    string `gorm:"not null;size:20;default:ACTIVE;index"`
	LastLogin time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuditLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string    `json:"user_id" gorm:"index;size:64"`
	Action    string    `json:"action" gorm:"not null;size:100"`
	Detail    string    `json:"detail" gorm:"type:text"`
	IPAddress string    `json:"ip_address" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
}

package model

import "time"

const (
	LoginMethodPassword = "password"
	LoginMethodGoogle   = "google"
)

type LoginHistory struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Method    string    `gorm:"size:20;not null"`
	Device    string    `gorm:"size:100"` // raw User-Agent, truncated
	IP        string    `gorm:"size:50"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SupportPriority string

const (
	PriorityLow    SupportPriority = "low"
	PriorityMedium SupportPriority = "medium"
	PriorityHigh   SupportPriority = "high"
)

type SupportStatus string

const (
	SupportPending    SupportStatus = "pending"
	SupportInProgress SupportStatus = "in_progress"
	SupportResolved   SupportStatus = "resolved"
)

type UserSupport struct {
	gorm.Model
	UserID   uint                        `json:"user_id" gorm:"index;not null"`
	Name     string                      `json:"name" gorm:"size:255;not null"`
	Email    string                      `json:"email" gorm:"size:100;not null"`
	Phone    string                      `json:"phone" gorm:"size:20;not null"`
	Priority SupportPriority             `json:"priority" gorm:"size:10;default:low"`
	Subject  string                      `json:"subject" gorm:"size:255;not null"`
	Message  string                      `json:"message" gorm:"type:text;not null"`
	Images   datatypes.JSONSlice[string] `json:"images"`
	Status   SupportStatus               `json:"status" gorm:"size:20;default:pending"`
}

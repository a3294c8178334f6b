package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TargetUserID uint           `gorm:"not null;index" json:"target_user_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Message      string         `gorm:"type:text" json:"message"`
	Kind         string         `gorm:"size:32;not null;default:'generic'" json:"kind"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

const (
	NotificationKindGeneric  = "generic"
	NotificationKindReminder = "competition_reminder"
)

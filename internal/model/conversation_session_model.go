package model

import (
	"time"

	"gorm.io/datatypes"
)

type ConversationSession struct {
	Id                  string         `gorm:"type:varchar(64);primaryKey"`
	CurrentState        string         `gorm:"type:varchar(64);default:initial_greeting"`
	Preferences         datatypes.JSON `gorm:"type:jsonb"`
	LastShownProductIds datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime"`
	EndedAt             *time.Time
	IsActive            bool `gorm:"default:true"`
}

func (ConversationSession) TableName() string {
	return "conversation_sessions"
}

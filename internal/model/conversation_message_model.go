package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConversationMessage struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId         string         `gorm:"type:varchar(64);not null;index"`
	Role              string         `gorm:"type:varchar(16);not null"` // user, assistant
	Content           string         `gorm:"type:text;not null"`
	PreferencesAtTurn datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// One row per product surfaced to the shopper.
type RecommendationEvent struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       string         `gorm:"type:varchar(64);not null;index"`
	ProductId       string         `gorm:"type:varchar(64);not null;index"`
	SimilarityScore *float64       `gorm:"type:double precision"` // nil outside the semantic tier
	Tier            string         `gorm:"type:varchar(16)"`      // semantic, attribute, browse
	ConfidenceLevel string         `gorm:"type:varchar(16)"`      // high, medium, low
	Preferences     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
}

func (RecommendationEvent) TableName() string {
	return "recommendation_events"
}

package entity

import (
	"time"

	"github.com/google/uuid"

	"jewelry-assistant-be/pkg/assistant/preference"
)

// RecommendationEvent is the audit record of one product surfaced to a
// shopper. Similarity is nil when the product did not come from the
// semantic tier.
type RecommendationEvent struct {
	Id          uuid.UUID
	SessionId   string
	ProductId   string
	Similarity  *float64
	Tier        string
	Confidence  string
	Preferences preference.Preferences
	CreatedAt   time.Time
}

package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"jewelry-assistant-be/internal/entity"
	"jewelry-assistant-be/internal/model"
	"jewelry-assistant-be/pkg/assistant/preference"
)

type RecommendationEventMapper struct{}

func NewRecommendationEventMapper() *RecommendationEventMapper {
	return &RecommendationEventMapper{}
}

func (m *RecommendationEventMapper) ToModel(e *entity.RecommendationEvent) *model.RecommendationEvent {
	if e == nil {
		return nil
	}

	prefs, _ := json.Marshal(e.Preferences)

	return &model.RecommendationEvent{
		Id:              e.Id,
		SessionId:       e.SessionId,
		ProductId:       e.ProductId,
		SimilarityScore: e.Similarity,
		Tier:            e.Tier,
		ConfidenceLevel: e.Confidence,
		Preferences:     datatypes.JSON(prefs),
		CreatedAt:       e.CreatedAt,
	}
}

func (m *RecommendationEventMapper) ToEntity(r *model.RecommendationEvent) *entity.RecommendationEvent {
	if r == nil {
		return nil
	}

	var prefs preference.Preferences
	if len(r.Preferences) > 0 {
		_ = json.Unmarshal(r.Preferences, &prefs)
	}

	return &entity.RecommendationEvent{
		Id:          r.Id,
		SessionId:   r.SessionId,
		ProductId:   r.ProductId,
		Similarity:  r.SimilarityScore,
		Tier:        r.Tier,
		Confidence:  r.ConfidenceLevel,
		Preferences: prefs,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *RecommendationEventMapper) ToEntities(events []*model.RecommendationEvent) []*entity.RecommendationEvent {
	entities := make([]*entity.RecommendationEvent, len(events))
	for i, e := range events {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

package contract

import (
	"context"

	"jewelry-assistant-be/internal/entity"
	"jewelry-assistant-be/internal/repository/specification"
)

type RecommendationEventRepository interface {
	Create(ctx context.Context, event *entity.RecommendationEvent) error
	FindBySession(ctx context.Context, sessionId string) ([]*entity.RecommendationEvent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

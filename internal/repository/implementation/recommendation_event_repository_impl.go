package implementation

import (
	"context"

	"gorm.io/gorm"

	"jewelry-assistant-be/internal/entity"
	"jewelry-assistant-be/internal/mapper"
	"jewelry-assistant-be/internal/model"
	"jewelry-assistant-be/internal/repository/contract"
	"jewelry-assistant-be/internal/repository/specification"
)

type RecommendationEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecommendationEventMapper
}

func NewRecommendationEventRepository(db *gorm.DB) contract.RecommendationEventRepository {
	return &RecommendationEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecommendationEventMapper(),
	}
}

func (r *RecommendationEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RecommendationEventRepositoryImpl) Create(ctx context.Context, event *entity.RecommendationEvent) error {
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecommendationEventRepositoryImpl) FindBySession(ctx context.Context, sessionId string) ([]*entity.RecommendationEvent, error) {
	return r.FindAll(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *RecommendationEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationEvent, error) {
	var models []*model.RecommendationEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RecommendationEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.RecommendationEvent{}).Count(&count).Error
	return count, err
}

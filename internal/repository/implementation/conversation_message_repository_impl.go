package implementation

import (
	"context"

	"gorm.io/gorm"

	"jewelry-assistant-be/internal/mapper"
	"jewelry-assistant-be/internal/model"
	"jewelry-assistant-be/internal/repository/contract"
	"jewelry-assistant-be/internal/repository/specification"
	"jewelry-assistant-be/pkg/store"
)

type ConversationMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewConversationMessageRepository(db *gorm.DB) contract.ConversationMessageRepository {
	return &ConversationMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *ConversationMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationMessageRepositoryImpl) Create(ctx context.Context, turn *store.Turn) error {
	m := r.mapper.TurnToModel(turn)
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ConversationMessageRepositoryImpl) RecentBySession(ctx context.Context, sessionId string, limit int) ([]*store.Turn, error) {
	if limit <= 0 {
		limit = 5
	}

	var models []*model.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order.
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return r.mapper.TurnsToEntities(models), nil
}

func (r *ConversationMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*store.Turn, error) {
	var models []*model.ConversationMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TurnsToEntities(models), nil
}

func (r *ConversationMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ConversationMessage{}).Count(&count).Error
	return count, err
}

package implementation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jewelry-assistant-be/internal/mapper"
	"jewelry-assistant-be/internal/model"
	"jewelry-assistant-be/internal/repository/contract"
	"jewelry-assistant-be/internal/repository/specification"
	"jewelry-assistant-be/pkg/store"
)

type ConversationSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewConversationSessionRepository(db *gorm.DB) contract.ConversationSessionRepository {
	return &ConversationSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *ConversationSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationSessionRepositoryImpl) Upsert(ctx context.Context, session *store.Session) error {
	m := r.mapper.ToModel(session)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_state", "preferences", "last_shown_product_ids", "updated_at", "is_active",
			}),
		}).
		Create(m).Error
}

func (r *ConversationSessionRepositoryImpl) FindById(ctx context.Context, id string) (*store.Session, error) {
	var m model.ConversationSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConversationSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*store.Session, error) {
	var models []*model.ConversationSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*store.Session, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.ToEntity(m)
	}
	return sessions, nil
}

func (r *ConversationSessionRepositoryImpl) End(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.ConversationSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  &now,
		}).Error
}

func (r *ConversationSessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ConversationSession{}).Error
}

func (r *ConversationSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ConversationSession{}).Count(&count).Error
	return count, err
}

package unitofwork

import (
	"context"

	"jewelry-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProductRepository() contract.ProductRepository
	ProductEmbeddingRepository() contract.ProductEmbeddingRepository
	ConversationSessionRepository() contract.ConversationSessionRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	RecommendationEventRepository() contract.RecommendationEventRepository
}

package sessionstore

import (
	"context"

	"jewelry-assistant-be/internal/repository/unitofwork"
	"jewelry-assistant-be/pkg/store"
)

// DatabaseStore persists sessions and turns through the repository layer.
// Delete only ends the session; the rows stay for auditing.
type DatabaseStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDatabaseStore(uowFactory unitofwork.RepositoryFactory) *DatabaseStore {
	return &DatabaseStore{uowFactory: uowFactory}
}

func (s *DatabaseStore) Get(ctx context.Context, id string) (*store.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationSessionRepository().FindById(ctx, id)
}

func (s *DatabaseStore) Put(ctx context.Context, sess *store.Session) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationSessionRepository().Upsert(ctx, sess)
}

func (s *DatabaseStore) Delete(ctx context.Context, id string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationSessionRepository().End(ctx, id)
}

func (s *DatabaseStore) AppendTurn(ctx context.Context, turn *store.Turn) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationMessageRepository().Create(ctx, turn)
}

func (s *DatabaseStore) RecentTurns(ctx context.Context, sessionId string, limit int) ([]*store.Turn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationMessageRepository().RecentBySession(ctx, sessionId, limit)
}

package sessionstore

import (
	"context"
	"log"

	"jewelry-assistant-be/pkg/store"
)

// LayeredStore reads from the hot store (Redis) and falls back to the durable
// store (Postgres). Writes go to both; the durable store is the source of
// truth, so a hot-store failure is logged while a durable failure is returned.
// The hot store only ever costs latency, never correctness.
type LayeredStore struct {
	hot     Store
	durable Store
	logger  *log.Logger
}

func NewLayeredStore(hot, durable Store, logger *log.Logger) *LayeredStore {
	return &LayeredStore{
		hot:     hot,
		durable: durable,
		logger:  logger,
	}
}

func (s *LayeredStore) Get(ctx context.Context, id string) (*store.Session, error) {
	sess, err := s.hot.Get(ctx, id)
	if err != nil {
		s.logger.Printf("[SESSION] hot store read failed, trying durable: %v", err)
	}
	if sess != nil {
		return sess, nil
	}

	sess, err = s.durable.Get(ctx, id)
	if err != nil || sess == nil {
		return sess, err
	}

	// Repopulate the hot store so the next turn is cheap again.
	if err := s.hot.Put(ctx, sess); err != nil {
		s.logger.Printf("[SESSION] hot store repopulate failed: %v", err)
	}
	return sess, nil
}

func (s *LayeredStore) Put(ctx context.Context, sess *store.Session) error {
	if err := s.hot.Put(ctx, sess); err != nil {
		s.logger.Printf("[SESSION] hot write failed for session %s: %v", sess.ID, err)
	}
	return s.durable.Put(ctx, sess)
}

func (s *LayeredStore) Delete(ctx context.Context, id string) error {
	if err := s.hot.Delete(ctx, id); err != nil {
		s.logger.Printf("[SESSION] hot delete failed for session %s: %v", id, err)
	}
	return s.durable.Delete(ctx, id)
}

func (s *LayeredStore) AppendTurn(ctx context.Context, turn *store.Turn) error {
	if err := s.hot.AppendTurn(ctx, turn); err != nil {
		s.logger.Printf("[SESSION] hot turn write failed for session %s: %v", turn.SessionID, err)
	}
	return s.durable.AppendTurn(ctx, turn)
}

func (s *LayeredStore) RecentTurns(ctx context.Context, sessionId string, limit int) ([]*store.Turn, error) {
	turns, err := s.hot.RecentTurns(ctx, sessionId, limit)
	if err != nil {
		s.logger.Printf("[SESSION] hot history read failed, trying durable: %v", err)
	}
	if len(turns) > 0 {
		return turns, nil
	}
	return s.durable.RecentTurns(ctx, sessionId, limit)
}

package sessionstore

import (
	"context"

	"jewelry-assistant-be/pkg/store"
)

// Store holds conversation sessions and their turn history. Get returns
// (nil, nil) when the session does not exist.
type Store interface {
	Get(ctx context.Context, id string) (*store.Session, error)
	Put(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, id string) error
	AppendTurn(ctx context.Context, turn *store.Turn) error
	// RecentTurns returns up to limit latest turns in chronological order.
	RecentTurns(ctx context.Context, sessionId string, limit int) ([]*store.Turn, error)
}

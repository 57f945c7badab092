package contract

import (
	"context"

	"jewelry-assistant-be/internal/repository/specification"
	"jewelry-assistant-be/pkg/store"
)

type ConversationSessionRepository interface {
	Upsert(ctx context.Context, session *store.Session) error
	FindById(ctx context.Context, id string) (*store.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*store.Session, error)
	End(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type ConversationMessageRepository interface {
	Create(ctx context.Context, turn *store.Turn) error
	// RecentBySession returns the latest turns in chronological order.
	RecentBySession(ctx context.Context, sessionId string, limit int) ([]*store.Turn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*store.Turn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

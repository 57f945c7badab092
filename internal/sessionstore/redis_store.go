package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jewelry-assistant-be/pkg/store"
)

// Redis keyspace: session:<id> holds the session JSON, history:<id> is an
// append-only list of turn JSON. History lives longer than the session so a
// just-expired conversation can still be reviewed.
const (
	sessionKeyPrefix = "session:"
	historyKeyPrefix = "history:"
)

type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
	historyTTL time.Duration
}

func NewRedisStore(client *redis.Client, sessionTTL, historyTTL time.Duration) *RedisStore {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	if historyTTL <= 0 {
		historyTTL = 2 * time.Hour
	}
	return &RedisStore{
		client:     client,
		sessionTTL: sessionTTL,
		historyTTL: historyTTL,
	}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*store.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sess store.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess *store.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sess.ID, data, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id, historyKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) AppendTurn(ctx context.Context, turn *store.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}

	key := historyKeyPrefix + turn.SessionID
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append turn: %w", err)
	}
	return nil
}

func (s *RedisStore) RecentTurns(ctx context.Context, sessionId string, limit int) ([]*store.Turn, error) {
	if limit <= 0 {
		limit = 5
	}

	raw, err := s.client.LRange(ctx, historyKeyPrefix+sessionId, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read history: %w", err)
	}

	turns := make([]*store.Turn, 0, len(raw))
	for _, item := range raw {
		var turn store.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue // skip a corrupt record rather than lose the whole history
		}
		turns = append(turns, &turn)
	}
	return turns, nil
}

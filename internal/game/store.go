// internal/game/store.go
package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/connortbot/yappers.live/internal/models"
)

// GameExpiry is the sliding TTL on room documents; every save refreshes it.
const GameExpiry = 24 * time.Hour

// Store is the room document store. Saves are full-document overwrites, so
// callers must read-modify-write under the per-room lock. Any error other
// than ErrNotFound is an infrastructure fault and safe to retry.
type Store interface {
	Get(ctx context.Context, gameID string) (*models.Game, error)
	GetByCode(ctx context.Context, code string) (*models.Game, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, g *models.Game) error
	Delete(ctx context.Context, g *models.Game) error
}

func gameKey(gameID string) string { return "game:" + gameID }
func codeKey(code string) string   { return "code:" + strings.ToUpper(code) }

// RedisStore persists one JSON document per room under game:<id>, plus a
// code:<CODE> index entry mapping the join code back to the id. Expiry is
// delegated to Redis.
type RedisStore struct {
	rdb *redis.Client
	now func() int64
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		now: func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *RedisStore) Get(ctx context.Context, gameID string) (*models.Game, error) {
	data, err := s.rdb.Get(ctx, gameKey(gameID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}

	var g models.Game
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, fmt.Errorf("failed to decode game %s: %w", gameID, err)
	}
	return &g, nil
}

func (s *RedisStore) GetByCode(ctx context.Context, code string) (*models.Game, error) {
	gameID, err := s.rdb.Get(ctx, codeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve code %s: %w", code, err)
	}
	return s.Get(ctx, gameID)
}

func (s *RedisStore) CodeExists(ctx context.Context, code string) (bool, error) {
	n, err := s.rdb.Exists(ctx, codeKey(code)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check code %s: %w", code, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Save(ctx context.Context, g *models.Game) error {
	g.LastActivityAt = s.now()

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to encode game %s: %w", g.ID, err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(g.ID), data, GameExpiry)
		pipe.Set(ctx, codeKey(g.Code), g.ID, GameExpiry)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", g.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, g *models.Game) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, gameKey(g.ID))
		pipe.Del(ctx, codeKey(g.Code))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", g.ID, err)
	}
	return nil
}

package services

import (
	"context"
	"encoding/json"
	"time"

	"unjumble/models"

	"github.com/redis/go-redis/v9"
)

// PlayCache keeps play-ready game records in redis so public fetches skip the
// database. It stores the raw record, not the jumbled projection, so every
// play request still gets a fresh shuffle. A nil client disables caching.
type PlayCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlayCache(client *redis.Client, ttl time.Duration) *PlayCache {
	return &PlayCache{client: client, ttl: ttl}
}

func (c *PlayCache) key(gameID string) string {
	return "unjumble:play:" + gameID
}

// Get returns the cached record or nil on any miss or decode failure.
func (c *PlayCache) Get(ctx context.Context, gameID string) *models.Game {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, c.key(gameID)).Bytes()
	if err != nil {
		return nil
	}

	var game models.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil
	}
	return &game
}

func (c *PlayCache) Set(ctx context.Context, game *models.Game) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(game.ID), data, c.ttl).Err()
}

func (c *PlayCache) Invalidate(ctx context.Context, gameID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(gameID)).Err()
}

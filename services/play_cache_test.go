package services_test

import (
	"context"
	"testing"
	"time"

	"unjumble/models"
	"unjumble/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedTestEnv(t *testing.T) (*testEnv, *services.PlayCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cache := services.NewPlayCache(client, time.Minute)
	return newTestEnvWithCache(t, cache), cache
}

func TestPlayCacheServesRepeatFetches(t *testing.T) {
	env, cache := newCachedTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", models.RoleAdmin)
	game := env.createPublishedGame(t, owner.ID, "Animals")

	_, err := env.play.GetPlay(ctx, game.ID, true)
	require.NoError(t, err)
	require.NotNil(t, cache.Get(ctx, game.ID))

	// Change the row behind the cache's back: the play view keeps serving
	// the cached record until something invalidates it.
	require.NoError(t, env.db.Model(&models.Game{}).Where("id = ?", game.ID).
		UpdateColumn("name", "Renamed Underneath").Error)

	view, err := env.play.GetPlay(ctx, game.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Animals", view.Name)
}

func TestPlayViewReflectsUpdateImmediately(t *testing.T) {
	env, cache := newCachedTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", models.RoleAdmin)
	game := env.createPublishedGame(t, owner.ID, "Animals")

	_, err := env.play.GetPlay(ctx, game.ID, true)
	require.NoError(t, err)
	require.NotNil(t, cache.Get(ctx, game.ID))

	_, err = env.games.UpdateGame(ctx, game.ID, owner.ID, owner.Role, &services.GameForm{Name: "Wild Animals"})
	require.NoError(t, err)

	view, err := env.play.GetPlay(ctx, game.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Wild Animals", view.Name)
}

func TestPlayViewReflectsUnpublishImmediately(t *testing.T) {
	env, cache := newCachedTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", models.RoleAdmin)
	game := env.createPublishedGame(t, owner.ID, "Animals")

	_, err := env.play.GetPlay(ctx, game.ID, true)
	require.NoError(t, err)
	require.NotNil(t, cache.Get(ctx, game.ID))

	_, err = env.games.UpdatePublishStatus(ctx, game.ID, owner.ID, owner.Role, false)
	require.NoError(t, err)

	_, err = env.play.GetPlay(ctx, game.ID, true)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPlayViewGoneAfterDelete(t *testing.T) {
	env, cache := newCachedTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", models.RoleAdmin)
	game := env.createPublishedGame(t, owner.ID, "Animals")

	_, err := env.play.GetPlay(ctx, game.ID, true)
	require.NoError(t, err)
	require.NotNil(t, cache.Get(ctx, game.ID))

	require.NoError(t, env.games.DeleteGame(ctx, game.ID, owner.ID, owner.Role))

	_, err = env.play.GetPlay(ctx, game.ID, true)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Nil(t, cache.Get(ctx, game.ID))
}

func TestIncrementPlayCountInvalidatesCache(t *testing.T) {
	env, cache := newCachedTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", models.RoleAdmin)
	game := env.createPublishedGame(t, owner.ID, "Animals")

	_, err := env.play.GetPlay(ctx, game.ID, true)
	require.NoError(t, err)
	cached := cache.Get(ctx, game.ID)
	require.NotNil(t, cached)
	assert.Equal(t, int64(0), cached.PlayCount)

	require.NoError(t, env.play.IncrementPlayCount(ctx, game.ID))
	assert.Nil(t, cache.Get(ctx, game.ID))

	// The next fetch re-caches the record with the fresh count.
	_, err = env.play.GetPlay(ctx, game.ID, true)
	require.NoError(t, err)
	cached = cache.Get(ctx, game.ID)
	require.NotNil(t, cached)
	assert.Equal(t, int64(1), cached.PlayCount)
}

func TestPlayCacheDisabledWithNilClient(t *testing.T) {
	ctx := context.Background()
	cache := services.NewPlayCache(nil, 0)

	assert.Nil(t, cache.Get(ctx, "some-id"))
	assert.NoError(t, cache.Set(ctx, &models.Game{ID: "some-id"}))
	assert.NoError(t, cache.Invalidate(ctx, "some-id"))
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "arcade:", nil)
	ctx := context.Background()

	var out map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "site:public", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "site:public", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "highscores:*"))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryKeyPrefix(t *testing.T) {
	assert.Equal(t, "venue-2:site:public", NewCacheRepository(nil, "venue-2:", nil).key("site:public"))
	assert.Equal(t, "site:public", NewCacheRepository(nil, "", nil).key("site:public"))
}

func TestCacheRepositoryUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	repo := NewCacheRepository(client, "arcade:", nil)
	defer repo.Close()
	ctx := context.Background()

	var out string
	err := repo.Get(ctx, "site:public", &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Error(t, repo.Set(ctx, "site:public", "x", time.Minute))
	assert.Error(t, repo.DeleteByPattern(ctx, "*"))
}

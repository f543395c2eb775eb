package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

func TestChangeNotifierInvalidatesAndPublishes(t *testing.T) {
	cacheRepo := newMemCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, CacheKeySite, "x", 0))
	require.NoError(t, cache.Set(ctx, CacheKeyLeaderboard+"all", "y", 0))

	pub := &recordingPublisher{}
	NewChangeNotifier(cache, pub, nil).Notify(ctx, models.TopicRosters)
	assert.False(t, cacheRepo.has(CacheKeySite))
	assert.True(t, cacheRepo.has(CacheKeyLeaderboard+"all"))

	NewChangeNotifier(cache, pub, nil).Notify(ctx, models.TopicHighscores)
	assert.False(t, cacheRepo.has(CacheKeyLeaderboard+"all"))
	assert.Equal(t, []string{models.TopicRosters, models.TopicHighscores}, pub.published())
}

func TestChangeNotifierSwallowsFailures(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis gone")}
	assert.NotPanics(t, func() {
		NewChangeNotifier(nil, pub, nil).Notify(context.Background(), models.TopicEvents, models.TopicStatus)
	})
	assert.Len(t, pub.published(), 2)

	var nilNotifier *ChangeNotifier
	assert.NotPanics(t, func() { nilNotifier.Notify(context.Background(), models.TopicEvents) })
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	cacheRepo := newMemCacheRepo()
	cache := NewCacheService(cacheRepo, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", 0))
	var out string
	hit, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, cacheRepo.has("k"))
}

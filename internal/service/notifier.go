package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

// ChangePublisher fans a topic change out to live subscribers.
type ChangePublisher interface {
	Publish(ctx context.Context, topic string) error
}

// ChangeNotifier runs the side effects of a successful write: cache invalidation
// and a live broadcast. Failures are logged and never reach the writer.
type ChangeNotifier struct {
	cache     *CacheService
	publisher ChangePublisher
	logger    *zap.Logger
}

// NewChangeNotifier constructs a notifier. Both cache and publisher may be nil.
func NewChangeNotifier(cache *CacheService, publisher ChangePublisher, logger *zap.Logger) *ChangeNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeNotifier{cache: cache, publisher: publisher, logger: logger}
}

// Notify invalidates cached public payloads and publishes each topic.
func (n *ChangeNotifier) Notify(ctx context.Context, topics ...string) {
	if n == nil {
		return
	}

	patterns := []string{cachePatternSite}
	for _, topic := range topics {
		if topic == models.TopicHighscores {
			patterns = append(patterns, cachePatternLeaderboard)
		}
	}
	for _, pattern := range patterns {
		if err := n.cache.Invalidate(ctx, pattern); err != nil {
			n.logger.Warn("invalidate cache after write", zap.String("pattern", pattern), zap.Error(err))
		}
	}

	if n.publisher == nil {
		return
	}
	for _, topic := range topics {
		if err := n.publisher.Publish(ctx, topic); err != nil {
			n.logger.Warn("publish change", zap.String("topic", topic), zap.Error(err))
		}
	}
}

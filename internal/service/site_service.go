package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
)

type eventLister interface {
	List(ctx context.Context, upcomingOnly bool) ([]models.Event, error)
}

type leaderboardReader interface {
	Leaderboard(ctx context.Context, game string) ([]models.Highscore, error)
}

type contentReader interface {
	Rosters(ctx context.Context) (models.Rosters, error)
	Timetable(ctx context.Context) ([]models.DaySchedule, error)
	Settings(ctx context.Context) (models.SettingsDocument, error)
}

type statusReader interface {
	Current(ctx context.Context) (models.LiveStatus, error)
}

// SiteService assembles the public page payload and per-topic live snapshots.
type SiteService struct {
	events   eventLister
	scores   leaderboardReader
	content  contentReader
	status   statusReader
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewSiteService constructs the service.
func NewSiteService(events eventLister, scores leaderboardReader, content contentReader, status statusReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *SiteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteService{
		events:   events,
		scores:   scores,
		content:  content,
		status:   status,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Public returns everything the public page renders and whether the content came from cache.
// The live status is always evaluated fresh.
func (s *SiteService) Public(ctx context.Context) (*models.SitePayload, bool, error) {
	content, hit, err := s.loadContent(ctx)
	if err != nil {
		return nil, false, err
	}
	status, err := s.status.Current(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evaluate live status")
	}
	return &models.SitePayload{SiteContent: *content, Status: status}, hit, nil
}

// Snapshot returns the current payload for a live topic.
func (s *SiteService) Snapshot(ctx context.Context, topic string) (interface{}, error) {
	switch topic {
	case models.TopicEvents:
		return s.events.List(ctx, false)
	case models.TopicHighscores:
		return s.scores.Leaderboard(ctx, "")
	case models.TopicRosters:
		return s.content.Rosters(ctx)
	case models.TopicTimetable:
		return s.content.Timetable(ctx)
	case models.TopicSettings:
		return s.content.Settings(ctx)
	case models.TopicStatus:
		return s.status.Current(ctx)
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown topic %q", topic))
}

func (s *SiteService) loadContent(ctx context.Context) (*models.SiteContent, bool, error) {
	var cached models.SiteContent
	if hit, _ := s.cache.Get(ctx, CacheKeySite, &cached); hit {
		return &cached, true, nil
	}

	events, err := s.events.List(ctx, false)
	if err != nil {
		return nil, false, err
	}
	leaderboard, err := s.scores.Leaderboard(ctx, "")
	if err != nil {
		return nil, false, err
	}
	rosters, err := s.content.Rosters(ctx)
	if err != nil {
		return nil, false, err
	}
	timetable, err := s.content.Timetable(ctx)
	if err != nil {
		return nil, false, err
	}
	settings, err := s.content.Settings(ctx)
	if err != nil {
		return nil, false, err
	}

	content := &models.SiteContent{
		Events:      events,
		Leaderboard: leaderboard,
		Rosters:     rosters,
		Timetable:   timetable,
		Settings:    settings.Settings,
		Lists:       settings.Lists,
		FAQ:         models.DefaultFAQ(),
		GeneratedAt: s.now().UTC(),
	}
	if err := s.cache.Set(ctx, CacheKeySite, content, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache site content", zap.Error(err))
	}
	return content, false, nil
}

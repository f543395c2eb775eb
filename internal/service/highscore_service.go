package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
	"github.com/noah-isme/arcade-hub-api/pkg/export"
)

type highscoreRepository interface {
	List(ctx context.Context, filter models.HighscoreFilter) ([]models.Highscore, error)
	FindByID(ctx context.Context, id string) (*models.Highscore, error)
	Create(ctx context.Context, score *models.Highscore) error
	Approve(ctx context.Context, id, approvedBy string, approvedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// Score submission outcomes recorded in metrics.
const (
	submissionAccepted = "accepted"
	submissionRejected = "rejected"
	submissionFailed   = "failed"
)

// SubmitHighscoreRequest is the public score submission payload.
type SubmitHighscoreRequest struct {
	Player string `json:"player" validate:"required,min=1,max=32"`
	Game   string `json:"game" validate:"required,max=64"`
	Score  int64  `json:"score" validate:"gte=0"`
}

// HighscoreConfig tunes the leaderboard.
type HighscoreConfig struct {
	LeaderboardSize int
	CacheTTL        time.Duration
}

// HighscoreService handles submissions, moderation and the public leaderboard.
type HighscoreService struct {
	repo      highscoreRepository
	settings  settingsReader
	exporter  *ExportService
	cache     *CacheService
	metrics   *MetricsService
	notifier  *ChangeNotifier
	validator *validator.Validate
	logger    *zap.Logger
	cfg       HighscoreConfig
	now       func() time.Time
}

// NewHighscoreService constructs the service.
func NewHighscoreService(repo highscoreRepository, settings settingsReader, exporter *ExportService, cache *CacheService, metrics *MetricsService, notifier *ChangeNotifier, validate *validator.Validate, cfg HighscoreConfig, logger *zap.Logger) *HighscoreService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = NewExportService(nil, nil, logger)
	}
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = 10
	}
	registerArcadeValidations(validate)
	return &HighscoreService{
		repo:      repo,
		settings:  settings,
		exporter:  exporter,
		cache:     cache,
		metrics:   metrics,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Submit stores a visitor score as pending.
func (s *HighscoreService) Submit(ctx context.Context, req SubmitHighscoreRequest) (*models.Highscore, error) {
	req.Player = strings.TrimSpace(req.Player)
	req.Game = strings.TrimSpace(req.Game)
	if err := s.validator.Struct(req); err != nil {
		s.recordSubmission(submissionRejected)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid highscore payload")
	}

	if s.settings != nil {
		doc, err := s.settings.Settings(ctx)
		if err != nil {
			s.recordSubmission(submissionFailed)
			return nil, err
		}
		if games := doc.Lists.HighscoreGames; len(games) > 0 && !containsFold(games, req.Game) {
			s.recordSubmission(submissionRejected)
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a highscore game", req.Game))
		}
	}

	score := &models.Highscore{
		ID:          uuid.NewString(),
		Player:      req.Player,
		Game:        req.Game,
		Score:       req.Score,
		Status:      models.HighscoreStatusPending,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, score); err != nil {
		s.recordSubmission(submissionFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit highscore")
	}
	s.recordSubmission(submissionAccepted)
	s.notifier.Notify(ctx, models.TopicHighscores)
	return score, nil
}

// Leaderboard returns the top approved scores, optionally for one game.
func (s *HighscoreService) Leaderboard(ctx context.Context, game string) ([]models.Highscore, error) {
	game = strings.TrimSpace(game)
	key := CacheKeyLeaderboard + strings.ToLower(game)
	if game == "" {
		key = CacheKeyLeaderboard + "all"
	}

	var cached []models.Highscore
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	approved := models.HighscoreStatusApproved
	scores, err := s.list(ctx, "highscores_leaderboard", models.HighscoreFilter{Status: &approved, Game: game, Limit: s.cfg.LeaderboardSize})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, scores, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache leaderboard", zap.String("key", key), zap.Error(err))
	}
	return scores, nil
}

// ListPending returns submissions awaiting moderation, best first.
func (s *HighscoreService) ListPending(ctx context.Context) ([]models.Highscore, error) {
	pending := models.HighscoreStatusPending
	return s.list(ctx, "highscores_pending", models.HighscoreFilter{Status: &pending})
}

// List returns every highscore, best first.
func (s *HighscoreService) List(ctx context.Context) ([]models.Highscore, error) {
	return s.list(ctx, "highscores_all", models.HighscoreFilter{})
}

// Approve publishes a pending score on the leaderboard.
func (s *HighscoreService) Approve(ctx context.Context, id, actor string) (*models.Highscore, error) {
	if err := s.repo.Approve(ctx, id, actor, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "highscore not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve highscore")
	}
	s.notifier.Notify(ctx, models.TopicHighscores)

	score, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "highscore not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load highscore")
	}
	return score, nil
}

// Reject deletes a score, pending or approved.
func (s *HighscoreService) Reject(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "highscore not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete highscore")
	}
	s.notifier.Notify(ctx, models.TopicHighscores)
	return nil
}

// Export renders every approved score as CSV or PDF, optionally for one game.
func (s *HighscoreService) Export(ctx context.Context, format, game string) (*ExportFile, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	game = strings.TrimSpace(game)
	approved := models.HighscoreStatusApproved
	scores, err := s.list(ctx, "highscores_export", models.HighscoreFilter{Status: &approved, Game: game})
	if err != nil {
		return nil, err
	}

	title := "Arcade Hub Leaderboard"
	name := "leaderboard"
	if game != "" {
		title = fmt.Sprintf("%s Leaderboard", game)
		name = "leaderboard_" + game
	}
	table := export.Table{
		Title:   title,
		Headers: []string{"Rank", "Player", "Game", "Score", "Submitted At", "Approved At"},
		Rows:    make([][]string, 0, len(scores)),
	}
	for i, score := range scores {
		approvedAt := ""
		if score.ApprovedAt != nil {
			approvedAt = score.ApprovedAt.UTC().Format(time.RFC3339)
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			score.Player,
			score.Game,
			strconv.FormatInt(score.Score, 10),
			score.SubmittedAt.UTC().Format(time.RFC3339),
			approvedAt,
		})
	}

	file, err := s.exporter.Render(parsed, name, table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return file, nil
}

func (s *HighscoreService) list(ctx context.Context, label string, filter models.HighscoreFilter) ([]models.Highscore, error) {
	start := time.Now()
	scores, err := s.repo.List(ctx, filter)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list highscores")
	}
	return scores, nil
}

func (s *HighscoreService) recordSubmission(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordScoreSubmission(outcome)
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
)

type contentRepository interface {
	Get(ctx context.Context, id string) (*models.ContentDocument, error)
	Put(ctx context.Context, doc *models.ContentDocument) error
	Merge(ctx context.Context, doc *models.ContentDocument) error
	Seed(ctx context.Context, doc *models.ContentDocument) (bool, error)
}

// ContentService manages the single-document content areas: rosters, timetable and settings.
// Absent documents are seeded with defaults on first read.
type ContentService struct {
	repo      contentRepository
	validator *validator.Validate
	notifier  *ChangeNotifier
	logger    *zap.Logger
}

// NewContentService constructs the service.
func NewContentService(repo contentRepository, validate *validator.Validate, notifier *ChangeNotifier, logger *zap.Logger) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerArcadeValidations(validate)
	return &ContentService{repo: repo, validator: validate, notifier: notifier, logger: logger}
}

// ReplaceRostersRequest is the full rosters payload.
type ReplaceRostersRequest struct {
	Rosters models.Rosters `json:"rosters" validate:"required,dive,keys,required,max=64,endkeys,dive"`
}

// ReplaceTimetableRequest is the full weekly schedule payload.
type ReplaceTimetableRequest struct {
	Schedule []models.DaySchedule `json:"schedule" validate:"required,dive"`
}

// Rosters returns the roster document.
func (s *ContentService) Rosters(ctx context.Context) (models.Rosters, error) {
	var doc models.RostersDocument
	if err := s.load(ctx, models.ContentRosters, models.RostersDocument{Data: models.DefaultRosters()}, &doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		doc.Data = models.Rosters{}
	}
	return doc.Data, nil
}

// ReplaceRosters overwrites all rosters.
func (s *ContentService) ReplaceRosters(ctx context.Context, req ReplaceRostersRequest, actor string) (models.Rosters, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rosters payload")
	}
	if err := s.save(ctx, models.ContentRosters, models.RostersDocument{Data: req.Rosters}, actor, false); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, models.TopicRosters)
	return req.Rosters, nil
}

// AddPlayer appends a player to the roster of game.
func (s *ContentService) AddPlayer(ctx context.Context, game string, player models.Player, actor string) (models.Rosters, error) {
	if game == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "game is required")
	}
	if err := s.validator.Struct(player); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and handle are required")
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if len(settings.Lists.RosterGames) > 0 && !containsFold(settings.Lists.RosterGames, game) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a roster game", game))
	}

	rosters, err := s.Rosters(ctx)
	if err != nil {
		return nil, err
	}
	rosters[game] = append(rosters[game], player)

	if err := s.save(ctx, models.ContentRosters, models.RostersDocument{Data: rosters}, actor, false); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, models.TopicRosters)
	return rosters, nil
}

// RemovePlayer drops the player at index from the roster of game. The game key stays even when emptied.
func (s *ContentService) RemovePlayer(ctx context.Context, game string, index int, actor string) (models.Rosters, error) {
	rosters, err := s.Rosters(ctx)
	if err != nil {
		return nil, err
	}
	players, ok := rosters[game]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "roster not found")
	}
	if index < 0 || index >= len(players) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "player not found")
	}

	remaining := make([]models.Player, 0, len(players)-1)
	remaining = append(remaining, players[:index]...)
	remaining = append(remaining, players[index+1:]...)
	rosters[game] = remaining

	if err := s.save(ctx, models.ContentRosters, models.RostersDocument{Data: rosters}, actor, false); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, models.TopicRosters)
	return rosters, nil
}

// Timetable returns the weekly schedule.
func (s *ContentService) Timetable(ctx context.Context) ([]models.DaySchedule, error) {
	var doc models.TimetableDocument
	if err := s.load(ctx, models.ContentTimetable, models.TimetableDocument{Schedule: models.DefaultTimetable()}, &doc); err != nil {
		return nil, err
	}
	if doc.Schedule == nil {
		doc.Schedule = []models.DaySchedule{}
	}
	return doc.Schedule, nil
}

// ReplaceTimetable overwrites the weekly schedule.
func (s *ContentService) ReplaceTimetable(ctx context.Context, req ReplaceTimetableRequest, actor string) ([]models.DaySchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	for _, day := range req.Schedule {
		if err := s.validator.Var(day.Day, "weekday"); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", day.Day))
		}
	}
	if err := s.save(ctx, models.ContentTimetable, models.TimetableDocument{Schedule: req.Schedule}, actor, false); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, models.TopicTimetable, models.TopicStatus)
	return req.Schedule, nil
}

// Settings returns site settings and lists. A document saved before roster games
// existed is served with the default lists.
func (s *ContentService) Settings(ctx context.Context) (models.SettingsDocument, error) {
	seed := models.SettingsDocument{Settings: models.DefaultSettings(), Lists: models.DefaultLists()}
	var doc models.SettingsDocument
	if err := s.load(ctx, models.ContentSettings, seed, &doc); err != nil {
		return models.SettingsDocument{}, err
	}
	if doc.Lists.RosterGames == nil {
		doc.Lists = models.DefaultLists()
	}
	return doc, nil
}

// UpdateSettings merges the settings key only; lists are left untouched.
func (s *ContentService) UpdateSettings(ctx context.Context, settings models.SiteSettings, actor string) (models.SettingsDocument, error) {
	if err := s.validator.Struct(settings); err != nil {
		return models.SettingsDocument{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	if err := s.save(ctx, models.ContentSettings, map[string]interface{}{"settings": settings}, actor, true); err != nil {
		return models.SettingsDocument{}, err
	}
	s.notifier.Notify(ctx, models.TopicSettings)
	return s.Settings(ctx)
}

// UpdateLists merges the lists key only; settings are left untouched.
func (s *ContentService) UpdateLists(ctx context.Context, lists models.Lists, actor string) (models.SettingsDocument, error) {
	if err := s.validator.Struct(lists); err != nil {
		return models.SettingsDocument{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lists payload")
	}
	if lists.RosterGames == nil {
		lists.RosterGames = []string{}
	}
	if lists.HighscoreGames == nil {
		lists.HighscoreGames = []string{}
	}
	if lists.EventTypes == nil {
		lists.EventTypes = []string{}
	}
	if err := s.save(ctx, models.ContentSettings, map[string]interface{}{"lists": lists}, actor, true); err != nil {
		return models.SettingsDocument{}, err
	}
	s.notifier.Notify(ctx, models.TopicSettings)
	return s.Settings(ctx)
}

// SeedDefaults writes every absent content document and reports which ones were created.
func (s *ContentService) SeedDefaults(ctx context.Context) (map[string]bool, error) {
	seeds := map[string]interface{}{
		models.ContentRosters:   models.RostersDocument{Data: models.DefaultRosters()},
		models.ContentTimetable: models.TimetableDocument{Schedule: models.DefaultTimetable()},
		models.ContentSettings:  models.SettingsDocument{Settings: models.DefaultSettings(), Lists: models.DefaultLists()},
	}
	created := make(map[string]bool, len(seeds))
	for id, payload := range seeds {
		ok, err := s.seed(ctx, id, payload)
		if err != nil {
			return nil, err
		}
		created[id] = ok
	}
	return created, nil
}

func (s *ContentService) load(ctx context.Context, id string, seed interface{}, dest interface{}) error {
	doc, err := s.repo.Get(ctx, id)
	if err == nil {
		if err := doc.Decode(dest); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to decode %s", id))
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", id))
	}

	if _, err := s.seed(ctx, id, seed); err != nil {
		return err
	}
	doc, err = s.repo.Get(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", id))
	}
	if err := doc.Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to decode %s", id))
	}
	return nil
}

func (s *ContentService) seed(ctx context.Context, id string, payload interface{}) (bool, error) {
	doc, err := models.NewContentDocument(id, payload, nil)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to encode %s seed", id))
	}
	created, err := s.repo.Seed(ctx, doc)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to seed %s", id))
	}
	if created {
		s.logger.Info("seeded content document", zap.String("id", id))
	}
	return created, nil
}

func (s *ContentService) save(ctx context.Context, id string, payload interface{}, actor string, merge bool) error {
	var updatedBy *string
	if actor != "" {
		updatedBy = &actor
	}
	doc, err := models.NewContentDocument(id, payload, updatedBy)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to encode %s", id))
	}
	if merge {
		err = s.repo.Merge(ctx, doc)
	} else {
		err = s.repo.Put(ctx, doc)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to save %s", id))
	}
	return nil
}

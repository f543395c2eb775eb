package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type settingsReader interface {
	Settings(ctx context.Context) (models.SettingsDocument, error)
}

// CreateEventRequest is the admin payload for a new agenda entry.
type CreateEventRequest struct {
	Title string `json:"title" validate:"required,max=128"`
	Date  string `json:"date" validate:"required,ymd"`
	Time  string `json:"time" validate:"omitempty,hhmm"`
	Type  string `json:"type" validate:"omitempty,max=64"`
}

// EventService manages the event agenda.
type EventService struct {
	repo      eventRepository
	settings  settingsReader
	validator *validator.Validate
	notifier  *ChangeNotifier
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	location  *time.Location
}

// NewEventService constructs the service. location is used to decide which events are upcoming.
func NewEventService(repo eventRepository, settings settingsReader, validate *validator.Validate, notifier *ChangeNotifier, metrics *MetricsService, location *time.Location, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	registerArcadeValidations(validate)
	return &EventService{
		repo:      repo,
		settings:  settings,
		validator: validate,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		location:  location,
	}
}

// List returns events ordered by date and time. upcomingOnly drops events before today.
func (s *EventService) List(ctx context.Context, upcomingOnly bool) ([]models.Event, error) {
	filter := models.EventFilter{}
	if upcomingOnly {
		filter.FromDate = s.now().In(s.location).Format(dateLayout)
	}

	start := time.Now()
	events, err := s.repo.List(ctx, filter)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("events_list", time.Since(start))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// Create validates and stores a new event.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest, actor string) (*models.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Type = strings.TrimSpace(req.Type)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	eventType, err := s.resolveType(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Date:      req.Date,
		Time:      req.Time,
		Type:      eventType,
		CreatedAt: s.now().UTC(),
	}
	if actor != "" {
		event.CreatedBy = &actor
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.notifier.Notify(ctx, models.TopicEvents)
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.notifier.Notify(ctx, models.TopicEvents)
	return nil
}

func (s *EventService) resolveType(ctx context.Context, requested string) (string, error) {
	if s.settings == nil {
		return requested, nil
	}
	doc, err := s.settings.Settings(ctx)
	if err != nil {
		return "", err
	}
	types := doc.Lists.EventTypes
	if requested == "" {
		if len(types) > 0 {
			return types[0], nil
		}
		return "", nil
	}
	if len(types) > 0 && !containsFold(types, requested) {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown event type %q", requested))
	}
	return requested, nil
}

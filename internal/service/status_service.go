package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/livestatus"
	"github.com/noah-isme/arcade-hub-api/internal/models"
)

type timetableReader interface {
	Timetable(ctx context.Context) ([]models.DaySchedule, error)
}

// StatusConfig configures the live status loop.
type StatusConfig struct {
	Location        *time.Location
	RefreshInterval time.Duration
}

// StatusService evaluates the venue's live status from the timetable and
// re-evaluates it periodically, publishing the status topic when it changes.
type StatusService struct {
	timetable timetableReader
	publisher ChangePublisher
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       StatusConfig
	now       func() time.Time

	mu      sync.Mutex
	last    *models.LiveStatus
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewStatusService constructs the service. publisher may be nil.
func NewStatusService(timetable timetableReader, publisher ChangePublisher, metrics *MetricsService, cfg StatusConfig, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Minute
	}
	return &StatusService{
		timetable: timetable,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Current evaluates the status for the current instant in the venue timezone.
func (s *StatusService) Current(ctx context.Context) (models.LiveStatus, error) {
	return s.At(ctx, s.now())
}

// At evaluates the status for the given instant in the venue timezone.
func (s *StatusService) At(ctx context.Context, at time.Time) (models.LiveStatus, error) {
	week, err := s.timetable.Timetable(ctx)
	if err != nil {
		return models.LiveStatus{}, err
	}
	status := livestatus.Evaluate(week, at.In(s.cfg.Location))
	if s.metrics != nil {
		s.metrics.RecordStatusEvaluation(status.Status)
	}
	return status, nil
}

// Start evaluates immediately and then on every refresh tick until ctx is done or Stop is called.
func (s *StatusService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})
	stopped := s.stopped
	s.mu.Unlock()

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(s.cfg.RefreshInterval)
		defer ticker.Stop()

		s.refresh(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refresh(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit.
func (s *StatusService) Stop() {
	s.mu.Lock()
	cancel, stopped := s.cancel, s.stopped
	s.cancel, s.stopped = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

func (s *StatusService) refresh(ctx context.Context) {
	status, err := s.Current(ctx)
	if err != nil {
		s.logger.Warn("evaluate live status", zap.Error(err))
		return
	}

	s.mu.Lock()
	changed := s.last == nil || !s.last.SameAs(status)
	s.last = &status
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.Info("live status changed", zap.String("status", string(status.Status)), zap.String("label", status.Label))
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, models.TopicStatus); err != nil {
		s.logger.Warn("publish status change", zap.Error(err))
	}
}

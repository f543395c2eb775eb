package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

type stubTimetable struct {
	mu   sync.Mutex
	week []models.DaySchedule
	err  error
}

func (s *stubTimetable) Timetable(ctx context.Context) ([]models.DaySchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week, s.err
}

func (s *stubTimetable) set(week []models.DaySchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.week = week
}

func TestStatusServiceCurrentUsesVenueTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Brussels")
	require.NoError(t, err)
	svc := NewStatusService(&stubTimetable{week: models.DefaultTimetable()}, nil, nil, StatusConfig{Location: loc}, nil)

	// Monday 08:30 UTC is 09:30 in Brussels during winter time.
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 8, 30, 0, 0, time.UTC) }
	status, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.LiveStateOpen, status.Status)
	assert.Equal(t, "Open Access", status.Label)

	// Wednesday 13:30 UTC is 14:30 local, after the early close.
	status, err = svc.At(context.Background(), time.Date(2026, 1, 7, 13, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, models.LiveStateClosed, status.Status)
}

func TestStatusServiceCurrentError(t *testing.T) {
	svc := NewStatusService(&stubTimetable{err: errors.New("store down")}, nil, nil, StatusConfig{}, nil)
	_, err := svc.Current(context.Background())
	assert.Error(t, err)
}

func TestStatusServicePublishesOnlyOnChange(t *testing.T) {
	pub := &recordingPublisher{}
	table := &stubTimetable{week: models.DefaultTimetable()}
	svc := NewStatusService(table, pub, nil, StatusConfig{}, nil)
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	svc.refresh(ctx)
	svc.refresh(ctx)
	assert.Equal(t, []string{models.TopicStatus}, pub.published())

	table.set([]models.DaySchedule{{Day: "Monday", Slots: []models.TimeSlot{{Start: "09:00", End: "11:00", Label: "Varsity", Type: models.SlotTypeTeam}}}})
	svc.refresh(ctx)
	assert.Equal(t, []string{models.TopicStatus, models.TopicStatus}, pub.published())
}

func TestStatusServiceStartStop(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewStatusService(&stubTimetable{week: models.DefaultTimetable()}, pub, nil, StatusConfig{RefreshInterval: 5 * time.Millisecond}, nil)

	svc.Start(context.Background())
	svc.Start(context.Background())
	assert.Eventually(t, func() bool { return len(pub.published()) == 1 }, time.Second, 5*time.Millisecond)

	svc.Stop()
	svc.Stop()
}

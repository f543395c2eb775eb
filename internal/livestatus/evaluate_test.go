package livestatus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

// 2024-01-01 was a Monday.
func at(day int, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func TestEvaluate(t *testing.T) {
	monday := []models.DaySchedule{{
		Day:   "Monday",
		Slots: []models.TimeSlot{{Start: "09:00", End: "17:00", Label: "Open Access", Type: models.SlotTypeOpen}},
	}}
	tuesday := []models.DaySchedule{{
		Day:   "Tuesday",
		Slots: []models.TimeSlot{{Start: "14:00", End: "16:00", Label: "Valorant Training", Type: models.SlotTypeTeam}},
	}}

	tests := []struct {
		name   string
		week   []models.DaySchedule
		now    time.Time
		status models.LiveState
		label  string
	}{
		{"inside open slot", monday, at(1, 10, 30), models.LiveStateOpen, "Open Access"},
		{"before first slot", monday, at(1, 8, 0), models.LiveStateClosed, "Closed"},
		{"inclusive start", monday, at(1, 9, 0), models.LiveStateOpen, "Open Access"},
		{"last minute inside", monday, at(1, 16, 59), models.LiveStateOpen, "Open Access"},
		{"exclusive end", monday, at(1, 17, 0), models.LiveStateClosed, "Closed"},
		{"team slot is busy", tuesday, at(2, 15, 0), models.LiveStateBusy, "Busy (Valorant Training)"},
		{"day absent", monday, at(3, 10, 0), models.LiveStateClosed, "Closed"},
		{"nil schedule", nil, at(1, 10, 0), models.LiveStateClosed, "Closed"},
		{
			"empty slot list",
			[]models.DaySchedule{{Day: "Monday"}},
			at(1, 10, 0), models.LiveStateClosed, "Closed",
		},
		{
			"earlier overlapping slot wins",
			[]models.DaySchedule{{Day: "Monday", Slots: []models.TimeSlot{
				{Start: "09:00", End: "17:00", Label: "Open Access", Type: models.SlotTypeOpen},
				{Start: "12:00", End: "13:00", Label: "Cup Final", Type: models.SlotTypeEvent},
			}}},
			at(1, 12, 30), models.LiveStateOpen, "Open Access",
		},
		{
			"narrow slot listed first wins",
			[]models.DaySchedule{{Day: "Monday", Slots: []models.TimeSlot{
				{Start: "12:00", End: "13:00", Label: "Cup Final", Type: models.SlotTypeEvent},
				{Start: "09:00", End: "17:00", Label: "Open Access", Type: models.SlotTypeOpen},
			}}},
			at(1, 12, 30), models.LiveStateBusy, "Busy (Cup Final)",
		},
		{
			"empty start or end never matches",
			[]models.DaySchedule{{Day: "Monday", Slots: []models.TimeSlot{
				{Start: "", End: "17:00", Type: models.SlotTypeOpen},
				{Start: "09:00", End: "", Type: models.SlotTypeOpen},
			}}},
			at(1, 10, 0), models.LiveStateClosed, "Closed",
		},
		{
			"unparsable slot skipped",
			[]models.DaySchedule{{Day: "Monday", Slots: []models.TimeSlot{
				{Start: "nine", End: "17:00", Type: models.SlotTypeOpen},
				{Start: "09:00", End: "17:00", Label: "Practice", Type: models.SlotTypeTeam},
			}}},
			at(1, 10, 0), models.LiveStateBusy, "Busy (Practice)",
		},
		{
			"dutch day name",
			[]models.DaySchedule{{Day: "Maandag", Slots: []models.TimeSlot{
				{Start: "09:00", End: "17:00", Label: "Open", Type: models.SlotTypeOpen},
			}}},
			at(1, 10, 0), models.LiveStateOpen, "Open Access",
		},
		{
			"case insensitive day",
			[]models.DaySchedule{{Day: "monday", Slots: []models.TimeSlot{
				{Start: "09:00", End: "17:00", Type: models.SlotTypeOpen},
			}}},
			at(1, 10, 0), models.LiveStateOpen, "Open Access",
		},
		{
			"first duplicate day entry wins",
			[]models.DaySchedule{
				{Day: "Monday"},
				{Day: "Monday", Slots: []models.TimeSlot{{Start: "09:00", End: "17:00", Type: models.SlotTypeOpen}}},
			},
			at(1, 10, 0), models.LiveStateClosed, "Closed",
		},
		{
			"slot until midnight",
			[]models.DaySchedule{{Day: "Monday", Slots: []models.TimeSlot{
				{Start: "20:00", End: "24:00", Label: "LAN", Type: models.SlotTypeEvent},
			}}},
			at(1, 23, 59), models.LiveStateBusy, "Busy (LAN)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.week, tc.now)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.label, got.Label)
			assert.Equal(t, tc.now, got.EvaluatedAt)
		})
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	week := []models.DaySchedule{{
		Day:   "Friday",
		Slots: []models.TimeSlot{{Start: "09:00", End: "16:00", Label: "Open Access", Type: models.SlotTypeOpen}},
	}}
	now := at(5, 11, 0)

	first := Evaluate(week, now)
	second := Evaluate(week, now)
	assert.Equal(t, first, second)
	require.NotNil(t, first.Slot)
	assert.Equal(t, "Friday", first.Day)
	assert.Equal(t, "09:00", first.Slot.Start)
}

func TestParseClock(t *testing.T) {
	valid := map[string]int{"00:00": 0, "09:30": 570, "9:05": 545, "23:59": 1439, "24:00": 1440}
	for raw, want := range valid {
		got, ok := ParseClock(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "9", "09:00:00", "ab:cd", "25:00", "24:30", "12:60", "-1:00", "09:75", ":30"} {
		_, ok := ParseClock(raw)
		assert.False(t, ok, raw)
	}
}

func TestParseWeekday(t *testing.T) {
	wd, ok := ParseWeekday("Woensdag")
	require.True(t, ok)
	assert.Equal(t, time.Wednesday, wd)

	wd, ok = ParseWeekday(" sunday ")
	require.True(t, ok)
	assert.Equal(t, time.Sunday, wd)

	_, ok = ParseWeekday("Funday")
	assert.False(t, ok)
}

// Package livestatus derives whether the venue is open, busy or closed from
// the weekly timetable and a wall-clock instant.
package livestatus

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

const (
	LabelOpen   = "Open Access"
	LabelClosed = "Closed"
)

var dutchDays = map[time.Weekday]string{
	time.Sunday:    "zondag",
	time.Monday:    "maandag",
	time.Tuesday:   "dinsdag",
	time.Wednesday: "woensdag",
	time.Thursday:  "donderdag",
	time.Friday:    "vrijdag",
	time.Saturday:  "zaterdag",
}

// Evaluate returns the live status for now, which must already be expressed in
// the venue's local time. The first day entry matching now's weekday is used
// and its slots are scanned in stored order; the first slot whose half-open
// window [start, end) contains now decides the result.
func Evaluate(week []models.DaySchedule, now time.Time) models.LiveStatus {
	result := models.LiveStatus{
		Status:      models.LiveStateClosed,
		Label:       LabelClosed,
		Day:         now.Weekday().String(),
		EvaluatedAt: now,
	}

	day, ok := findDay(week, now.Weekday())
	if !ok {
		return result
	}
	result.Day = day.Day

	current := now.Hour()*60 + now.Minute()
	for i := range day.Slots {
		slot := day.Slots[i]
		if slot.Start == "" || slot.End == "" {
			continue
		}
		start, ok := ParseClock(slot.Start)
		if !ok {
			continue
		}
		end, ok := ParseClock(slot.End)
		if !ok {
			continue
		}
		if current < start || current >= end {
			continue
		}

		result.Slot = &slot
		if slot.Type == models.SlotTypeOpen {
			result.Status = models.LiveStateOpen
			result.Label = LabelOpen
		} else {
			result.Status = models.LiveStateBusy
			result.Label = fmt.Sprintf("Busy (%s)", slot.Label)
		}
		return result
	}

	return result
}

// ParseClock converts "HH:MM" into minutes since midnight. 24:00 is accepted
// as the end of the day. Values outside the clock range such as "25:00",
// "09:75" or ":30" report false, so the slot is skipped rather than matched.
func ParseClock(raw string) (int, bool) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	if hours == 24 && minutes != 0 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// ParseWeekday resolves an English or Dutch weekday name.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.TrimSpace(name)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if matchesDay(name, wd) {
			return wd, true
		}
	}
	return time.Sunday, false
}

func findDay(week []models.DaySchedule, wd time.Weekday) (models.DaySchedule, bool) {
	for _, day := range week {
		if matchesDay(strings.TrimSpace(day.Day), wd) {
			return day, true
		}
	}
	return models.DaySchedule{}, false
}

func matchesDay(name string, wd time.Weekday) bool {
	return strings.EqualFold(name, wd.String()) || strings.EqualFold(name, dutchDays[wd])
}

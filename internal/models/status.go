package models

import "time"

// LiveState is the derived open/busy/closed state of the venue.
type LiveState string

const (
	LiveStateOpen   LiveState = "OPEN"
	LiveStateBusy   LiveState = "BUSY"
	LiveStateClosed LiveState = "CLOSED"
)

// LiveStatus is computed from the timetable and never persisted.
type LiveStatus struct {
	Status      LiveState `json:"status"`
	Label       string    `json:"label"`
	Day         string    `json:"day,omitempty"`
	Slot        *TimeSlot `json:"slot,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// SameAs compares the visitor-facing parts of two statuses.
func (s LiveStatus) SameAs(other LiveStatus) bool {
	return s.Status == other.Status && s.Label == other.Label
}

package models

// SlotType categorises how a time slot is used.
type SlotType string

const (
	SlotTypeOpen  SlotType = "open"
	SlotTypeTeam  SlotType = "team"
	SlotTypeEvent SlotType = "event"
)

// Valid reports whether the slot type is one of the known categories.
func (t SlotType) Valid() bool {
	switch t {
	case SlotTypeOpen, SlotTypeTeam, SlotTypeEvent:
		return true
	}
	return false
}

// TimeSlot is a wall-clock window on a single day. Start and End use HH:MM with no timezone.
type TimeSlot struct {
	Start string   `json:"start" bson:"start" validate:"omitempty,hhmm"`
	End   string   `json:"end" bson:"end" validate:"omitempty,hhmm"`
	Label string   `json:"label" bson:"label" validate:"max=64"`
	Type  SlotType `json:"type" bson:"type" validate:"required,oneof=open team event"`
}

// DaySchedule lists the slots for one weekday in their stored order.
// Slots may overlap and are not sorted.
type DaySchedule struct {
	Day   string     `json:"day" bson:"day" validate:"required"`
	Slots []TimeSlot `json:"slots" bson:"slots" validate:"dive"`
}

// TimetableDocument is the persisted shape of the weekly schedule.
type TimetableDocument struct {
	Schedule []DaySchedule `json:"schedule" bson:"schedule"`
}

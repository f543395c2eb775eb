package models

import "time"

// Event is an agenda entry shown on the public page.
type Event struct {
	ID        string    `db:"id" json:"id" bson:"_id"`
	Title     string    `db:"title" json:"title" bson:"title"`
	Date      string    `db:"event_date" json:"date" bson:"date"`
	Time      string    `db:"event_time" json:"time,omitempty" bson:"time,omitempty"`
	Type      string    `db:"event_type" json:"type" bson:"type"`
	CreatedBy *string   `db:"created_by" json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at" bson:"created_at"`
}

// EventFilter narrows the agenda listing.
type EventFilter struct {
	// FromDate keeps events on or after the given YYYY-MM-DD date when set.
	FromDate string
}

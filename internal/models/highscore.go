package models

import "time"

// HighscoreStatus tracks moderation of a submitted score.
type HighscoreStatus string

const (
	HighscoreStatusPending  HighscoreStatus = "pending"
	HighscoreStatusApproved HighscoreStatus = "approved"
)

// Highscore is a score submitted by a visitor.
type Highscore struct {
	ID          string          `db:"id" json:"id" bson:"_id"`
	Player      string          `db:"player" json:"player" bson:"player"`
	Game        string          `db:"game" json:"game" bson:"game"`
	Score       int64           `db:"score" json:"score" bson:"score"`
	Status      HighscoreStatus `db:"status" json:"status" bson:"status"`
	SubmittedAt time.Time       `db:"submitted_at" json:"timestamp" bson:"submitted_at"`
	ApprovedAt  *time.Time      `db:"approved_at" json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	ApprovedBy  *string         `db:"approved_by" json:"approved_by,omitempty" bson:"approved_by,omitempty"`
}

// HighscoreFilter selects highscores ordered by score descending then submission time.
type HighscoreFilter struct {
	Status *HighscoreStatus
	Game   string
	Limit  int
}

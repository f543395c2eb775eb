package models

// Player is a member of a game roster.
type Player struct {
	Name   string `json:"name" bson:"name" validate:"required,max=64"`
	Handle string `json:"handle" bson:"handle" validate:"required,max=64"`
	Role   string `json:"role" bson:"role" validate:"max=64"`
	Rank   string `json:"rank" bson:"rank" validate:"max=64"`
}

// Rosters maps a game name to its ordered player list.
type Rosters map[string][]Player

// RostersDocument is the persisted shape of the rosters content.
type RostersDocument struct {
	Data Rosters `json:"data" bson:"data"`
}

// Package mongorepo implements the content store on MongoDB. Lookups that find
// nothing return sql.ErrNoRows so services treat both stores alike.
package mongorepo

// Collection names.
const (
	EventsCollection     = "events"
	HighscoresCollection = "highscores"
	ContentCollection    = "content"
)

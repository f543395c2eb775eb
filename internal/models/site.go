package models

import "time"

// SiteContent is the cacheable part of the public page payload.
type SiteContent struct {
	Events      []Event       `json:"events"`
	Leaderboard []Highscore   `json:"leaderboard"`
	Rosters     Rosters       `json:"rosters"`
	Timetable   []DaySchedule `json:"timetable"`
	Settings    SiteSettings  `json:"settings"`
	Lists       Lists         `json:"lists"`
	FAQ         []FAQItem     `json:"faq"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// SitePayload is everything the public page renders, with a fresh live status.
type SitePayload struct {
	SiteContent
	Status LiveStatus `json:"status"`
}

// LiveMessage is pushed to websocket subscribers.
type LiveMessage struct {
	Topic  string      `json:"topic"`
	Data   interface{} `json:"data"`
	SentAt time.Time   `json:"sent_at"`
}

// Live topics a subscriber can follow.
const (
	TopicEvents     = "events"
	TopicHighscores = "highscores"
	TopicRosters    = "rosters"
	TopicTimetable  = "timetable"
	TopicSettings   = "settings"
	TopicStatus     = "status"
)

// LiveTopics lists every topic in a stable order.
func LiveTopics() []string {
	return []string{TopicEvents, TopicHighscores, TopicRosters, TopicTimetable, TopicSettings, TopicStatus}
}

// ValidTopic reports whether topic is one of LiveTopics.
func ValidTopic(topic string) bool {
	for _, known := range LiveTopics() {
		if topic == known {
			return true
		}
	}
	return false
}

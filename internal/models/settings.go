package models

// SiteSettings holds the free-form site configuration.
type SiteSettings struct {
	GoogleFormURL string `json:"google_form_url" bson:"google_form_url" validate:"omitempty,url"`
}

// Lists are the editable pick-lists used by the admin forms.
type Lists struct {
	RosterGames    []string `json:"roster_games" bson:"roster_games" validate:"dive,required,max=64"`
	HighscoreGames []string `json:"highscore_games" bson:"highscore_games" validate:"dive,required,max=64"`
	EventTypes     []string `json:"event_types" bson:"event_types" validate:"dive,required,max=64"`
}

// SettingsDocument is the persisted shape of the settings content.
type SettingsDocument struct {
	Settings SiteSettings `json:"settings" bson:"settings"`
	Lists    Lists        `json:"lists" bson:"lists"`
}

// FAQItem is a question shown in the public FAQ block.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

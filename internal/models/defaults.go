package models

// DefaultFormURL is the placeholder sign-up form shown until an admin sets one.
const DefaultFormURL = "https://docs.google.com/forms/d/e/YOUR_ID/viewform?embedded=true"

// DefaultRosters seeds an absent rosters document.
func DefaultRosters() Rosters {
	return Rosters{
		"Valorant": {{Name: "Senne", Handle: "ViperMain", Role: "Controller", Rank: "Ascendant 2"}},
	}
}

// DefaultTimetable seeds an absent timetable document.
func DefaultTimetable() []DaySchedule {
	open := func(start, end string) []TimeSlot {
		return []TimeSlot{{Start: start, End: end, Label: "Open Access", Type: SlotTypeOpen}}
	}
	return []DaySchedule{
		{Day: "Monday", Slots: open("09:00", "17:00")},
		{Day: "Tuesday", Slots: open("09:00", "17:00")},
		{Day: "Wednesday", Slots: open("09:00", "14:00")},
		{Day: "Thursday", Slots: open("09:00", "17:00")},
		{Day: "Friday", Slots: open("09:00", "16:00")},
	}
}

// DefaultSettings seeds the settings key of an absent settings document.
func DefaultSettings() SiteSettings {
	return SiteSettings{GoogleFormURL: DefaultFormURL}
}

// DefaultLists seeds the lists key and replaces lists saved before roster games existed.
func DefaultLists() Lists {
	return Lists{
		RosterGames:    []string{"Valorant", "League of Legends", "Rocket League"},
		HighscoreGames: []string{"Tetris", "Pac-Man", "Aim Lab", "Typing Test"},
		EventTypes:     []string{"Tournament", "Casual", "Workshop", "LAN Party"},
	}
}

// DefaultFAQ is served with the public page.
func DefaultFAQ() []FAQItem {
	return []FAQItem{
		{
			Question: "Do I need to bring my own controller?",
			Answer:   "We have controllers for the PS5, but for PC we recommend bringing your own.",
		},
		{
			Question: "When are the try-outs?",
			Answer:   "Try-outs are held every semester during the first two weeks.",
		},
	}
}

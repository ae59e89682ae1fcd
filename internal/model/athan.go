package model

type Prayer struct {
	Name    string // "FAJR", "JUMU'AH", …
	Hint    string
	Time    string // "05:12"
	Period  string // "AM" or "PM"
	Current bool
	Day     string // "today" or "tomorrow"
}

type AthanPageData struct {
	City      string
	Date      string // "AUGUST 5, 2025"
	Prayers   []Prayer
	NextLabel string
	Countdown string
	Makrooh   []string
	Theme     string
}

package model

// Admin is the single operator allowed to replace the timetable.
type Admin struct {
	Username string `json:"username"`
}

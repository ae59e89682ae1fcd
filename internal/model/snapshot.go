package model

import "time"

// Snapshot is everything a rendering sink receives on one tick. It is
// rebuilt from scratch every time and never mutated after publication.
type Snapshot struct {
	Locality    string          `json:"locality"`
	Date        string          `json:"date"`
	Weekday     string          `json:"weekday"`
	HasData     bool            `json:"has_data"`
	Schedule    DisplaySchedule `json:"schedule"`
	Next        *NextTarget     `json:"next"`
	Remaining   int             `json:"remaining_seconds"`
	Countdown   string          `json:"countdown"`
	Makrooh     []MakroohWindow `json:"makrooh"`
	Compass     CompassState    `json:"compass"`
	Rebuilt     bool            `json:"-"`
	Elapsed     *NextTarget     `json:"-"`
	GeneratedAt time.Time       `json:"generated_at"`
}

package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	SecondsPerDay = 24 * 60 * 60
)

// TimeOfDay is a wall-clock time in the board's civil timezone. The zero
// value is the unknown time, which is distinct from midnight.
type TimeOfDay struct {
	minutes int
	known   bool
}

// NewTimeOfDay wraps minutes into [0, 1440).
func NewTimeOfDay(minutes int) TimeOfDay {
	return TimeOfDay{minutes: ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay, known: true}
}

// ParseTimeOfDay reads "HH:MM" (or "H:MM"). A trailing zone suffix such as
// "05:12 (BST)" is ignored. Anything else yields the unknown time.
func ParseTimeOfDay(s string) TimeOfDay {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	hStr, mStr, ok := strings.Cut(s, ":")
	if !ok {
		return TimeOfDay{}
	}
	h, okH := atoiDigits(hStr)
	m, okM := atoiDigits(mStr)
	if !okH || !okM || h > 23 || m > 59 {
		return TimeOfDay{}
	}
	return TimeOfDay{minutes: h*60 + m, known: true}
}

// atoiDigits accepts one or two ASCII digits and nothing else.
func atoiDigits(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func (t TimeOfDay) Known() bool  { return t.known }
func (t TimeOfDay) Minutes() int { return t.minutes }
func (t TimeOfDay) Seconds() int { return t.minutes * 60 }

// AddMinutes shifts a known time, wrapping around midnight. Unknown stays unknown.
func (t TimeOfDay) AddMinutes(mins int) TimeOfDay {
	if !t.known {
		return t
	}
	return NewTimeOfDay(t.minutes + mins)
}

func (t TimeOfDay) String() string {
	if !t.known {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// Clock12 converts "17:30" into ("05:30", "PM").
func (t TimeOfDay) Clock12() (string, string) {
	if !t.known {
		return "--:--", ""
	}
	h, m := t.minutes/60, t.minutes%60
	period := "AM"
	if h >= 12 {
		period = "PM"
		if h > 12 {
			h -= 12
		}
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d", h, m), period
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	if !t.known {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TimeOfDay{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTimeOfDay(s)
	return nil
}

// PrayerSlot is one row of the daily timetable.
type PrayerSlot int

const (
	Fajr PrayerSlot = iota
	Sunrise
	Dhuhr
	Asr1
	Asr2
	Maghrib
	Isha
)

const SlotCount = 7

// Slots is the fixed display order.
var Slots = []PrayerSlot{Fajr, Sunrise, Dhuhr, Asr1, Asr2, Maghrib, Isha}

var slotInfo = [SlotCount]struct {
	key, name, hint string
}{
	{"fajr", "Fajr", ""},
	{"sunrise", "Sunrise", ""},
	{"dhuhr", "Dhuhr", ""},
	{"asr1", "Asr 1", "Earlier Asr"},
	{"asr2", "Asr 2", "Later Asr"},
	{"maghrib", "Maghrib", ""},
	{"isha", "Isha", ""},
}

const JumuahName = "Jumu'ah"

func (s PrayerSlot) Key() string  { return slotInfo[s].key }
func (s PrayerSlot) Name() string { return slotInfo[s].name }
func (s PrayerSlot) Hint() string { return slotInfo[s].hint }

// Label is the display name on a given weekday; dhuhr becomes Jumu'ah on Fridays.
func (s PrayerSlot) Label(weekday time.Weekday) string {
	if s == Dhuhr && weekday == time.Friday {
		return JumuahName
	}
	return s.Name()
}

func (s PrayerSlot) String() string { return s.Key() }

func (s PrayerSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Key())
}

func (s *PrayerSlot) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err != nil {
		return err
	}
	slot, ok := ParseSlot(key)
	if !ok {
		return fmt.Errorf("unknown prayer slot %q", key)
	}
	*s = slot
	return nil
}

func ParseSlot(key string) (PrayerSlot, bool) {
	for _, s := range Slots {
		if s.Key() == key {
			return s, true
		}
	}
	return 0, false
}

// DayRow is the timetable for one calendar date. Rows are treated as
// immutable once loaded.
type DayRow struct {
	Date                 string               `json:"date"`
	Times                [SlotCount]TimeOfDay `json:"times"`
	MakroohAfterSunrise  *int                 `json:"makrooh_after_sunrise_mins"`
	MakroohBeforeMaghrib *int                 `json:"makrooh_before_maghrib_mins"`
}

// Time is nil-safe: an absent row has only unknown times.
func (r *DayRow) Time(s PrayerSlot) TimeOfDay {
	if r == nil {
		return TimeOfDay{}
	}
	return r.Times[s]
}

// CivilDay is a calendar date in the board's timezone.
type CivilDay struct {
	ISO     string       `json:"date"`
	Weekday time.Weekday `json:"-"`
}

// Moment is "now" projected into the civil timezone.
type Moment struct {
	Today    CivilDay
	Tomorrow CivilDay
	Minutes  int
	Seconds  int
}

type DisplayDay int

const (
	Today DisplayDay = iota
	Tomorrow
)

func (d DisplayDay) String() string {
	if d == Tomorrow {
		return "tomorrow"
	}
	return "today"
}

func (d DisplayDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DisplayDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "today":
		*d = Today
	case "tomorrow":
		*d = Tomorrow
	default:
		return fmt.Errorf("unknown display day %q", s)
	}
	return nil
}

// Day returns the civil date a DisplayDay refers to.
func (m Moment) Day(d DisplayDay) CivilDay {
	if d == Tomorrow {
		return m.Tomorrow
	}
	return m.Today
}

type ScheduleEntry struct {
	Slot  PrayerSlot `json:"slot"`
	Label string     `json:"label"`
	Hint  string     `json:"hint,omitempty"`
	Time  TimeOfDay  `json:"time"`
	Day   DisplayDay `json:"day"`
	Date  string     `json:"date"`
}

type DisplaySchedule struct {
	Entries []ScheduleEntry `json:"entries"`
	Current *PrayerSlot     `json:"current"`
}

func (d DisplaySchedule) IsCurrent(s PrayerSlot) bool {
	return d.Current != nil && *d.Current == s
}

// NextTarget is the Adhan the countdown runs towards.
type NextTarget struct {
	Slot          PrayerSlot `json:"slot"`
	Label         string     `json:"label"`
	DayOffset     int        `json:"day_offset"`
	TargetSeconds int        `json:"target_seconds"`
}

// AbsoluteSeconds counts from midnight at the start of today.
func (n NextTarget) AbsoluteSeconds() int {
	return n.DayOffset*SecondsPerDay + n.TargetSeconds
}

func (n NextTarget) Remaining(nowSeconds int) int {
	return n.AbsoluteSeconds() - nowSeconds
}

type MakroohKind string

const (
	MakroohAfterSunrise  MakroohKind = "after_sunrise"
	MakroohBeforeMaghrib MakroohKind = "before_maghrib"
)

// MakroohWindow is an interval in which prayer is disliked.
type MakroohWindow struct {
	Kind    MakroohKind `json:"kind"`
	Minutes int         `json:"minutes"`
	Start   TimeOfDay   `json:"start"`
	End     TimeOfDay   `json:"end"`
	Text    string      `json:"text"`
}

// Package schedule turns a day's timetable rows and the current time into
// the rolling display schedule, the highlighted prayer and the Adhan
// countdown target. Every function here is pure.
package schedule

import (
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

// CurrentSlot returns the prayer whose time has most recently started today.
// Unknown times are skipped so they never reset the candidate; the walk stops
// at the first known time that is still ahead. ok is false before Fajr or
// when today has no row.
func CurrentSlot(today *model.DayRow, nowMinutes int) (slot model.PrayerSlot, ok bool) {
	if today == nil {
		return 0, false
	}
	for _, s := range model.Slots {
		t := today.Time(s)
		if !t.Known() {
			continue
		}
		if t.Minutes() > nowMinutes {
			break
		}
		slot, ok = s, true
	}
	return slot, ok
}

// Build resolves which day's time each slot shows. A slot rolls over to
// tomorrow once its time has passed, except while it is still the current
// prayer; a slot without a time today always shows tomorrow's.
func Build(today, tomorrow *model.DayRow, now model.Moment) model.DisplaySchedule {
	current, hasCurrent := CurrentSlot(today, now.Minutes)

	entries := make([]model.ScheduleEntry, 0, model.SlotCount)
	for _, s := range model.Slots {
		t := today.Time(s)
		isCurrent := hasCurrent && s == current
		useTomorrow := !t.Known() || (t.Minutes() < now.Minutes && !isCurrent)

		day := model.Today
		shown := t
		if useTomorrow {
			day = model.Tomorrow
			shown = tomorrow.Time(s)
		}
		civil := now.Day(day)
		entries = append(entries, model.ScheduleEntry{
			Slot:  s,
			Label: s.Label(civil.Weekday),
			Hint:  s.Hint(),
			Time:  shown,
			Day:   day,
			Date:  civil.ISO,
		})
	}

	out := model.DisplaySchedule{Entries: entries}
	if hasCurrent {
		c := current
		out.Current = &c
	}
	return out
}

// Next finds the Adhan the countdown should run towards: the first of
// today's times strictly after now, else tomorrow's Fajr. nil when neither
// is known.
func Next(today, tomorrow *model.DayRow, now model.Moment) *model.NextTarget {
	for _, s := range model.Slots {
		t := today.Time(s)
		if t.Known() && t.Seconds() > now.Seconds {
			return &model.NextTarget{
				Slot:          s,
				Label:         s.Label(now.Today.Weekday),
				DayOffset:     0,
				TargetSeconds: t.Seconds(),
			}
		}
	}

	fajr := tomorrow.Time(model.Fajr)
	if !fajr.Known() {
		return nil
	}
	return &model.NextTarget{
		Slot:          model.Fajr,
		Label:         model.Fajr.Label(now.Tomorrow.Weekday),
		DayOffset:     1,
		TargetSeconds: fajr.Seconds(),
	}
}

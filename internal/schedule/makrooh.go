package schedule

import (
	"fmt"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

// Makrooh derives the disliked-for-prayer windows from a row's minute
// offsets. A window is omitted when its offset or anchor time is unknown.
func Makrooh(row *model.DayRow) []model.MakroohWindow {
	if row == nil {
		return nil
	}
	var out []model.MakroohWindow

	sunrise := row.Time(model.Sunrise)
	if row.MakroohAfterSunrise != nil && sunrise.Known() {
		mins := *row.MakroohAfterSunrise
		until := sunrise.AddMinutes(mins)
		out = append(out, model.MakroohWindow{
			Kind:    model.MakroohAfterSunrise,
			Minutes: mins,
			Start:   sunrise,
			End:     until,
			Text:    fmt.Sprintf("%d mins after sunrise (until %s)", mins, until),
		})
	}

	maghrib := row.Time(model.Maghrib)
	if row.MakroohBeforeMaghrib != nil && maghrib.Known() {
		mins := *row.MakroohBeforeMaghrib
		from := maghrib.AddMinutes(-mins)
		out = append(out, model.MakroohWindow{
			Kind:    model.MakroohBeforeMaghrib,
			Minutes: mins,
			Start:   from,
			End:     maghrib,
			Text:    fmt.Sprintf("%d mins before Maghrib (from %s)", mins, from),
		})
	}
	return out
}

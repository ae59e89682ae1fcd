package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

func TestCountdown(t *testing.T) {
	target := &model.NextTarget{Slot: model.Dhuhr, TargetSeconds: 12 * 3600}

	remaining, elapsed := Countdown(target, 12*3600-90)
	assert.Equal(t, 90, remaining)
	assert.False(t, elapsed)

	remaining, elapsed = Countdown(target, 12*3600)
	assert.Equal(t, 0, remaining)
	assert.True(t, elapsed)

	remaining, elapsed = Countdown(target, 12*3600+5)
	assert.Equal(t, 0, remaining, "negative countdowns are clamped")
	assert.True(t, elapsed)
}

func TestCountdown_NoTarget(t *testing.T) {
	remaining, elapsed := Countdown(nil, 100)
	assert.Equal(t, 0, remaining)
	assert.True(t, elapsed)
}

func TestCountdown_TomorrowTarget(t *testing.T) {
	target := &model.NextTarget{Slot: model.Fajr, DayOffset: 1, TargetSeconds: 5 * 3600}
	remaining, elapsed := Countdown(target, 23*3600)
	assert.Equal(t, 6*3600, remaining)
	assert.False(t, elapsed)
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatCountdown(0))
	assert.Equal(t, "00:00:00", FormatCountdown(-30))
	assert.Equal(t, "01:02:03", FormatCountdown(3723))
	assert.Equal(t, "29:10:00", FormatCountdown(29*3600+600))
}

func TestMakrooh(t *testing.T) {
	after, before := 15, 10
	r := fullDay(thursday.ISO)
	r.MakroohAfterSunrise = &after
	r.MakroohBeforeMaghrib = &before

	w := Makrooh(r)
	if assert.Len(t, w, 2) {
		assert.Equal(t, model.MakroohAfterSunrise, w[0].Kind)
		assert.Equal(t, "07:15", w[0].End.String())
		assert.Equal(t, "15 mins after sunrise (until 07:15)", w[0].Text)

		assert.Equal(t, model.MakroohBeforeMaghrib, w[1].Kind)
		assert.Equal(t, "17:50", w[1].Start.String())
		assert.Equal(t, "10 mins before Maghrib (from 17:50)", w[1].Text)
	}
}

func TestMakrooh_MissingPieces(t *testing.T) {
	assert.Empty(t, Makrooh(nil))

	after := 15
	r := fullDay(thursday.ISO)
	r.MakroohAfterSunrise = &after
	r.Times[model.Sunrise] = model.TimeOfDay{}
	assert.Empty(t, Makrooh(r), "unknown sunrise gives no window")
}

func TestMakrooh_WrapsMidnight(t *testing.T) {
	before := 30
	r := row(thursday.ISO, map[model.PrayerSlot]string{model.Maghrib: "00:10"})
	r.MakroohBeforeMaghrib = &before

	w := Makrooh(r)
	if assert.Len(t, w, 1) {
		assert.Equal(t, "23:40", w[0].Start.String())
	}
}

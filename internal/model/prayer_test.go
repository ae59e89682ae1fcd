package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		known   bool
		minutes int
	}{
		{"05:12", true, 5*60 + 12},
		{"5:12", true, 5*60 + 12},
		{" 17:30 ", true, 17*60 + 30},
		{"17:30 (BST)", true, 17*60 + 30},
		{"00:00", true, 0},
		{"23:59", true, 23*60 + 59},
		{"24:00", false, 0},
		{"12:60", false, 0},
		{"", false, 0},
		{"--:--", false, 0},
		{"1230", false, 0},
		{"+1:30", false, 0},
		{"12:3a", false, 0},
	}
	for _, tc := range cases {
		got := ParseTimeOfDay(tc.in)
		assert.Equal(t, tc.known, got.Known(), "input %q", tc.in)
		if tc.known {
			assert.Equal(t, tc.minutes, got.Minutes(), "input %q", tc.in)
		}
	}
}

func TestTimeOfDay_UnknownIsNotMidnight(t *testing.T) {
	var unknown TimeOfDay
	midnight := ParseTimeOfDay("00:00")

	assert.NotEqual(t, unknown, midnight)
	assert.Equal(t, "--:--", unknown.String())
	assert.Equal(t, "00:00", midnight.String())
}

func TestTimeOfDay_AddMinutesWraps(t *testing.T) {
	assert.Equal(t, "00:05", ParseTimeOfDay("23:50").AddMinutes(15).String())
	assert.Equal(t, "23:55", ParseTimeOfDay("00:05").AddMinutes(-10).String())
	assert.False(t, TimeOfDay{}.AddMinutes(10).Known())
	assert.Equal(t, 1439, NewTimeOfDay(-1).Minutes())
}

func TestTimeOfDay_Clock12(t *testing.T) {
	cases := map[string][2]string{
		"00:15": {"12:15", "AM"},
		"05:30": {"05:30", "AM"},
		"12:05": {"12:05", "PM"},
		"17:30": {"05:30", "PM"},
	}
	for in, want := range cases {
		hm, period := ParseTimeOfDay(in).Clock12()
		assert.Equal(t, want[0], hm, in)
		assert.Equal(t, want[1], period, in)
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A TimeOfDay `json:"a"`
		B TimeOfDay `json:"b"`
	}{A: ParseTimeOfDay("05:10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"05:10","b":null}`, string(b))

	var back struct {
		A TimeOfDay `json:"a"`
		B TimeOfDay `json:"b"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, 5*60+10, back.A.Minutes())
	assert.False(t, back.B.Known())
}

func TestPrayerSlot_Labels(t *testing.T) {
	for _, s := range Slots {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			changed := s.Label(wd) != s.Name()
			assert.Equal(t, s == Dhuhr && wd == time.Friday, changed, "%s on %s", s, wd)
		}
	}
	assert.Equal(t, "Later Asr", Asr2.Hint())
}

func TestParseSlot(t *testing.T) {
	for _, s := range Slots {
		got, ok := ParseSlot(s.Key())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseSlot("witr")
	assert.False(t, ok)
}

func TestDayRow_NilIsUnknown(t *testing.T) {
	var r *DayRow
	assert.False(t, r.Time(Fajr).Known())
}

func TestGeoPoint_Valid(t *testing.T) {
	assert.True(t, GeoPoint{Lat: 53.75, Lon: -2.48}.Valid())
	assert.False(t, GeoPoint{Lat: 91, Lon: 0}.Valid())
	assert.False(t, GeoPoint{Lat: 0, Lon: -180.5}.Valid())
}

package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/clock"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/qibla"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/timetable"
)

var blackburn = model.GeoPoint{Lat: 53.7486, Lon: -2.4875}

func row(date string, times ...string) model.DayRow {
	r := model.DayRow{Date: date}
	for i, s := range times {
		r.Times[i] = model.ParseTimeOfDay(s)
	}
	return r
}

func fixture() timetable.Table {
	return timetable.FromRows([]model.DayRow{
		row("2025-01-16", "06:21", "08:10", "12:24", "14:02", "14:37", "16:25", "18:05"),
		row("2025-01-17", "06:20", "08:09", "12:25", "14:03", "14:39", "16:27", "18:06"),
	})
}

type fakeSource struct {
	mu    sync.Mutex
	table timetable.Table
	err   error
	calls int
}

func (f *fakeSource) Load(context.Context) (timetable.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.table, f.err
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recorder struct {
	mu    sync.Mutex
	snaps []model.Snapshot
}

func (r *recorder) Render(s model.Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recorder) last() model.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestBoard(t *testing.T, src timetable.Source, loc Locator) (*Board, *recorder) {
	t.Helper()
	civil, err := clock.NewCivil("Europe/London")
	require.NoError(t, err)
	rec := &recorder{}
	b, err := New(Config{
		Locality: "Blackburn",
		Civil:    civil,
		Clock:    clock.FixedClock{T: utc("2025-01-16T13:00:00Z")},
		Source:   src,
		Locator:  loc,
		Sink:     rec,
	})
	require.NoError(t, err)
	return b, rec
}

func loaded(t *testing.T, b *Board, table timetable.Table) {
	t.Helper()
	b.loadSeq++
	require.True(t, b.applyLoad(loadResult{seq: b.loadSeq, table: table}))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Source: &fakeSource{}})
	assert.Error(t, err)

	civil, _ := clock.NewCivil("Europe/London")
	_, err = New(Config{Civil: civil})
	assert.Error(t, err)
}

func TestRender_CountdownAndRebuild(t *testing.T) {
	b, rec := newTestBoard(t, &fakeSource{}, nil)
	loaded(t, b, fixture())

	b.render(utc("2025-01-16T13:00:00Z"))
	s := rec.last()
	assert.True(t, s.HasData)
	assert.True(t, s.Rebuilt)
	assert.Equal(t, "Thursday", s.Weekday)
	require.NotNil(t, s.Schedule.Current)
	assert.Equal(t, model.Dhuhr, *s.Schedule.Current)
	require.NotNil(t, s.Next)
	assert.Equal(t, model.Asr1, s.Next.Slot)
	assert.Equal(t, 3720, s.Remaining)
	assert.Equal(t, "01:02:00", s.Countdown)
	assert.Nil(t, s.Elapsed)

	b.render(utc("2025-01-16T13:00:01Z"))
	s = rec.last()
	assert.False(t, s.Rebuilt)
	assert.Equal(t, 3719, s.Remaining)

	b.render(utc("2025-01-16T14:02:00Z"))
	s = rec.last()
	assert.True(t, s.Rebuilt)
	require.NotNil(t, s.Elapsed)
	assert.Equal(t, model.Asr1, s.Elapsed.Slot)
	require.NotNil(t, s.Next)
	assert.Equal(t, model.Asr2, s.Next.Slot)
	assert.Equal(t, 35*60, s.Remaining)
	assert.Same(t, b.Latest().Next, b.next)
}

func TestRender_AfterIshaTargetsTomorrowFajr(t *testing.T) {
	b, rec := newTestBoard(t, &fakeSource{}, nil)
	loaded(t, b, fixture())

	b.render(utc("2025-01-16T23:00:00Z"))
	s := rec.last()
	require.NotNil(t, s.Next)
	assert.Equal(t, model.Fajr, s.Next.Slot)
	assert.Equal(t, 1, s.Next.DayOffset)
	assert.Equal(t, "07:20:00", s.Countdown)
}

func TestRender_NoDataNeverNegative(t *testing.T) {
	b, rec := newTestBoard(t, &fakeSource{}, nil)

	b.render(utc("2025-01-16T13:00:00Z"))
	b.render(utc("2025-01-16T13:00:01Z"))
	s := rec.last()
	assert.False(t, s.HasData)
	assert.Nil(t, s.Next)
	assert.Equal(t, 0, s.Remaining)
	assert.Equal(t, "00:00:00", s.Countdown)
	assert.False(t, s.Rebuilt, "no target means nothing to elapse")
	assert.Nil(t, s.Elapsed)
}

func TestRender_MidnightRebuilds(t *testing.T) {
	b, rec := newTestBoard(t, &fakeSource{}, nil)
	loaded(t, b, fixture())

	b.render(utc("2025-01-16T23:59:59Z"))
	b.render(utc("2025-01-17T00:00:00Z"))
	s := rec.last()
	assert.True(t, s.Rebuilt)
	assert.Equal(t, "2025-01-17", s.Date)
	assert.Equal(t, "Friday", s.Weekday)
	require.NotNil(t, s.Next)
	assert.Equal(t, model.Fajr, s.Next.Slot)
	assert.Equal(t, 0, s.Next.DayOffset)
}

func TestApplyLoad_StaleDiscarded(t *testing.T) {
	b, _ := newTestBoard(t, &fakeSource{}, nil)
	loaded(t, b, fixture())

	b.loadSeq = 5
	assert.False(t, b.applyLoad(loadResult{seq: 4, table: timetable.Table{}}))
	assert.Len(t, b.table, 2)

	assert.True(t, b.applyLoad(loadResult{seq: 5, table: timetable.Table{}}))
	assert.Empty(t, b.table)
}

func TestApplyLoad_FailureKeepsTableAndRetries(t *testing.T) {
	src := &fakeSource{table: fixture()}
	b, _ := newTestBoard(t, src, nil)
	loaded(t, b, fixture())
	b.render(utc("2025-01-16T13:00:00Z"))

	b.loadSeq++
	assert.False(t, b.applyLoad(loadResult{seq: b.loadSeq, err: errors.New("timeout")}))
	assert.True(t, b.loadFailed)
	assert.Len(t, b.table, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seq := b.loadSeq
	b.rollover(ctx, utc("2025-01-16T13:01:00Z"))
	assert.Equal(t, seq+1, b.loadSeq)

	res := <-b.loads
	assert.True(t, b.applyLoad(res))
	assert.False(t, b.loadFailed)
	assert.Equal(t, 1, src.Calls())
}

func TestRollover_SameDayNoLoad(t *testing.T) {
	b, _ := newTestBoard(t, &fakeSource{}, nil)
	loaded(t, b, fixture())
	b.render(utc("2025-01-16T13:00:00Z"))

	seq := b.loadSeq
	b.rollover(context.Background(), utc("2025-01-16T13:01:00Z"))
	assert.Equal(t, seq, b.loadSeq)

	b.rollover(context.Background(), utc("2025-01-17T00:00:30Z"))
	assert.Equal(t, seq+1, b.loadSeq)
	<-b.loads
}

func TestLocation_RequestAndSupersede(t *testing.T) {
	b, _ := newTestBoard(t, &fakeSource{}, StaticLocator{Point: blackburn})
	ctx := context.Background()

	b.requestLocation(ctx)
	assert.Equal(t, model.PermissionPending, b.compass().LocationState)
	assert.Equal(t, "Getting your location…", b.compass().Status)

	first := <-b.locations
	b.requestLocation(ctx)
	assert.False(t, b.applyLocation(first), "answer to an older request")

	second := <-b.locations
	assert.True(t, b.applyLocation(second))

	c := b.compass()
	assert.Equal(t, model.PermissionGranted, c.LocationState)
	require.NotNil(t, c.Bearing)
	assert.InDelta(t, 118.4229, *c.Bearing, 1e-3)
	assert.Equal(t, "ESE", c.Cardinal)
	assert.Equal(t, model.StaticArrow, c.Angles.Mode)
}

func TestLocation_ExternalResultWins(t *testing.T) {
	b, _ := newTestBoard(t, &fakeSource{}, StaticLocator{Point: blackburn})
	b.requestLocation(context.Background())
	pending := <-b.locations

	assert.True(t, b.applyLocation(locationEvent{err: ErrPermissionDenied}))
	assert.False(t, b.applyLocation(pending))

	c := b.compass()
	assert.Equal(t, model.PermissionDenied, c.LocationState)
	assert.Nil(t, c.Bearing)
	assert.Equal(t, "--", c.Cardinal)
}

func TestLocation_NoLocator(t *testing.T) {
	b, _ := newTestBoard(t, &fakeSource{}, nil)
	b.requestLocation(context.Background())
	assert.Equal(t, model.PermissionDenied, b.compass().LocationState)
}

func TestHeading(t *testing.T) {
	b, _ := newTestBoard(t, &fakeSource{}, nil)
	b.applyLocation(locationEvent{point: blackburn})

	err := b.applyHeading(model.Heading{Kind: model.AbsoluteCompassHeading, Degrees: 90})
	assert.ErrorIs(t, err, ErrMotionNotGranted)

	b.applyMotion(true)
	require.NoError(t, b.applyHeading(model.Heading{Kind: model.AbsoluteCompassHeading, Degrees: 90}))
	c := b.compass()
	assert.True(t, c.LiveMode)
	assert.Equal(t, -90.0, c.Angles.Dial)
	assert.InDelta(t, 28.4229, c.Angles.Needle, 1e-3)

	err = b.applyHeading(model.Heading{Kind: model.DeviceRotationAngle, Degrees: 10})
	assert.ErrorIs(t, err, qibla.ErrHeadingKindMismatch)

	b.applyMotion(false)
	c = b.compass()
	assert.False(t, c.LiveMode)
	assert.Nil(t, c.DeviceHeading)
	assert.Contains(t, c.Status, "Motion permission was not granted.")

	b.applyMotion(true)
	require.NoError(t, b.applyHeading(model.Heading{Kind: model.DeviceRotationAngle, Degrees: 10}))
	require.NotNil(t, b.compass().DeviceHeading)
	assert.Equal(t, 350.0, *b.compass().DeviceHeading)
}

func TestDay(t *testing.T) {
	b, _ := newTestBoard(t, &fakeSource{}, nil)

	_, err := b.Day(context.Background(), "2025-01-16")
	assert.ErrorIs(t, err, ErrNoRow)

	loaded(t, b, fixture())
	s, err := b.Day(context.Background(), "2025-01-16")
	require.NoError(t, err)
	assert.Nil(t, s.Schedule.Current)
	require.NotNil(t, s.Next)
	assert.Equal(t, model.Fajr, s.Next.Slot)
	assert.Equal(t, "06:21:00", s.Countdown)

	s, err = b.Day(context.Background(), "2025-01-17")
	require.NoError(t, err)
	assert.Equal(t, "Friday", s.Weekday)
	assert.Equal(t, model.JumuahName, s.Schedule.Entries[model.Dhuhr].Label)

	_, err = b.Day(context.Background(), "2025-02-30")
	assert.Error(t, err)
	_, err = b.Day(context.Background(), "2024-01-01")
	assert.ErrorIs(t, err, ErrNoRow)
}

type lookupSource struct {
	fakeSource
	rows    map[string]model.DayRow
	err     error
	lookups []string
}

func (l *lookupSource) LookupRow(_ context.Context, iso string) (*model.DayRow, error) {
	l.lookups = append(l.lookups, iso)
	if l.err != nil {
		return nil, l.err
	}
	r, ok := l.rows[iso]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func TestDay_FallsBackToRowLookup(t *testing.T) {
	src := &lookupSource{rows: map[string]model.DayRow{
		"2024-06-07": row("2024-06-07", "02:50", "04:45", "13:15", "17:20", "18:40", "21:40", "23:20"),
		"2024-06-08": row("2024-06-08", "02:49", "04:44", "13:15", "17:20", "18:40", "21:41", "23:21"),
	}}
	b, _ := newTestBoard(t, src, nil)
	loaded(t, b, fixture())
	ctx := context.Background()

	s, err := b.Day(ctx, "2024-06-07")
	require.NoError(t, err)
	assert.Equal(t, "Friday", s.Weekday)
	assert.Equal(t, "02:50", s.Schedule.Entries[model.Fajr].Time.String())
	assert.Equal(t, []string{"2024-06-07", "2024-06-08"}, src.lookups)

	src.lookups = nil
	_, err = b.Day(ctx, "2025-01-16")
	require.NoError(t, err)
	assert.Empty(t, src.lookups, "rows in the loaded table are not looked up")

	_, err = b.Day(ctx, "2023-01-01")
	assert.ErrorIs(t, err, ErrNoRow)

	src.err = errors.New("connection refused")
	_, err = b.Day(ctx, "2023-01-01")
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, ErrNoRow)
}

func TestPublicAPI_RequiresRunning(t *testing.T) {
	b, _ := newTestBoard(t, &fakeSource{}, nil)
	ctx := context.Background()
	assert.ErrorIs(t, b.SubmitLocation(ctx, blackburn), ErrNotRunning)
	assert.ErrorIs(t, b.SubmitLocation(ctx, model.GeoPoint{Lat: 91}), ErrInvalidLocation)
	assert.ErrorIs(t, b.DenyLocation(ctx), ErrNotRunning)
	assert.ErrorIs(t, b.EnableMotion(ctx, true), ErrNotRunning)
	assert.ErrorIs(t, b.SubmitHeading(ctx, model.Heading{}), ErrNotRunning)
}

func TestRun(t *testing.T) {
	src := &fakeSource{table: fixture()}
	b, rec := newTestBoard(t, src, StaticLocator{Point: blackburn})
	b.cfg.Tick = 5 * time.Millisecond
	b.cfg.Rollover = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, func() bool {
		s := b.Latest()
		return s != nil && s.HasData
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, b.SubmitLocation(ctx, blackburn))
	require.NoError(t, b.EnableMotion(ctx, true))
	require.NoError(t, b.SubmitHeading(ctx, model.Heading{Kind: model.AbsoluteCompassHeading, Degrees: 45}))
	err := b.SubmitHeading(ctx, model.Heading{Kind: model.DeviceRotationAngle, Degrees: 45})
	assert.ErrorIs(t, err, qibla.ErrHeadingKindMismatch)

	require.Eventually(t, func() bool {
		return rec.last().Compass.LiveMode
	}, 2*time.Second, 5*time.Millisecond)

	b.Refresh()
	b.Refresh()
	require.Eventually(t, func() bool { return src.Calls() >= 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("board did not stop")
	}
}

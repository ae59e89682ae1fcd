package board

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/qibla"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/schedule"
)

// startLoad fetches the timetable in the background. Only the result of the
// most recently started load is applied.
func (b *Board) startLoad(ctx context.Context) {
	b.loadSeq++
	seq := b.loadSeq
	b.loading = true

	go func() {
		table, err := b.cfg.Source.Load(ctx)
		select {
		case b.loads <- loadResult{seq: seq, table: table, err: err}:
		case <-ctx.Done():
		}
	}()
}

// applyLoad reports whether the result changed what is displayed.
func (b *Board) applyLoad(res loadResult) bool {
	if res.seq != b.loadSeq {
		log.Debug().Uint64("seq", res.seq).Uint64("latest", b.loadSeq).Msg("discarding stale timetable load")
		return false
	}
	b.loading = false

	if res.err != nil {
		b.loadFailed = true
		if !b.loadLogged {
			log.Error().Err(res.err).Msg("timetable load failed, keeping previous data")
			b.loadLogged = true
		}
		return false
	}

	if b.loadFailed {
		log.Info().Msg("timetable load recovered")
	}
	b.loadFailed = false
	b.loadLogged = false
	b.table = res.table
	t := res.table
	b.tableP.Store(&t)
	b.dirty = true
	log.Info().Int("days", len(res.table)).Msg("timetable loaded")
	return true
}

// rollover starts a load after midnight or to retry a failed one.
func (b *Board) rollover(ctx context.Context, now time.Time) {
	m := b.cfg.Civil.Moment(now)
	switch {
	case m.Today.ISO != b.date:
		log.Info().Str("date", m.Today.ISO).Msg("civil date changed, reloading timetable")
		b.dirty = true
		b.startLoad(ctx)
	case b.loadFailed && !b.loading:
		b.startLoad(ctx)
	}
}

func (b *Board) rebuild(m model.Moment) {
	today := b.table.Row(m.Today.ISO)
	tomorrow := b.table.Row(m.Tomorrow.ISO)

	b.sched = schedule.Build(today, tomorrow, m)
	b.next = schedule.Next(today, tomorrow, m)
	b.makrooh = schedule.Makrooh(today)
	b.hasData = today != nil
	b.date = m.Today.ISO
	b.dirty = false
}

// render recomputes the countdown, rebuilding first when the date changed,
// inputs changed or the target was reached, and publishes a snapshot.
func (b *Board) render(now time.Time) {
	m := b.cfg.Civil.Moment(now)
	if m.Today.ISO != b.date {
		b.dirty = true
	}

	var elapsed *model.NextTarget
	if b.next != nil && !b.dirty {
		if _, done := schedule.Countdown(b.next, m.Seconds); done {
			t := *b.next
			elapsed = &t
			b.dirty = true
			log.Info().Str("prayer", t.Label).Msg("adhan time reached")
		}
	}

	rebuilt := b.dirty
	if b.dirty {
		b.rebuild(m)
	}

	remaining, _ := schedule.Countdown(b.next, m.Seconds)

	snap := model.Snapshot{
		Locality:    b.cfg.Locality,
		Date:        m.Today.ISO,
		Weekday:     m.Today.Weekday.String(),
		HasData:     b.hasData,
		Schedule:    b.sched,
		Next:        b.next,
		Remaining:   remaining,
		Countdown:   schedule.FormatCountdown(remaining),
		Makrooh:     b.makrooh,
		Compass:     b.compass(),
		Rebuilt:     rebuilt,
		Elapsed:     elapsed,
		GeneratedAt: now,
	}
	b.latest.Store(&snap)
	b.cfg.Sink.Render(snap)
}

func (b *Board) compass() model.CompassState {
	return b.calc.Compass(qibla.Inputs{
		LocationState: b.locState,
		Location:      b.location,
		MotionState:   b.motionState,
		Heading:       b.heading,
	})
}

func (b *Board) requestLocation(ctx context.Context) {
	if b.cfg.Locator == nil {
		b.locSeq++
		b.locState = model.PermissionDenied
		b.location = nil
		return
	}
	b.locSeq++
	seq := b.locSeq
	b.locState = model.PermissionPending

	go func() {
		p, err := b.cfg.Locator.Locate(ctx)
		select {
		case b.locations <- locationEvent{seq: seq, point: p, err: err}:
		case <-ctx.Done():
		}
	}()
}

// applyLocation ignores answers to superseded requests. Results pushed from
// outside always win and cancel whatever lookup is in flight.
func (b *Board) applyLocation(ev locationEvent) bool {
	if ev.seq == 0 {
		b.locSeq++
	} else if ev.seq != b.locSeq {
		return false
	}

	if ev.err != nil {
		if !errors.Is(ev.err, ErrPermissionDenied) {
			log.Warn().Err(ev.err).Msg("location lookup failed")
		}
		b.locState = model.PermissionDenied
		b.location = nil
		return true
	}
	p := ev.point
	b.locState = model.PermissionGranted
	b.location = &p
	return true
}

func (b *Board) applyMotion(granted bool) {
	if granted {
		b.motionState = model.PermissionGranted
		return
	}
	b.motionState = model.PermissionDenied
	b.heading = nil
	b.resolver.Reset()
}

func (b *Board) applyHeading(raw model.Heading) error {
	if b.motionState != model.PermissionGranted {
		return ErrMotionNotGranted
	}
	h, err := b.resolver.Resolve(raw)
	if err != nil {
		return err
	}
	b.heading = &h
	return nil
}

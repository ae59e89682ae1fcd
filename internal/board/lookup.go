package board

import (
	"context"
	"fmt"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/clock"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/schedule"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/timetable"
)

// Day resolves the schedule for an arbitrary date as seen at its first
// second. Rows come from the last successfully loaded timetable; dates it
// lacks are asked of the source directly when it supports single-row lookups.
func (b *Board) Day(ctx context.Context, iso string) (*model.Snapshot, error) {
	m, err := clock.At(iso)
	if err != nil {
		return nil, err
	}
	today, err := b.lookupRow(ctx, m.Today.ISO)
	if err != nil {
		return nil, err
	}
	if today == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRow, iso)
	}
	tomorrow, err := b.lookupRow(ctx, m.Tomorrow.ISO)
	if err != nil {
		return nil, err
	}

	next := schedule.Next(today, tomorrow, m)
	remaining, _ := schedule.Countdown(next, m.Seconds)
	return &model.Snapshot{
		Locality:  b.cfg.Locality,
		Date:      m.Today.ISO,
		Weekday:   m.Today.Weekday.String(),
		HasData:   true,
		Schedule:  schedule.Build(today, tomorrow, m),
		Next:      next,
		Remaining: remaining,
		Countdown: schedule.FormatCountdown(remaining),
		Makrooh:   schedule.Makrooh(today),
	}, nil
}

func (b *Board) lookupRow(ctx context.Context, iso string) (*model.DayRow, error) {
	if tp := b.tableP.Load(); tp != nil {
		if r := tp.Row(iso); r != nil {
			return r, nil
		}
	}
	if l, ok := b.cfg.Source.(timetable.RowLookup); ok {
		return l.LookupRow(ctx, iso)
	}
	return nil, nil
}

// internal/db/prayer_times.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

type dayRowRecord struct {
	Date          string         `db:"date"`
	Fajr          sql.NullString `db:"fajr"`
	Sunrise       sql.NullString `db:"sunrise"`
	Dhuhr         sql.NullString `db:"dhuhr"`
	Asr1          sql.NullString `db:"asr1"`
	Asr2          sql.NullString `db:"asr2"`
	Maghrib       sql.NullString `db:"maghrib"`
	Isha          sql.NullString `db:"isha"`
	MakroohAfter  sql.NullInt64  `db:"makrooh_after_sunrise_mins"`
	MakroohBefore sql.NullInt64  `db:"makrooh_before_maghrib_mins"`
}

const selectDayRows = `
	SELECT to_char(date, 'YYYY-MM-DD') AS date,
	       fajr, sunrise, dhuhr, asr1, asr2, maghrib, isha,
	       makrooh_after_sunrise_mins, makrooh_before_maghrib_mins
	  FROM prayer_times`

const upsertDayRow = `
	INSERT INTO prayer_times
	  (date, fajr, sunrise, dhuhr, asr1, asr2, maghrib, isha,
	   makrooh_after_sunrise_mins, makrooh_before_maghrib_mins, updated_at)
	VALUES
	  ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	ON CONFLICT (date) DO UPDATE SET
	  fajr = EXCLUDED.fajr,
	  sunrise = EXCLUDED.sunrise,
	  dhuhr = EXCLUDED.dhuhr,
	  asr1 = EXCLUDED.asr1,
	  asr2 = EXCLUDED.asr2,
	  maghrib = EXCLUDED.maghrib,
	  isha = EXCLUDED.isha,
	  makrooh_after_sunrise_mins = EXCLUDED.makrooh_after_sunrise_mins,
	  makrooh_before_maghrib_mins = EXCLUDED.makrooh_before_maghrib_mins,
	  updated_at = now();`

func (s *pgStore) UpsertDayRows(ctx context.Context, rows []model.DayRow) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("UpsertDayRows begin failed")
		return 0, err
	}

	for _, r := range rows {
		args := []any{r.Date}
		for _, slot := range model.Slots {
			args = append(args, nullTime(r.Time(slot)))
		}
		args = append(args, nullInt(r.MakroohAfterSunrise), nullInt(r.MakroohBeforeMaghrib))

		if _, err := tx.ExecContext(ctx, upsertDayRow, args...); err != nil {
			_ = tx.Rollback()
			log.Error().Err(err).Str("date", r.Date).Msg("UpsertDayRows failed")
			return 0, fmt.Errorf("upsert %s: %w", r.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("UpsertDayRows commit failed")
		return 0, err
	}
	return len(rows), nil
}

func (s *pgStore) ListDayRows(ctx context.Context) ([]model.DayRow, error) {
	var recs []dayRowRecord
	if err := s.db.SelectContext(ctx, &recs, selectDayRows+` ORDER BY date;`); err != nil {
		log.Error().Err(err).Msg("ListDayRows failed")
		return nil, err
	}
	out := make([]model.DayRow, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (s *pgStore) GetDayRow(ctx context.Context, date string) (*model.DayRow, error) {
	var rec dayRowRecord
	err := s.db.GetContext(ctx, &rec, selectDayRows+` WHERE date = $1;`, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("GetDayRow failed")
		return nil, err
	}
	row := rec.toModel()
	return &row, nil
}

func (rec dayRowRecord) toModel() model.DayRow {
	r := model.DayRow{Date: rec.Date}
	cols := [model.SlotCount]sql.NullString{
		rec.Fajr, rec.Sunrise, rec.Dhuhr, rec.Asr1, rec.Asr2, rec.Maghrib, rec.Isha,
	}
	for i, c := range cols {
		if c.Valid {
			r.Times[i] = model.ParseTimeOfDay(c.String)
		}
	}
	if rec.MakroohAfter.Valid {
		v := int(rec.MakroohAfter.Int64)
		r.MakroohAfterSunrise = &v
	}
	if rec.MakroohBefore.Valid {
		v := int(rec.MakroohBefore.Int64)
		r.MakroohBeforeMaghrib = &v
	}
	return r
}

func nullTime(t model.TimeOfDay) sql.NullString {
	if !t.Known() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.String(), Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

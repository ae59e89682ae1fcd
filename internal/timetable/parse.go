// Package timetable loads the daily prayer timetable from its configured
// source and indexes it by ISO date.
package timetable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

const isoDate = "2006-01-02"

var ErrNoDateColumn = errors.New("timetable has no date column")

const (
	colDate          = "date"
	colMakroohAfter  = "makrooh_after_sunrise_mins"
	colMakroohBefore = "makrooh_before_maghrib_mins"
)

// Table maps ISO dates to their rows.
type Table map[string]model.DayRow

// Row returns nil when the date is absent.
func (t Table) Row(iso string) *model.DayRow {
	r, ok := t[iso]
	if !ok {
		return nil
	}
	return &r
}

// Rows returns every row in date order.
func (t Table) Rows() []model.DayRow {
	out := make([]model.DayRow, 0, len(t))
	for _, r := range t {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// FromRows indexes rows by date; a later duplicate replaces an earlier one.
func FromRows(rows []model.DayRow) Table {
	t := make(Table, len(rows))
	for _, r := range rows {
		t[r.Date] = r
	}
	return t
}

// Parse reads a CSV timetable. Column order is free; rows without a valid
// ISO date are skipped and malformed times are kept as unknown.
func Parse(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read timetable header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	dateIdx, ok := cols[colDate]
	if !ok {
		return nil, ErrNoDateColumn
	}

	cell := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	table := Table{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read timetable: %w", err)
		}
		if dateIdx >= len(rec) {
			continue
		}
		date := strings.TrimSpace(rec[dateIdx])
		if _, err := time.Parse(isoDate, date); err != nil {
			continue
		}

		row := model.DayRow{Date: date}
		for _, slot := range model.Slots {
			row.Times[slot] = model.ParseTimeOfDay(cell(rec, slot.Key()))
		}
		row.MakroohAfterSunrise = minutes(cell(rec, colMakroohAfter))
		row.MakroohBeforeMaghrib = minutes(cell(rec, colMakroohBefore))
		table[date] = row
	}
	return table, nil
}

func minutes(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

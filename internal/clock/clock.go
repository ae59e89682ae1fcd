// Package clock projects instants into the board's fixed civil timezone.
package clock

import (
	"fmt"
	"time"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

const ISODate = "2006-01-02"

// Clock lets tests pin "now".
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (f FixedClock) Now() time.Time { return f.T }

// Civil converts instants into wall-clock values in one location.
type Civil struct {
	loc *time.Location
}

// NewCivil loads an IANA zone such as "Europe/London".
func NewCivil(zone string) (*Civil, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Civil{loc: loc}, nil
}

func (c *Civil) Location() *time.Location { return c.loc }

// Moment projects t into the civil zone. Tomorrow is the next calendar date,
// so DST changes never skip or repeat a day.
func (c *Civil) Moment(t time.Time) model.Moment {
	local := t.In(c.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 12, 0, 0, 0, c.loc)

	secs := local.Hour()*3600 + local.Minute()*60 + local.Second()
	return model.Moment{
		Today:    model.CivilDay{ISO: midnight.Format(ISODate), Weekday: midnight.Weekday()},
		Tomorrow: model.CivilDay{ISO: next.Format(ISODate), Weekday: next.Weekday()},
		Minutes:  secs / 60,
		Seconds:  secs,
	}
}

// Day parses an ISO date into a CivilDay.
func Day(iso string) (model.CivilDay, error) {
	d, err := time.Parse(ISODate, iso)
	if err != nil {
		return model.CivilDay{}, fmt.Errorf("invalid date %q: %w", iso, err)
	}
	return model.CivilDay{ISO: d.Format(ISODate), Weekday: d.Weekday()}, nil
}

// At builds the moment at midnight starting an ISO date.
func At(iso string) (model.Moment, error) {
	today, err := Day(iso)
	if err != nil {
		return model.Moment{}, err
	}
	d, _ := time.Parse(ISODate, iso)
	next := d.AddDate(0, 0, 1)
	return model.Moment{
		Today:    today,
		Tomorrow: model.CivilDay{ISO: next.Format(ISODate), Weekday: next.Weekday()},
	}, nil
}

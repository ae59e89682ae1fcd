// exposes a Store interface that is passed to the timetable source and admin API
package db

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

var ErrNotFound = errors.New("no timetable row for date")

type Store interface {
	UpsertDayRows(ctx context.Context, rows []model.DayRow) (int, error)
	ListDayRows(ctx context.Context) ([]model.DayRow, error)
	GetDayRow(ctx context.Context, date string) (*model.DayRow, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}

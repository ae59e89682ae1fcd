package timetable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/db"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/storage"
)

// Source produces a fresh Table on every call.
type Source interface {
	Load(ctx context.Context) (Table, error)
}

// RowLookup is implemented by sources that can fetch a single date without
// loading the whole table. A missing date is (nil, nil).
type RowLookup interface {
	LookupRow(ctx context.Context, iso string) (*model.DayRow, error)
}

// FileSource reads a CSV file from local disk.
type FileSource struct {
	Path string
}

func (s *FileSource) Load(_ context.Context) (Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open timetable: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// HTTPSource fetches the CSV over HTTP, bypassing caches.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Load(ctx context.Context) (Table, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build timetable request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "text/csv")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timetable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch timetable: unexpected status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

// StorageSource reads the canonical CSV object from upload storage, which is
// either a local directory or a Spaces bucket.
type StorageSource struct {
	Storage storage.Storage
	Key     string
}

func (s *StorageSource) Load(ctx context.Context) (Table, error) {
	rc, err := s.Storage.Open(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("open timetable object: %w", err)
	}
	defer rc.Close()
	return Parse(rc)
}

// DBSource reads every stored row from postgres.
type DBSource struct {
	Store db.Store
}

func (s *DBSource) Load(ctx context.Context) (Table, error) {
	rows, err := s.Store.ListDayRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list timetable rows: %w", err)
	}
	return FromRows(rows), nil
}

func (s *DBSource) LookupRow(ctx context.Context, iso string) (*model.DayRow, error) {
	row, err := s.Store.GetDayRow(ctx, iso)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timetable row %s: %w", iso, err)
	}
	return row, nil
}

const (
	KindFile    = "file"
	KindHTTP    = "http"
	KindStorage = "storage"
	KindDB      = "db"
)

var ErrUnknownSource = errors.New("unknown timetable source")

// Options carries whatever the chosen kind needs.
type Options struct {
	Kind    string
	Path    string
	URL     string
	Key     string
	Storage storage.Storage
	Store   db.Store
}

// NewSource picks a Source implementation by kind.
func NewSource(o Options) (Source, error) {
	switch o.Kind {
	case KindFile, "":
		if o.Path == "" {
			return nil, errors.New("file timetable source needs a path")
		}
		return &FileSource{Path: o.Path}, nil
	case KindHTTP:
		if o.URL == "" {
			return nil, errors.New("http timetable source needs a URL")
		}
		return &HTTPSource{URL: o.URL}, nil
	case KindStorage:
		if o.Storage == nil || o.Key == "" {
			return nil, errors.New("storage timetable source needs storage and a key")
		}
		return &StorageSource{Storage: o.Storage, Key: o.Key}, nil
	case KindDB:
		if o.Store == nil {
			return nil, errors.New("db timetable source needs a database")
		}
		return &DBSource{Store: o.Store}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, o.Kind)
	}
}

// Package board drives the live prayer board. One goroutine owns all mutable
// state: the loaded timetable, the resolved schedule, the countdown target and
// the compass inputs. Everything else talks to it over channels and reads the
// latest published snapshot.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/clock"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/qibla"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/timetable"
)

var (
	ErrNotRunning       = errors.New("board is not running")
	ErrNoRow            = errors.New("no timetable row for date")
	ErrMotionNotGranted = errors.New("motion permission not granted")
	ErrInvalidLocation  = errors.New("invalid location")
)

const (
	DefaultTick     = time.Second
	DefaultRollover = time.Minute
)

type Config struct {
	Locality string
	Civil    *clock.Civil
	Clock    clock.Clock
	Source   timetable.Source
	Locator  Locator
	Sink     Sink
	Tick     time.Duration
	Rollover time.Duration
}

type loadResult struct {
	seq   uint64
	table timetable.Table
	err   error
}

type locationEvent struct {
	seq   uint64 // 0 for results pushed from outside
	point model.GeoPoint
	err   error
}

type headingRequest struct {
	heading model.Heading
	reply   chan error
}

type Board struct {
	cfg Config

	refresh   chan struct{}
	loads     chan loadResult
	requests  chan struct{}
	locations chan locationEvent
	motion    chan bool
	headings  chan headingRequest

	running atomic.Bool
	latest  atomic.Pointer[model.Snapshot]
	tableP  atomic.Pointer[timetable.Table]

	// owned by the loop goroutine
	table      timetable.Table
	loadSeq    uint64
	loading    bool
	loadFailed bool
	loadLogged bool
	date       string
	dirty      bool
	sched      model.DisplaySchedule
	next       *model.NextTarget
	makrooh    []model.MakroohWindow
	hasData    bool

	locSeq      uint64
	locState    model.Permission
	location    *model.GeoPoint
	motionState model.Permission
	heading     *model.Heading
	resolver    qibla.HeadingResolver
	calc        *qibla.Calculator
}

func New(cfg Config) (*Board, error) {
	if cfg.Civil == nil {
		return nil, errors.New("board needs a civil timezone")
	}
	if cfg.Source == nil {
		return nil, errors.New("board needs a timetable source")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Sink == nil {
		cfg.Sink = MultiSink{}
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Rollover <= 0 {
		cfg.Rollover = DefaultRollover
	}
	return &Board{
		cfg:         cfg,
		refresh:     make(chan struct{}, 1),
		loads:       make(chan loadResult, 4),
		requests:    make(chan struct{}, 1),
		locations:   make(chan locationEvent),
		motion:      make(chan bool),
		headings:    make(chan headingRequest),
		table:       timetable.Table{},
		dirty:       true,
		locState:    model.PermissionUnrequested,
		motionState: model.PermissionUnrequested,
		calc:        qibla.NewCalculator(),
	}, nil
}

// Run blocks until ctx is cancelled.
func (b *Board) Run(ctx context.Context) error {
	b.running.Store(true)
	defer b.running.Store(false)

	tick := time.NewTicker(b.cfg.Tick)
	defer tick.Stop()
	rollover := time.NewTicker(b.cfg.Rollover)
	defer rollover.Stop()

	log.Info().Str("locality", b.cfg.Locality).Msg("prayer board started")
	b.startLoad(ctx)
	b.render(b.cfg.Clock.Now())

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("prayer board stopped")
			return nil

		case <-tick.C:
			b.render(b.cfg.Clock.Now())

		case <-rollover.C:
			b.rollover(ctx, b.cfg.Clock.Now())

		case <-b.refresh:
			b.startLoad(ctx)

		case res := <-b.loads:
			if b.applyLoad(res) {
				b.render(b.cfg.Clock.Now())
			}

		case <-b.requests:
			b.requestLocation(ctx)
			b.render(b.cfg.Clock.Now())

		case ev := <-b.locations:
			if b.applyLocation(ev) {
				b.render(b.cfg.Clock.Now())
			}

		case granted := <-b.motion:
			b.applyMotion(granted)
			b.render(b.cfg.Clock.Now())

		case req := <-b.headings:
			err := b.applyHeading(req.heading)
			req.reply <- err
			if err == nil {
				b.render(b.cfg.Clock.Now())
			}
		}
	}
}

// Latest is the most recently rendered snapshot, nil before the first render.
func (b *Board) Latest() *model.Snapshot {
	return b.latest.Load()
}

// Refresh asks for a new timetable load. Repeated calls before the loop
// picks one up collapse into one.
func (b *Board) Refresh() {
	select {
	case b.refresh <- struct{}{}:
	default:
	}
}

// RequestLocation asks the Locator for a position without blocking.
func (b *Board) RequestLocation() {
	select {
	case b.requests <- struct{}{}:
	default:
	}
}

// SubmitLocation and DenyLocation push a result obtained outside the board,
// superseding any lookup still in flight.
func (b *Board) SubmitLocation(ctx context.Context, p model.GeoPoint) error {
	if !p.Valid() {
		return fmt.Errorf("%w: lat %v lon %v", ErrInvalidLocation, p.Lat, p.Lon)
	}
	return sendTo(ctx, b, b.locations, locationEvent{point: p})
}

func (b *Board) DenyLocation(ctx context.Context) error {
	return sendTo(ctx, b, b.locations, locationEvent{err: ErrPermissionDenied})
}

func (b *Board) EnableMotion(ctx context.Context, granted bool) error {
	return sendTo(ctx, b, b.motion, granted)
}

// SubmitHeading returns qibla.ErrHeadingKindMismatch when the reading's kind
// differs from the one already in use.
func (b *Board) SubmitHeading(ctx context.Context, h model.Heading) error {
	if !b.running.Load() {
		return ErrNotRunning
	}
	req := headingRequest{heading: h, reply: make(chan error, 1)}
	select {
	case b.headings <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sendTo[T any](ctx context.Context, b *Board, ch chan<- T, v T) error {
	if !b.running.Load() {
		return ErrNotRunning
	}
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

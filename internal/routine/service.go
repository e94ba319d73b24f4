// Package routine is the application core: it keeps each day's entries in
// step with the block catalog and moves entries through their statuses.
package routine

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/scheduler"
	"github.com/julianstephens/routineos/internal/seed"
	"github.com/julianstephens/routineos/internal/storage"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// IDGenerator returns a new unique identifier.
type IDGenerator func() string

// Service implements the routine operations on top of a storage provider.
type Service struct {
	store storage.Provider
	clock Clock
	newID IDGenerator
	sched *scheduler.Scheduler
	seed  func() ([]models.Block, error)
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) { s.newID = g }
}

func WithScheduler(sched *scheduler.Scheduler) Option {
	return func(s *Service) { s.sched = sched }
}

// WithSeed replaces the catalog installed into an empty database.
func WithSeed(fn func() ([]models.Block, error)) Option {
	return func(s *Service) { s.seed = fn }
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: ClockFunc(time.Now),
		newID: uuid.NewString,
		sched: scheduler.New(),
		seed:  seed.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scheduler returns the scheduler used to lay out days.
func (s *Service) Scheduler() *scheduler.Scheduler {
	return s.sched
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// wrap turns repository failures into *storage.OpError. Domain errors pass
// through.
func wrap(op string, err error) error {
	if errors.Is(err, models.ErrInvalidTransition) || errors.Is(err, models.ErrInvalidStatus) {
		return err
	}
	return storage.Wrap(op, err)
}

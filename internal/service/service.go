// Package service is the caller layer around the scheduling core. It reads
// snapshots from the store, runs the pure core functions against them and
// persists whatever they return.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/config"
	"github.com/debiasdaily/debias/internal/logger"
	"github.com/debiasdaily/debias/internal/progress"
	"github.com/debiasdaily/debias/internal/store"
)

// Service coordinates the store and the core packages.
type Service struct {
	store *store.Store
	cfg   config.Config
	log   *logger.Logger
	loc   *time.Location
	now   func() time.Time
	rng   *rand.Rand
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand fixes the random source used for quiz generation.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// New creates a Service. A nil log discards output.
func New(st *store.Store, cfg config.Config, log *logger.Logger, opts ...Option) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{store: st, cfg: cfg, log: log, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Location returns the zone used for calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.now()
}

// Catalog returns core biases followed by user biases. If the result is
// empty the embedded core catalog is used.
func (s *Service) Catalog(ctx context.Context) ([]catalog.Bias, error) {
	core, err := catalog.Core()
	if err != nil {
		return nil, fmt.Errorf("load core catalog: %w", err)
	}
	user, err := s.store.UserBiases().All(ctx)
	if err != nil {
		s.log.Error("load user biases failed", "error", err)
		return nil, err
	}
	return catalog.Merge(core, user), nil
}

// Bias looks up one bias and its progress record.
func (s *Service) Bias(ctx context.Context, id string) (catalog.Bias, progress.BiasProgress, error) {
	biases, err := s.Catalog(ctx)
	if err != nil {
		return catalog.Bias{}, progress.BiasProgress{}, err
	}
	b, ok := catalog.Find(biases, id)
	if !ok {
		return catalog.Bias{}, progress.BiasProgress{}, unknown(id)
	}
	p, _, err := s.store.Progress().Get(ctx, id)
	if err != nil {
		return catalog.Bias{}, progress.BiasProgress{}, err
	}
	return b, p, nil
}

// snapshot loads the catalog and every progress record.
func (s *Service) snapshot(ctx context.Context) ([]catalog.Bias, []progress.BiasProgress, error) {
	biases, err := s.Catalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.store.Progress().All(ctx)
	if err != nil {
		s.log.Error("load progress failed", "error", err)
		return nil, nil, err
	}
	return biases, list, nil
}

// Reset deletes all learner progress, quiz history and streaks.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		s.log.Error("reset failed", "error", err)
		return err
	}
	s.log.Info("learner data reset")
	return nil
}

// IsUserError reports whether err comes from bad input rather than a
// storage failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		catalog.ErrUnknownItem, catalog.ErrInvalidBias, catalog.ErrEmptyCatalog,
		catalog.ErrCatalogTooSmall, store.ErrSessionNotFinished,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func unknown(id string) error {
	return fmt.Errorf("%w: %q", catalog.ErrUnknownItem, id)
}

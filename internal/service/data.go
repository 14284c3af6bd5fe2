package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/daily"
	"github.com/debiasdaily/debias/internal/progress"
	"github.com/debiasdaily/debias/internal/quiz"
	"github.com/debiasdaily/debias/internal/spacedrep"
	"github.com/debiasdaily/debias/internal/store"
)

// Export writes all learner data as indented JSON.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	snap, err := s.store.Export(ctx, s.now())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Import reads a snapshot written by Export. User biases are validated
// before anything is written.
func (s *Service) Import(ctx context.Context, r io.Reader, replace bool) error {
	var snap store.Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	for i, b := range snap.UserBiases {
		v, err := catalog.ValidateUserBias(b)
		if err != nil {
			return fmt.Errorf("user bias %d: %w", i, err)
		}
		snap.UserBiases[i] = v
	}

	if err := s.store.Import(ctx, &snap, replace); err != nil {
		s.log.Error("import failed", "error", err)
		return err
	}
	s.log.Info("snapshot imported",
		"progress", len(snap.Progress), "user_biases", len(snap.UserBiases),
		"quiz_sessions", len(snap.QuizSessions), "replace", replace)
	return nil
}

// Overview gathers everything the stats screen shows.
type Overview struct {
	CatalogSize  int
	Viewed       int
	Mastered     int
	Streak       progress.Streak
	Distribution map[catalog.Category]int
	Review       spacedrep.Stats
	Quiz         quiz.Stats
}

// Overview summarizes learning progress.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return Overview{}, err
	}
	streak, err := s.store.Streaks().Get(ctx)
	if err != nil {
		return Overview{}, err
	}
	qs, err := s.QuizStats(ctx)
	if err != nil {
		return Overview{}, err
	}

	tracked := inCatalog(biases, list)
	o := Overview{
		CatalogSize:  len(biases),
		Streak:       streak,
		Distribution: daily.CategoryDistribution(tracked, biases),
		Review:       spacedrep.CalculateStats(tracked, s.now(), s.loc),
		Quiz:         qs,
	}
	for _, p := range tracked {
		if p.Viewed() {
			o.Viewed++
		}
		if p.Mastered {
			o.Mastered++
		}
	}
	return o, nil
}

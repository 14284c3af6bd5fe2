package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"entgo.io/ent/dialect"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
	"github.com/debiasdaily/debias/internal/quiz"
)

// SnapshotVersion is the export format version written by Export.
const SnapshotVersion = 1

// Snapshot captures all learner data at a point in time.
type Snapshot struct {
	Version      int                     `json:"version"`
	ExportedAt   time.Time               `json:"exported_at"`
	Progress     []progress.BiasProgress `json:"progress"`
	UserBiases   []catalog.Bias          `json:"user_biases"`
	QuizSessions []quiz.Session          `json:"quiz_sessions"`
	Streak       progress.Streak         `json:"streak"`
}

// Export reads all learner data into a Snapshot.
func (s *Store) Export(ctx context.Context, now time.Time) (*Snapshot, error) {
	list, err := s.Progress().All(ctx)
	if err != nil {
		return nil, err
	}
	biases, err := s.UserBiases().All(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.Quizzes().List(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}
	streak, err := s.Streaks().Get(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Version:      SnapshotVersion,
		ExportedAt:   now,
		Progress:     list,
		UserBiases:   biases,
		QuizSessions: sessions,
		Streak:       streak,
	}, nil
}

// Import writes snap in a single transaction. With replace, existing
// learner data is cleared first; otherwise records are merged, imported
// progress and biases overwrite stored ones, and sessions already present
// are skipped. Unfinished sessions are ignored.
func (s *Store) Import(ctx context.Context, snap *Snapshot, replace bool) error {
	if snap == nil {
		return fmt.Errorf("import: nil snapshot")
	}
	if snap.Version < 1 || snap.Version > SnapshotVersion {
		return fmt.Errorf("import: unsupported snapshot version %d", snap.Version)
	}

	list := make([]progress.BiasProgress, 0, len(snap.Progress))
	for _, p := range snap.Progress {
		m, err := progress.Migrate(p)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		list = append(list, m)
	}
	if _, err := progress.Index(list); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	var sessions []quiz.Session
	for _, qs := range snap.QuizSessions {
		if qs.Completed() {
			sessions = append(sessions, qs)
		}
	}
	var firstSeq int64
	if len(sessions) > 0 {
		var err error
		if firstSeq, err = s.seq.Reserve(ctx, len(sessions)); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}

	return s.inTx(ctx, func(tx dialect.Tx) error {
		if replace {
			for _, table := range append(slices.Clone(learnerTables), tableUserBiases) {
				if err := exec(ctx, tx, builder.Delete(table)); err != nil {
					return fmt.Errorf("import: clear %s: %w", table, err)
				}
			}
		}
		for _, p := range list {
			if err := putProgress(ctx, tx, p); err != nil {
				return fmt.Errorf("import progress %q: %w", p.BiasID, err)
			}
		}
		for _, b := range snap.UserBiases {
			if err := putUserBias(ctx, tx, b); err != nil {
				return fmt.Errorf("import user bias %q: %w", b.ID, err)
			}
		}
		for i, qs := range sessions {
			if _, err := insertSession(ctx, tx, qs, firstSeq+int64(i)); err != nil {
				return fmt.Errorf("import quiz session %s: %w", qs.ID, err)
			}
		}
		if replace || snap.Streak.TotalDays > 0 {
			if err := putStreak(ctx, tx, snap.Streak); err != nil {
				return fmt.Errorf("import streak: %w", err)
			}
		}
		return nil
	})
}

package store

import (
	"context"
	"errors"
	"time"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
	"github.com/debiasdaily/debias/internal/quiz"
)

// ErrSessionNotFinished is returned when appending a quiz session that has
// been neither completed nor abandoned.
var ErrSessionNotFinished = errors.New("store: quiz session not finished")

// QueryOpts configures quiz session queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before (0 = no bound)
	From   time.Time // completed_at >= From
	To     time.Time // completed_at <= To
}

// ProgressRepo stores one BiasProgress record per bias id.
type ProgressRepo interface {
	// All returns every record, migrated to the current version, ordered
	// by bias id.
	All(ctx context.Context) ([]progress.BiasProgress, error)

	// Get returns the record for biasID, or ok=false if there is none.
	Get(ctx context.Context, biasID string) (p progress.BiasProgress, ok bool, err error)

	// Put inserts or replaces a record.
	Put(ctx context.Context, p progress.BiasProgress) error

	// PutMany writes several records in one transaction.
	PutMany(ctx context.Context, list []progress.BiasProgress) error

	// Delete removes the record for biasID.
	Delete(ctx context.Context, biasID string) error
}

// UserBiasRepo stores learner-authored biases.
type UserBiasRepo interface {
	// All returns user biases in creation order.
	All(ctx context.Context) ([]catalog.Bias, error)
	Put(ctx context.Context, b catalog.Bias) error

	// Delete removes the bias and its progress record together.
	Delete(ctx context.Context, id string) error
}

// QuizRepo is the append-only store of finished quiz sessions.
type QuizRepo interface {
	// Append stores a finished session and returns its sequence number.
	// A session id that is already stored is not written again; its
	// existing sequence number is returned.
	Append(ctx context.Context, s quiz.Session) (int64, error)

	// List returns sessions in sequence order.
	List(ctx context.Context, opts QueryOpts) ([]quiz.Session, error)

	// Count returns the number of stored sessions.
	Count(ctx context.Context) (int, error)
}

// StreakRepo stores the visit streak.
type StreakRepo interface {
	// Get returns the stored streak, or the zero Streak if none.
	Get(ctx context.Context) (progress.Streak, error)
	Put(ctx context.Context, s progress.Streak) error
}

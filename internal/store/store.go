package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Progress returns the per-bias progress repository.
func (s *Store) Progress() ProgressRepo {
	return &progressRepo{db: s.db, drv: s.drv}
}

// UserBiases returns the repository of learner-authored biases.
func (s *Store) UserBiases() UserBiasRepo {
	return &userBiasRepo{db: s.db, drv: s.drv}
}

// Quizzes returns the finished quiz session repository.
func (s *Store) Quizzes() QuizRepo {
	return &quizRepo{db: s.db, drv: s.drv, seq: s.seq}
}

// DailyCache returns the persistent daily pick cache.
func (s *Store) DailyCache() *DailyCache {
	return &DailyCache{db: s.db, drv: s.drv}
}

// Streaks returns the visit streak repository.
func (s *Store) Streaks() StreakRepo {
	return &streakRepo{db: s.db, drv: s.drv}
}

// Reset deletes all learner data: progress, quiz sessions, the daily cache
// and the visit streak. User-authored biases are kept.
func (s *Store) Reset(ctx context.Context) error {
	return s.inTx(ctx, func(tx dialect.Tx) error {
		for _, table := range learnerTables {
			if err := exec(ctx, tx, builder.Delete(table)); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// inTx runs fn inside a transaction, rolling back if it fails.
func (s *Store) inTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	return runTx(ctx, s.drv, fn)
}

func runTx(ctx context.Context, drv *entsql.Driver, fn func(tx dialect.Tx) error) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. DEBIAS_DB environment variable
// 2. $XDG_DATA_HOME/debias/debias.db
// 3. ~/.local/share/debias/debias.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("DEBIAS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "debias", "debias.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableProgress   = "progress"
	tableUserBiases = "user_biases"
	tableQuizzes    = "quiz_sessions"
	tableDaily      = "daily_cache"
	tableStreaks    = "streaks"
)

// learnerTables are cleared by Reset and by a replacing Import.
var learnerTables = []string{tableProgress, tableQuizzes, tableDaily, tableStreaks}

var builder = entsql.Dialect(dialect.SQLite)

// schema is plain DDL: the dialect/sql builder in the pinned ent release
// has no CREATE TABLE support, and the Atlas migrator needs generated
// schema types this module does not have.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS progress (
		bias_id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_biases (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_sessions (
		id TEXT PRIMARY KEY,
		sequence INTEGER NOT NULL UNIQUE,
		completed_at INTEGER NOT NULL,
		abandoned INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_cache (
		date_key TEXT PRIMARY KEY,
		bias_id TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS streaks (
		name TEXT PRIMARY KEY,
		data TEXT NOT NULL
	)`,
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range schema {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// exec runs a built statement on a driver or transaction.
func exec(ctx context.Context, x dialect.ExecQuerier, q entsql.Querier) error {
	query, args := q.Query()
	return x.Exec(ctx, query, args, nil)
}

// query runs a built SELECT and calls scan for every row.
func query(ctx context.Context, db *sql.DB, q entsql.Querier, scan func(*sql.Rows) error) error {
	stmt, args := q.Query()
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

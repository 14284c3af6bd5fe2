package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/debiasdaily/debias/internal/quiz"
)

type quizRepo struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *quizRepo) Append(ctx context.Context, s quiz.Session) (int64, error) {
	if !s.Completed() {
		return 0, fmt.Errorf("%w: %s", ErrSessionNotFinished, s.ID)
	}
	if seq, ok, err := r.sequenceOf(ctx, s.ID); err != nil || ok {
		return seq, err
	}
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return 0, err
	}
	inserted, err := insertSession(ctx, r.drv, s, seq)
	if err != nil {
		return 0, fmt.Errorf("append quiz session %s: %w", s.ID, err)
	}
	if !inserted {
		// Lost a race with another writer of the same id.
		seq, _, err = r.sequenceOf(ctx, s.ID)
		return seq, err
	}
	return seq, nil
}

// sequenceOf returns the stored sequence number of session id.
func (r *quizRepo) sequenceOf(ctx context.Context, id string) (seq int64, ok bool, err error) {
	sel := builder.Select("sequence").From(builder.Table(tableQuizzes)).Where(entsql.EQ("id", id))
	err = query(ctx, r.db, sel, func(rows *sql.Rows) error {
		ok = true
		return rows.Scan(&seq)
	})
	if err != nil {
		return 0, false, fmt.Errorf("lookup quiz session %s: %w", id, err)
	}
	return seq, ok, nil
}

func (r *quizRepo) List(ctx context.Context, opts QueryOpts) ([]quiz.Session, error) {
	sel := builder.Select("data").From(builder.Table(tableQuizzes)).OrderBy("sequence")

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("completed_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("completed_at", opts.To.UnixMilli()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var list []quiz.Session
	err := query(ctx, r.db, sel, func(rows *sql.Rows) error {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		var s quiz.Session
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return fmt.Errorf("unmarshal quiz session: %w", err)
		}
		list = append(list, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query quiz sessions: %w", err)
	}
	return list, nil
}

func (r *quizRepo) Count(ctx context.Context) (int, error) {
	sel := builder.Select(entsql.Count("*")).From(builder.Table(tableQuizzes))

	var n int
	err := query(ctx, r.db, sel, func(rows *sql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count quiz sessions: %w", err)
	}
	return n, nil
}

// insertSession writes s unless a session with the same id exists and
// reports whether a row was written.
func insertSession(ctx context.Context, x dialect.ExecQuerier, s quiz.Session, seq int64) (bool, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("marshal: %w", err)
	}
	ins := builder.Insert(tableQuizzes).
		Columns("id", "sequence", "completed_at", "abandoned", "data").
		Values(s.ID, seq, s.CompletedAt.UnixMilli(), boolInt(s.Abandoned), string(data)).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	stmt, args := ins.Query()
	var res sql.Result
	if err := x.Exec(ctx, stmt, args, &res); err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

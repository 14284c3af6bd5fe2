package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/debiasdaily/debias/internal/progress"
)

const visitStreak = "visit"

type streakRepo struct {
	db  *sql.DB
	drv *entsql.Driver
}

func (r *streakRepo) Get(ctx context.Context) (progress.Streak, error) {
	sel := builder.Select("data").From(builder.Table(tableStreaks)).
		Where(entsql.EQ("name", visitStreak))

	var s progress.Streak
	err := query(ctx, r.db, sel, func(rows *sql.Rows) error {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		return json.Unmarshal([]byte(data), &s)
	})
	if err != nil {
		return progress.Streak{}, fmt.Errorf("get streak: %w", err)
	}
	return s, nil
}

func (r *streakRepo) Put(ctx context.Context, s progress.Streak) error {
	if err := putStreak(ctx, r.drv, s); err != nil {
		return fmt.Errorf("put streak: %w", err)
	}
	return nil
}

func putStreak(ctx context.Context, x dialect.ExecQuerier, s progress.Streak) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ins := builder.Insert(tableStreaks).
		Columns("name", "data").
		Values(visitStreak, string(data)).
		OnConflict(entsql.ConflictColumns("name"), entsql.ResolveWithNewValues())
	return exec(ctx, x, ins)
}

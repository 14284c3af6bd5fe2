package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/debiasdaily/debias/internal/progress"
)

type progressRepo struct {
	db  *sql.DB
	drv *entsql.Driver
}

func (r *progressRepo) All(ctx context.Context) ([]progress.BiasProgress, error) {
	sel := builder.Select("data").From(builder.Table(tableProgress)).OrderBy("bias_id")

	var list []progress.BiasProgress
	err := query(ctx, r.db, sel, func(rows *sql.Rows) error {
		p, err := scanProgress(rows)
		if err != nil {
			return err
		}
		list = append(list, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return list, nil
}

func (r *progressRepo) Get(ctx context.Context, biasID string) (progress.BiasProgress, bool, error) {
	sel := builder.Select("data").From(builder.Table(tableProgress)).
		Where(entsql.EQ("bias_id", biasID))

	var (
		p     progress.BiasProgress
		found bool
	)
	err := query(ctx, r.db, sel, func(rows *sql.Rows) error {
		var err error
		p, err = scanProgress(rows)
		found = err == nil
		return err
	})
	if err != nil {
		return progress.BiasProgress{}, false, fmt.Errorf("get progress %q: %w", biasID, err)
	}
	return p, found, nil
}

func (r *progressRepo) Put(ctx context.Context, p progress.BiasProgress) error {
	if err := putProgress(ctx, r.drv, p); err != nil {
		return fmt.Errorf("put progress %q: %w", p.BiasID, err)
	}
	return nil
}

func (r *progressRepo) PutMany(ctx context.Context, list []progress.BiasProgress) error {
	if _, err := progress.Index(list); err != nil {
		return err
	}
	return runTx(ctx, r.drv, func(tx dialect.Tx) error {
		for _, p := range list {
			if err := putProgress(ctx, tx, p); err != nil {
				return fmt.Errorf("put progress %q: %w", p.BiasID, err)
			}
		}
		return nil
	})
}

func (r *progressRepo) Delete(ctx context.Context, biasID string) error {
	del := builder.Delete(tableProgress).Where(entsql.EQ("bias_id", biasID))
	if err := exec(ctx, r.drv, del); err != nil {
		return fmt.Errorf("delete progress %q: %w", biasID, err)
	}
	return nil
}

func putProgress(ctx context.Context, x dialect.ExecQuerier, p progress.BiasProgress) error {
	if p.BiasID == "" {
		return fmt.Errorf("empty bias id")
	}
	if p.Version == 0 {
		p.Version = progress.CurrentVersion
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	ins := builder.Insert(tableProgress).
		Columns("bias_id", "data", "updated_at").
		Values(p.BiasID, string(data), time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("bias_id"), entsql.ResolveWithNewValues())
	return exec(ctx, x, ins)
}

func scanProgress(rows *sql.Rows) (progress.BiasProgress, error) {
	var data string
	if err := rows.Scan(&data); err != nil {
		return progress.BiasProgress{}, err
	}
	var p progress.BiasProgress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return progress.BiasProgress{}, fmt.Errorf("unmarshal progress: %w", err)
	}
	return progress.Migrate(p)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/debiasdaily/debias/internal/catalog"
)

type userBiasRepo struct {
	db  *sql.DB
	drv *entsql.Driver
}

func (r *userBiasRepo) All(ctx context.Context) ([]catalog.Bias, error) {
	sel := builder.Select("data").From(builder.Table(tableUserBiases)).
		OrderBy("created_at", "id")

	var list []catalog.Bias
	err := query(ctx, r.db, sel, func(rows *sql.Rows) error {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		var b catalog.Bias
		if err := json.Unmarshal([]byte(data), &b); err != nil {
			return fmt.Errorf("unmarshal user bias: %w", err)
		}
		list = append(list, b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query user biases: %w", err)
	}
	return list, nil
}

func (r *userBiasRepo) Put(ctx context.Context, b catalog.Bias) error {
	if err := putUserBias(ctx, r.drv, b); err != nil {
		return fmt.Errorf("put user bias %q: %w", b.ID, err)
	}
	return nil
}

func (r *userBiasRepo) Delete(ctx context.Context, id string) error {
	return runTx(ctx, r.drv, func(tx dialect.Tx) error {
		del := builder.Delete(tableUserBiases).Where(entsql.EQ("id", id))
		if err := exec(ctx, tx, del); err != nil {
			return fmt.Errorf("delete user bias %q: %w", id, err)
		}
		del = builder.Delete(tableProgress).Where(entsql.EQ("bias_id", id))
		if err := exec(ctx, tx, del); err != nil {
			return fmt.Errorf("delete progress %q: %w", id, err)
		}
		return nil
	})
}

// putUserBias upserts b, keeping the original creation order on update.
func putUserBias(ctx context.Context, x dialect.ExecQuerier, b catalog.Bias) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	ins := builder.Insert(tableUserBiases).
		Columns("id", "data", "created_at").
		Values(b.ID, string(data), b.CreatedAt.UnixMilli()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWith(func(u *entsql.UpdateSet) {
			u.SetExcluded("data")
		}))
	return exec(ctx, x, ins)
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/debiasdaily/debias/internal/daily"
)

var _ daily.Cache = (*DailyCache)(nil)

// DailyCache persists the bias picked for each date key.
type DailyCache struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Get implements daily.Cache.
func (c *DailyCache) Get(ctx context.Context, dateKey string) (string, bool, error) {
	sel := builder.Select("bias_id").From(builder.Table(tableDaily)).
		Where(entsql.EQ("date_key", dateKey))

	var (
		id    string
		found bool
	)
	err := query(ctx, c.db, sel, func(rows *sql.Rows) error {
		found = true
		return rows.Scan(&id)
	})
	if err != nil {
		return "", false, fmt.Errorf("get daily pick %s: %w", dateKey, err)
	}
	return id, found, nil
}

// Put implements daily.Cache.
func (c *DailyCache) Put(ctx context.Context, dateKey, biasID string) error {
	ins := builder.Insert(tableDaily).
		Columns("date_key", "bias_id", "created_at").
		Values(dateKey, biasID, time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("date_key"), entsql.ResolveWithNewValues())
	if err := exec(ctx, c.drv, ins); err != nil {
		return fmt.Errorf("put daily pick %s: %w", dateKey, err)
	}
	return nil
}

// Prune deletes picks for date keys before the given key.
func (c *DailyCache) Prune(ctx context.Context, beforeKey string) error {
	del := builder.Delete(tableDaily).Where(entsql.LT("date_key", beforeKey))
	if err := exec(ctx, c.drv, del); err != nil {
		return fmt.Errorf("prune daily picks: %w", err)
	}
	return nil
}

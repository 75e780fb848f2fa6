package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// SlotRepo is a keyed blob store backed by the attempt_slots table.
type SlotRepo struct {
	drv *entsql.Driver
}

// Get returns the payload stored under slot, or nil if the slot is empty.
func (r *SlotRepo) Get(ctx context.Context, slot string) ([]byte, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("payload").
		From(b.Table(tableSlots)).
		Where(entsql.EQ("slot", slot)).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query slot %q: %w", slot, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var payload string
	if err := rows.Scan(&payload); err != nil {
		return nil, fmt.Errorf("scan slot %q: %w", slot, err)
	}
	return []byte(payload), nil
}

// Put stores data under slot, replacing any previous payload.
func (r *SlotRepo) Put(ctx context.Context, slot string, data []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSlots).
		Columns("slot", "payload", "updated_at").
		Values(slot, string(data), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("slot"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}
	return nil
}

// Delete empties slot. Deleting an empty slot is not an error.
func (r *SlotRepo) Delete(ctx context.Context, slot string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableSlots).
		Where(entsql.EQ("slot", slot)).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}

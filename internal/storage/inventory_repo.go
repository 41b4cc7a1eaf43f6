package storage

import (
	"context"
	"fmt"
)

type InventoryRepo struct {
	q DBTX
}

func NewInventoryRepo(q DBTX) *InventoryRepo {
	return &InventoryRepo{q: q}
}

func (r *InventoryRepo) Add(ctx context.Context, characterID int64, item string, qty int) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory (character_id, item, qty) VALUES (?, ?, ?)
		ON CONFLICT(character_id, item) DO UPDATE SET qty = qty + excluded.qty
	`, characterID, item, qty)
	if err != nil {
		return fmt.Errorf("inventory add: %w", err)
	}
	return nil
}

func (r *InventoryRepo) List(ctx context.Context, characterID int64) ([]InventoryItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT item, qty FROM inventory WHERE character_id = ? ORDER BY item ASC`, characterID)
	if err != nil {
		return nil, fmt.Errorf("inventory list: %w", err)
	}
	defer rows.Close()

	var out []InventoryItem
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.Item, &it.Qty); err != nil {
			return nil, fmt.Errorf("inventory scan: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory rows: %w", err)
	}
	return out, nil
}

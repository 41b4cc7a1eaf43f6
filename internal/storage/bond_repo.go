package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type BondRepo struct {
	q DBTX
}

func NewBondRepo(q DBTX) *BondRepo {
	return &BondRepo{q: q}
}

func (r *BondRepo) GetForCharacter(ctx context.Context, characterID int64) (*Bond, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, character_id, partner_name, exp, created_at
		FROM bonds WHERE character_id = ? LIMIT 1`, characterID)

	var b Bond
	if err := row.Scan(&b.ID, &b.CharacterID, &b.PartnerName, &b.Exp, &b.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("bond get: %w", err)
	}
	return &b, nil
}

func (r *BondRepo) Create(ctx context.Context, id string, characterID int64, partnerName string, createdAt time.Time) (*Bond, error) {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO bonds (id, character_id, partner_name, exp, created_at)
		VALUES (?, ?, ?, 0, ?)`, id, characterID, partnerName, createdAt)
	if err != nil {
		return nil, fmt.Errorf("bond insert: %w", err)
	}
	return r.GetForCharacter(ctx, characterID)
}

func (r *BondRepo) AddExp(ctx context.Context, id string, delta int) error {
	_, err := r.q.ExecContext(ctx, `UPDATE bonds SET exp = exp + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("bond add exp: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"time"
)

type CompletionRepo struct {
	q DBTX
}

func NewCompletionRepo(q DBTX) *CompletionRepo {
	return &CompletionRepo{q: q}
}

func (r *CompletionRepo) Insert(ctx context.Context, c Completion) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO completions (task_id, character_id, completed_at, day, exp_awarded, gold_awarded, tier)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.TaskID, c.CharacterID, c.CompletedAt, c.Day, c.ExpAwarded, c.GoldAwarded, c.Tier)
	if err != nil {
		return 0, fmt.Errorf("completion insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("completion last insert id: %w", err)
	}
	return id, nil
}

func (r *CompletionRepo) CountDay(ctx context.Context, characterID int64, day string) (int, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM completions WHERE character_id = ? AND day = ?`, characterID, day)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count day: %w", err)
	}
	return n, nil
}

func (r *CompletionRepo) ListSince(ctx context.Context, characterID int64, since time.Time) ([]Completion, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, task_id, character_id, completed_at, day, exp_awarded, gold_awarded, tier
		FROM completions
		WHERE character_id = ? AND completed_at >= ?
		ORDER BY completed_at ASC`, characterID, since)
	if err != nil {
		return nil, fmt.Errorf("completion list: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		if err := rows.Scan(&c.ID, &c.TaskID, &c.CharacterID, &c.CompletedAt, &c.Day, &c.ExpAwarded, &c.GoldAwarded, &c.Tier); err != nil {
			return nil, fmt.Errorf("completion scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completion rows: %w", err)
	}
	return out, nil
}

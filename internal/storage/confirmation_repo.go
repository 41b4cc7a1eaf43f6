package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type ConfirmationRepo struct {
	q DBTX
}

func NewConfirmationRepo(q DBTX) *ConfirmationRepo {
	return &ConfirmationRepo{q: q}
}

func (r *ConfirmationRepo) Insert(ctx context.Context, c Confirmation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO confirmations (token, task_id, character_id, bonus_exp, created_at, applied)
		VALUES (?, ?, ?, ?, ?, 0)
	`, c.Token, c.TaskID, c.CharacterID, c.BonusExp, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("confirmation insert: %w", err)
	}
	return nil
}

func (r *ConfirmationRepo) Get(ctx context.Context, token string) (*Confirmation, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT token, task_id, character_id, bonus_exp, created_at, applied
		FROM confirmations WHERE token = ?`, token)

	var c Confirmation
	var applied int
	if err := row.Scan(&c.Token, &c.TaskID, &c.CharacterID, &c.BonusExp, &c.CreatedAt, &applied); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("confirmation get: %w", err)
	}
	c.Applied = applied != 0
	return &c, nil
}

func (r *ConfirmationRepo) MarkApplied(ctx context.Context, token string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE confirmations SET applied = 1 WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("confirmation mark applied: %w", err)
	}
	return nil
}

// DeleteForTask drops every token issued for a task; used when the task
// itself is deleted.
func (r *ConfirmationRepo) DeleteForTask(ctx context.Context, taskID int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM confirmations WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("confirmation delete for task: %w", err)
	}
	return nil
}

func (r *ConfirmationRepo) Delete(ctx context.Context, token string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM confirmations WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("confirmation delete: %w", err)
	}
	return nil
}

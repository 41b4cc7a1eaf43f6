package storage

import (
	"context"
	"fmt"
)

type DutyRepo struct {
	q DBTX
}

func NewDutyRepo(q DBTX) *DutyRepo {
	return &DutyRepo{q: q}
}

const dutyColumns = `id, character_id, day, slot, template_id, title, category, base_exp, base_gold, claimed, task_id`

func (r *DutyRepo) ListDay(ctx context.Context, characterID int64, day string) ([]DutySlot, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+dutyColumns+` FROM duty_slots
		WHERE character_id = ? AND day = ?
		ORDER BY slot ASC`, characterID, day)
	if err != nil {
		return nil, fmt.Errorf("duty list: %w", err)
	}
	defer rows.Close()

	var out []DutySlot
	for rows.Next() {
		var d DutySlot
		var claimed int
		var taskID *int64
		if err := rows.Scan(&d.ID, &d.CharacterID, &d.Day, &d.Slot, &d.TemplateID,
			&d.Title, &d.Category, &d.BaseExp, &d.BaseGold, &claimed, &taskID); err != nil {
			return nil, fmt.Errorf("duty scan: %w", err)
		}
		d.Claimed = claimed != 0
		d.TaskID = taskID
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("duty rows: %w", err)
	}
	return out, nil
}

func (r *DutyRepo) InsertSlot(ctx context.Context, d DutySlot) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO duty_slots (character_id, day, slot, template_id, title, category, base_exp, base_gold, claimed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
	`, d.CharacterID, d.Day, d.Slot, d.TemplateID, d.Title, d.Category, d.BaseExp, d.BaseGold)
	if err != nil {
		return fmt.Errorf("duty insert: %w", err)
	}
	return nil
}

// MarkClaimed records the claim and the task the duty turned into.
func (r *DutyRepo) MarkClaimed(ctx context.Context, id int64, taskID int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE duty_slots SET claimed = 1, task_id = ? WHERE id = ?`, taskID, id)
	if err != nil {
		return fmt.Errorf("duty mark claimed: %w", err)
	}
	return nil
}

// UnlinkTask clears the task link on slots whose task was deleted. The
// slot stays claimed so the daily ceiling is not refunded.
func (r *DutyRepo) UnlinkTask(ctx context.Context, taskID int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE duty_slots SET task_id = NULL WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("duty unlink task: %w", err)
	}
	return nil
}

// DeleteUnclaimed clears the unclaimed slots of a day, used by the
// once-per-day shuffle. Claimed slots stay.
func (r *DutyRepo) DeleteUnclaimed(ctx context.Context, characterID int64, day string) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM duty_slots WHERE character_id = ? AND day = ? AND claimed = 0`, characterID, day)
	if err != nil {
		return fmt.Errorf("duty delete unclaimed: %w", err)
	}
	return nil
}

// DeleteBefore drops boards from previous days; they are regenerated
// lazily on next access.
func (r *DutyRepo) DeleteBefore(ctx context.Context, characterID int64, day string) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM duty_slots WHERE character_id = ? AND day < ?`, characterID, day)
	if err != nil {
		return fmt.Errorf("duty delete before: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type CharacterRepo struct {
	q DBTX
}

func NewCharacterRepo(q DBTX) *CharacterRepo {
	return &CharacterRepo{q: q}
}

const characterColumns = `id, name, affinity, level, exp, gold,
	strength, endurance, wisdom, charisma, creativity, discipline, stat_points,
	streak_current, streak_longest, last_active_day, last_login_day, onboarded,
	duty_day, duty_claims, duty_shuffles, created_at`

func (r *CharacterRepo) Get(ctx context.Context, id int64) (*Character, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = ?`, id)
	return scanCharacter(row)
}

// GetOrCreateMain returns the single local character, creating it on
// first use. The app is single-player per device.
func (r *CharacterRepo) GetOrCreateMain(ctx context.Context) (*Character, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id ASC LIMIT 1`)
	c, err := scanCharacter(row)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO characters (name) VALUES (?)`, "Adventurer")
	if err != nil {
		return nil, fmt.Errorf("character insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("character last insert id: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *CharacterRepo) Update(ctx context.Context, c *Character) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE characters SET
			name = ?, affinity = ?, level = ?, exp = ?, gold = ?,
			strength = ?, endurance = ?, wisdom = ?, charisma = ?, creativity = ?, discipline = ?, stat_points = ?,
			streak_current = ?, streak_longest = ?, last_active_day = ?, last_login_day = ?, onboarded = ?,
			duty_day = ?, duty_claims = ?, duty_shuffles = ?
		WHERE id = ?
	`, c.Name, c.Affinity, c.Level, c.Exp, c.Gold,
		c.Strength, c.Endurance, c.Wisdom, c.Charisma, c.Creativity, c.Discipline, c.StatPoints,
		c.StreakCurrent, c.StreakLongest, c.LastActiveDay, c.LastLoginDay, boolToInt(c.Onboarded),
		c.DutyDay, c.DutyClaims, c.DutyShuffles, c.ID)
	if err != nil {
		return fmt.Errorf("character update: %w", err)
	}
	return nil
}

func scanCharacter(row *sql.Row) (*Character, error) {
	var c Character
	var onboarded int
	if err := row.Scan(
		&c.ID, &c.Name, &c.Affinity, &c.Level, &c.Exp, &c.Gold,
		&c.Strength, &c.Endurance, &c.Wisdom, &c.Charisma, &c.Creativity, &c.Discipline, &c.StatPoints,
		&c.StreakCurrent, &c.StreakLongest, &c.LastActiveDay, &c.LastLoginDay, &onboarded,
		&c.DutyDay, &c.DutyClaims, &c.DutyShuffles, &c.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("character scan: %w", err)
	}
	c.Onboarded = onboarded != 0
	return &c, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

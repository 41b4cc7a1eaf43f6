package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS characters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			affinity TEXT NOT NULL DEFAULT '',

			level INTEGER NOT NULL DEFAULT 1,
			exp INTEGER NOT NULL DEFAULT 0,
			gold INTEGER NOT NULL DEFAULT 0,

			strength INTEGER NOT NULL DEFAULT 0,
			endurance INTEGER NOT NULL DEFAULT 0,
			wisdom INTEGER NOT NULL DEFAULT 0,
			charisma INTEGER NOT NULL DEFAULT 0,
			creativity INTEGER NOT NULL DEFAULT 0,
			discipline INTEGER NOT NULL DEFAULT 0,
			stat_points INTEGER NOT NULL DEFAULT 0,

			streak_current INTEGER NOT NULL DEFAULT 0,
			streak_longest INTEGER NOT NULL DEFAULT 0,
			last_active_day TEXT NOT NULL DEFAULT '',
			last_login_day TEXT NOT NULL DEFAULT '',
			onboarded INTEGER NOT NULL DEFAULT 0,

			duty_day TEXT NOT NULL DEFAULT '',
			duty_claims INTEGER NOT NULL DEFAULT 0,
			duty_shuffles INTEGER NOT NULL DEFAULT 0,

			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			character_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'standard',
			verify TEXT NOT NULL DEFAULT 'none',
			status TEXT NOT NULL DEFAULT 'pending',

			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			started_at DATETIME,
			completed_at DATETIME,
			due_date DATETIME,
			min_duration_sec INTEGER NOT NULL DEFAULT 0,

			base_exp INTEGER NOT NULL DEFAULT 0,
			base_gold INTEGER NOT NULL DEFAULT 0,

			geofence_lat REAL,
			geofence_lon REAL,
			geofence_radius_m REAL,
			geofence_name TEXT,

			photo BLOB,
			photo_at DATETIME,
			photo_motion INTEGER NOT NULL DEFAULT 0,
			captured_lat REAL,
			captured_lon REAL,

			routine_id TEXT,

			is_duty INTEGER NOT NULL DEFAULT 0,
			is_habit INTEGER NOT NULL DEFAULT 0,
			is_recurring INTEGER NOT NULL DEFAULT 0,
			from_partner INTEGER NOT NULL DEFAULT 0,
			shared_with_partner INTEGER NOT NULL DEFAULT 0,
			is_coop INTEGER NOT NULL DEFAULT 0,
			partner_done INTEGER NOT NULL DEFAULT 0,
			coop_bonus_granted INTEGER NOT NULL DEFAULT 0,

			habit_due_hour INTEGER,
			habit_day TEXT NOT NULL DEFAULT '',
			completed_today INTEGER NOT NULL DEFAULT 0,
			failed_today INTEGER NOT NULL DEFAULT 0,

			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS bonds (
			id TEXT PRIMARY KEY,
			character_id INTEGER NOT NULL,
			partner_name TEXT NOT NULL,
			exp INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS duty_slots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			character_id INTEGER NOT NULL,
			day TEXT NOT NULL,
			slot INTEGER NOT NULL,
			template_id TEXT NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			base_exp INTEGER NOT NULL,
			base_gold INTEGER NOT NULL,
			claimed INTEGER NOT NULL DEFAULT 0,
			task_id INTEGER,
			UNIQUE(character_id, day, slot),
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		// Completion ledger: auditing rewards and answering "did this
		// routine finish today" without re-deriving from task rows. No
		// task FK: ledger rows outlive deleted tasks.
		`CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL,
			character_id INTEGER NOT NULL,
			completed_at DATETIME NOT NULL,
			day TEXT NOT NULL,
			exp_awarded INTEGER NOT NULL,
			gold_awarded INTEGER NOT NULL,
			tier TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			character_id INTEGER NOT NULL,
			item TEXT NOT NULL,
			qty INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(character_id, item),
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		// Phase-2 activity confirmations: the guaranteed reward commits
		// synchronously; the token keys a strictly additive delta.
		`CREATE TABLE IF NOT EXISTS confirmations (
			token TEXT PRIMARY KEY,
			task_id INTEGER NOT NULL,
			character_id INTEGER NOT NULL,
			bonus_exp INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			applied INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(task_id) REFERENCES tasks(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_character_status ON tasks(character_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_routine ON tasks(character_id, routine_id);`,
		`CREATE INDEX IF NOT EXISTS idx_duty_slots_day ON duty_slots(character_id, day);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_day ON completions(character_id, day);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

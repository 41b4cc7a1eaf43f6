package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type TaskRepo struct {
	q DBTX
}

func NewTaskRepo(q DBTX) *TaskRepo {
	return &TaskRepo{q: q}
}

type TaskInsert struct {
	CharacterID    int64
	Title          string
	Description    *string
	Category       string
	Mode           string
	Verify         string
	Status         string
	DueDate        *time.Time
	MinDurationSec int
	BaseExp        int
	BaseGold       int

	GeofenceLat     *float64
	GeofenceLon     *float64
	GeofenceRadiusM *float64
	GeofenceName    *string

	RoutineID *string

	IsDuty            bool
	IsHabit           bool
	IsRecurring       bool
	FromPartner       bool
	SharedWithPartner bool
	IsCoop            bool
	HabitDueHour      *int
	HabitDay          string
}

const taskColumns = `id, character_id, title, description, category, mode, verify, status,
	created_at, started_at, completed_at, due_date, min_duration_sec,
	base_exp, base_gold,
	geofence_lat, geofence_lon, geofence_radius_m, geofence_name,
	photo, photo_at, photo_motion, captured_lat, captured_lon,
	routine_id,
	is_duty, is_habit, is_recurring, from_partner, shared_with_partner,
	is_coop, partner_done, coop_bonus_granted,
	habit_due_hour, habit_day, completed_today, failed_today`

func (r *TaskRepo) Insert(ctx context.Context, in TaskInsert) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO tasks (
			character_id, title, description, category, mode, verify, status,
			due_date, min_duration_sec, base_exp, base_gold,
			geofence_lat, geofence_lon, geofence_radius_m, geofence_name,
			routine_id,
			is_duty, is_habit, is_recurring, from_partner, shared_with_partner, is_coop,
			habit_due_hour, habit_day
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.CharacterID, in.Title, in.Description, in.Category, in.Mode, in.Verify, in.Status,
		in.DueDate, in.MinDurationSec, in.BaseExp, in.BaseGold,
		in.GeofenceLat, in.GeofenceLon, in.GeofenceRadiusM, in.GeofenceName,
		in.RoutineID,
		boolToInt(in.IsDuty), boolToInt(in.IsHabit), boolToInt(in.IsRecurring),
		boolToInt(in.FromPartner), boolToInt(in.SharedWithPartner), boolToInt(in.IsCoop),
		in.HabitDueHour, in.HabitDay)
	if err != nil {
		return 0, fmt.Errorf("task insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task last insert id: %w", err)
	}
	return id, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (*Task, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTaskRow(row)
}

func (r *TaskRepo) ListByCharacter(ctx context.Context, characterID int64) ([]Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE character_id = ? ORDER BY id ASC`, characterID)
}

func (r *TaskRepo) ListByStatus(ctx context.Context, characterID int64, status string) ([]Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE character_id = ? AND status = ? ORDER BY id ASC`, characterID, status)
}

// ListOpen returns tasks still in play (pending or in progress).
func (r *TaskRepo) ListOpen(ctx context.Context, characterID int64) ([]Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE character_id = ? AND status IN ('pending', 'in_progress')
		ORDER BY id ASC`, characterID)
}

// ListHabits returns the character's habit tasks regardless of status;
// terminal habits still roll over at the next day boundary.
func (r *TaskRepo) ListHabits(ctx context.Context, characterID int64) ([]Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE character_id = ? AND is_habit = 1
		ORDER BY id ASC`, characterID)
}

// ListRoutine returns every task in a routine bundle for the character.
func (r *TaskRepo) ListRoutine(ctx context.Context, characterID int64, routineID string) ([]Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE character_id = ? AND routine_id = ?
		ORDER BY id ASC`, characterID, routineID)
}

func (r *TaskRepo) list(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

func (r *TaskRepo) MarkStarted(ctx context.Context, id int64, startedAt time.Time) error {
	_, err := r.q.ExecContext(ctx, `UPDATE tasks SET status = 'in_progress', started_at = ? WHERE id = ?`, startedAt, id)
	if err != nil {
		return fmt.Errorf("task mark started: %w", err)
	}
	return nil
}

func (r *TaskRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("task update status: %w", err)
	}
	return nil
}

func (r *TaskRepo) MarkCompleted(ctx context.Context, id int64, completedAt time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE tasks SET status = 'completed', completed_at = ?, completed_today = 1
		WHERE id = ?`, completedAt, id)
	if err != nil {
		return fmt.Errorf("task mark completed: %w", err)
	}
	return nil
}

// SetProof stores the capture path results: photo bytes plus timestamp
// and motion flag, and/or the captured coordinate.
func (r *TaskRepo) SetProof(ctx context.Context, id int64, photo []byte, photoAt *time.Time, motion bool, lat, lon *float64) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE tasks SET photo = ?, photo_at = ?, photo_motion = ?, captured_lat = ?, captured_lon = ?
		WHERE id = ?`, photo, photoAt, boolToInt(motion), lat, lon, id)
	if err != nil {
		return fmt.Errorf("task set proof: %w", err)
	}
	return nil
}

func (r *TaskRepo) SetPartnerDone(ctx context.Context, id int64, done bool) error {
	_, err := r.q.ExecContext(ctx, `UPDATE tasks SET partner_done = ? WHERE id = ?`, boolToInt(done), id)
	if err != nil {
		return fmt.Errorf("task set partner done: %w", err)
	}
	return nil
}

func (r *TaskRepo) MarkCoopBonusGranted(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE tasks SET coop_bonus_granted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("task mark coop bonus: %w", err)
	}
	return nil
}

// ResetHabitDay rolls a habit task into a new local day: flags cleared,
// status back to pending.
func (r *TaskRepo) ResetHabitDay(ctx context.Context, id int64, day string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE tasks SET habit_day = ?, completed_today = 0, failed_today = 0,
			status = 'pending', started_at = NULL, completed_at = NULL,
			photo = NULL, photo_at = NULL, photo_motion = 0
		WHERE id = ?`, day, id)
	if err != nil {
		return fmt.Errorf("task reset habit day: %w", err)
	}
	return nil
}

func (r *TaskRepo) MarkHabitFailed(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE tasks SET status = 'failed', failed_today = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("task mark habit failed: %w", err)
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		t                               Task
		description                     sql.NullString
		startedAt, completedAt, dueDate sql.NullTime
		gLat, gLon, gRad                sql.NullFloat64
		gName                           sql.NullString
		photoAt                         sql.NullTime
		photoMotion                     int
		capLat, capLon                  sql.NullFloat64
		routineID                       sql.NullString
		isDuty, isHabit, isRecurring    int
		fromPartner, shared, isCoop     int
		partnerDone, coopGranted        int
		habitDueHour                    sql.NullInt64
		completedToday, failedToday     int
	)

	if err := row.Scan(
		&t.ID, &t.CharacterID, &t.Title, &description, &t.Category, &t.Mode, &t.Verify, &t.Status,
		&t.CreatedAt, &startedAt, &completedAt, &dueDate, &t.MinDurationSec,
		&t.BaseExp, &t.BaseGold,
		&gLat, &gLon, &gRad, &gName,
		&t.Photo, &photoAt, &photoMotion, &capLat, &capLon,
		&routineID,
		&isDuty, &isHabit, &isRecurring, &fromPartner, &shared,
		&isCoop, &partnerDone, &coopGranted,
		&habitDueHour, &t.HabitDay, &completedToday, &failedToday,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	t.Description = nullStr(description)
	t.StartedAt = nullTime(startedAt)
	t.CompletedAt = nullTime(completedAt)
	t.DueDate = nullTime(dueDate)
	t.GeofenceLat = nullFloat(gLat)
	t.GeofenceLon = nullFloat(gLon)
	t.GeofenceRadiusM = nullFloat(gRad)
	t.GeofenceName = nullStr(gName)
	t.PhotoAt = nullTime(photoAt)
	t.PhotoMotion = photoMotion != 0
	t.CapturedLat = nullFloat(capLat)
	t.CapturedLon = nullFloat(capLon)
	t.RoutineID = nullStr(routineID)
	t.IsDuty = isDuty != 0
	t.IsHabit = isHabit != 0
	t.IsRecurring = isRecurring != 0
	t.FromPartner = fromPartner != 0
	t.SharedWithPartner = shared != 0
	t.IsCoop = isCoop != 0
	t.PartnerDone = partnerDone != 0
	t.CoopBonusGranted = coopGranted != 0
	if habitDueHour.Valid {
		v := int(habitDueHour.Int64)
		t.HabitDueHour = &v
	}
	t.CompletedToday = completedToday != 0
	t.FailedToday = failedToday != 0
	return &t, nil
}

func scanTaskRows(rows *sql.Rows) (*Task, error) {
	return scanTaskRow(rows)
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

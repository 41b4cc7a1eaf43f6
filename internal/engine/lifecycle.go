package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

// StartTask moves a pending task into in_progress and records the start
// time for the minimum-duration gate.
func (s *Service) StartTask(ctx context.Context, taskID int64) (*storage.Task, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task %d not found", taskID)
	}
	if Status(t.Status) != StatusPending {
		return nil, StateError{TaskID: taskID, From: Status(t.Status), To: StatusInProgress}
	}

	if err := s.tasks.MarkStarted(ctx, taskID, s.clock.Now()); err != nil {
		return nil, err
	}
	return s.tasks.Get(ctx, taskID)
}

// CaptureProof attaches verification evidence to an in-progress task:
// photo bytes with a capture timestamp, the motion flag sampled at
// capture time, and the device coordinate when a location requirement
// (or geofence) is in play. Stale photos are rejected here so the user
// re-captures immediately instead of at completion.
func (s *Service) CaptureProof(ctx context.Context, taskID int64, photo []byte, capturedAt time.Time) (*storage.Task, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task %d not found", taskID)
	}
	if Status(t.Status).IsTerminal() {
		return nil, StateError{TaskID: taskID, From: Status(t.Status), To: StatusInProgress}
	}

	req := VerifyRequirement(t.Verify)

	var photoAt *time.Time
	motion := false
	if req.NeedsPhoto() {
		if len(photo) == 0 {
			return nil, fmt.Errorf("task %d requires a photo", taskID)
		}
		if !s.IsPhotoTimestampValid(capturedAt) {
			return nil, RejectionError{Op: "capture", Reason: ReasonPhotoStale}
		}
		at := capturedAt
		photoAt = &at
		motion = s.MotionDetected(s.motion.Samples())
	}

	var lat, lon *float64
	needsCoord := req.NeedsLocation() || t.GeofenceLat != nil
	if needsCoord {
		la, lo, ok := s.location.Current()
		if !ok {
			if req.NeedsLocation() {
				return nil, RejectionError{Op: "capture", Reason: ReasonLocationProof}
			}
		} else {
			lat, lon = &la, &lo
		}
	}

	if err := s.tasks.SetProof(ctx, taskID, photo, photoAt, motion, lat, lon); err != nil {
		return nil, err
	}

	s.log.Debug("proof captured",
		zap.Int64("task", taskID),
		zap.Bool("photo", photoAt != nil),
		zap.Bool("motion", motion),
		zap.Bool("coordinate", lat != nil))
	return s.tasks.Get(ctx, taskID)
}

// CheckGeofence recomputes the geofence result for a task from its
// captured coordinate. The result is derived on demand and never stored.
func (s *Service) CheckGeofence(ctx context.Context, taskID int64) (*VerificationResult, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task %d not found", taskID)
	}
	if t.GeofenceLat == nil || t.GeofenceLon == nil || t.GeofenceRadiusM == nil {
		return nil, fmt.Errorf("task %d has no geofence", taskID)
	}
	if t.CapturedLat == nil || t.CapturedLon == nil {
		return nil, RejectionError{Op: "geofence check", Reason: ReasonLocationProof}
	}
	res := VerifyGeofence(*t.GeofenceLat, *t.GeofenceLon, *t.GeofenceRadiusM,
		*t.CapturedLat, *t.CapturedLon)
	return &res, nil
}

// DeleteTask removes a task outright, in any state. Ledger rows from a
// past completion stay for auditing; outstanding confirmation tokens die
// with the task, and a duty task's board slot stays claimed but loses
// its link.
func (s *Service) DeleteTask(ctx context.Context, taskID int64) (*storage.Task, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task %d not found", taskID)
	}

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if t.IsDuty {
			if err := storage.NewDutyRepo(tx).UnlinkTask(ctx, taskID); err != nil {
				return err
			}
		}
		if err := storage.NewConfirmationRepo(tx).DeleteForTask(ctx, taskID); err != nil {
			return err
		}
		return storage.NewTaskRepo(tx).Delete(ctx, taskID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("task deleted", zap.Int64("task", taskID), zap.String("title", t.Title))
	return t, nil
}

// SweepExpired walks the character's open tasks and expires the ones
// whose deadline has passed. Habit tasks are handled separately: a habit
// past its due hour fails with a penalty instead of silently expiring.
// Returns the number of tasks that changed state.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	c, err := s.getCharacter(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	today := DayStamp(now)
	changed := 0

	// Habits are swept from their own listing: a habit that completed or
	// failed yesterday is terminal but still rolls over at midnight.
	habits, err := s.tasks.ListHabits(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	for i := range habits {
		n, err := s.sweepHabit(ctx, c, &habits[i], now, today)
		if err != nil {
			return changed, err
		}
		changed += n
	}

	open, err := s.tasks.ListOpen(ctx, c.ID)
	if err != nil {
		return changed, err
	}
	for i := range open {
		t := &open[i]
		if t.IsHabit {
			continue
		}

		if t.DueDate != nil && now.After(*t.DueDate) {
			if err := s.tasks.UpdateStatus(ctx, t.ID, string(StatusExpired)); err != nil {
				return changed, err
			}
			s.log.Info("task expired", zap.Int64("task", t.ID), zap.String("title", t.Title))
			changed++
		}
	}
	return changed, nil
}

// sweepHabit rolls a habit over day boundaries and applies the miss
// penalty when the due hour has passed without a completion.
func (s *Service) sweepHabit(ctx context.Context, c *storage.Character, t *storage.Task, now time.Time, today string) (int, error) {
	// New local day: clear yesterday's flags, back to pending.
	if t.HabitDay != today {
		if err := s.tasks.ResetHabitDay(ctx, t.ID, today); err != nil {
			return 0, err
		}
		t.HabitDay = today
		t.CompletedToday = false
		t.FailedToday = false
		t.Status = string(StatusPending)
	}

	if t.CompletedToday || t.FailedToday || t.HabitDueHour == nil {
		return 0, nil
	}
	if now.Hour() < *t.HabitDueHour {
		return 0, nil
	}

	if err := s.FailHabit(ctx, c, t); err != nil {
		return 0, err
	}
	return 1, nil
}

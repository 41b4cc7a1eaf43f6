package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

func newHabit(t *testing.T, svc *Service, dueHour int) *storage.Task {
	t.Helper()
	h := dueHour
	return mustCreate(t, svc, CreateTaskParams{
		Title:        "Evening stretch",
		Category:     CategoryPhysical,
		IsHabit:      true,
		HabitDueHour: &h,
		BaseExp:      10, BaseGold: 5,
	})
}

func TestHabitMissAppliesScaledPenalty(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	setCharacter(t, svc, func(c *storage.Character) {
		c.Exp = 30
		c.Gold = 20
	})

	task := newHabit(t, svc, 20)

	// Before the due hour nothing happens.
	if n, err := svc.SweepExpired(ctx); err != nil || n != 0 {
		t.Fatalf("early sweep n=%d err=%v, want 0/nil", n, err)
	}

	// clock starts at 10:00; 11 hours later the 20:00 due hour has passed.
	clock.Advance(11 * time.Hour)
	n, err := svc.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept=%d, want 1", n)
	}

	got, _ := svc.TaskRepo().Get(ctx, task.ID)
	if got.Status != string(StatusFailed) || !got.FailedToday {
		t.Fatalf("habit status=%q failedToday=%v, want failed/true", got.Status, got.FailedToday)
	}

	c := getCharacter(t, svc)
	if c.Exp != 20 { // 30 - 10 penalty
		t.Fatalf("exp=%d, want 20", c.Exp)
	}
	if c.Gold != 15 { // 20 - 5 penalty
		t.Fatalf("gold=%d, want 15", c.Gold)
	}

	// A failed habit is settled for the day; the sweep is idempotent.
	if n, err := svc.SweepExpired(ctx); err != nil || n != 0 {
		t.Fatalf("repeat sweep n=%d err=%v, want 0/nil", n, err)
	}
}

func TestHabitPenaltyFlooredAtZero(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	setCharacter(t, svc, func(c *storage.Character) {
		c.Exp = 3
		c.Gold = 2
	})

	newHabit(t, svc, 20)
	clock.Advance(11 * time.Hour)
	if _, err := svc.SweepExpired(ctx); err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}

	c := getCharacter(t, svc)
	if c.Exp != 0 || c.Gold != 0 {
		t.Fatalf("exp=%d gold=%d, want 0/0 (floored)", c.Exp, c.Gold)
	}
}

func TestHabitResetsNextDay(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	task := newHabit(t, svc, 20)
	clock.Advance(11 * time.Hour)
	if _, err := svc.SweepExpired(ctx); err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}

	// Next morning, before the due hour: the habit is pending again with
	// clean day flags.
	clock.Advance(12 * time.Hour) // 09:00 the next day
	if _, err := svc.SweepExpired(ctx); err != nil {
		t.Fatalf("next day sweep: %v", err)
	}

	got, _ := svc.TaskRepo().Get(ctx, task.ID)
	if got.Status != string(StatusPending) {
		t.Fatalf("status=%q, want pending after day reset", got.Status)
	}
	if got.FailedToday || got.CompletedToday {
		t.Fatalf("day flags not cleared: failed=%v completed=%v", got.FailedToday, got.CompletedToday)
	}
	if got.HabitDay != DayStamp(clock.Now()) {
		t.Fatalf("habit day=%q, want %q", got.HabitDay, DayStamp(clock.Now()))
	}

	// And it can be completed normally.
	mustStart(t, svc, task.ID)
	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("complete reset habit: %v", err)
	}
}

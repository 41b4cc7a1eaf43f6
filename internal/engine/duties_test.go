package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDutySeedDeterministic(t *testing.T) {
	a := dutySeed(1, "2026-03-14", 0)
	b := dutySeed(1, "2026-03-14", 0)
	if a != b {
		t.Fatalf("same inputs produced different seeds: %d vs %d", a, b)
	}
	if dutySeed(1, "2026-03-14", 0) == dutySeed(1, "2026-03-15", 0) {
		t.Fatalf("different days produced the same seed")
	}
	if dutySeed(1, "2026-03-14", 0) == dutySeed(2, "2026-03-14", 0) {
		t.Fatalf("different characters produced the same seed")
	}
	if dutySeed(1, "2026-03-14", 0) == dutySeed(1, "2026-03-14", 1) {
		t.Fatalf("different shuffle counts produced the same seed")
	}
}

func TestGenerateDutiesStable(t *testing.T) {
	a := generateDuties(42, 4)
	b := generateDuties(42, 4)
	if len(a) != 4 || len(b) != 4 {
		t.Fatalf("board sizes %d/%d, want 4", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("slot %d differs: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}

	seen := map[string]bool{}
	for _, d := range a {
		if seen[d.ID] {
			t.Fatalf("duplicate template %s on one board", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestDutyBoardSurvivesRestart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c := getCharacter(t, svc)
	first, err := svc.EnsureTodaysDuties(ctx, c.ID)
	if err != nil {
		t.Fatalf("EnsureTodaysDuties: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("board size=%d, want 4", len(first))
	}

	// A second access the same day returns the identical persisted board.
	again, err := svc.EnsureTodaysDuties(ctx, c.ID)
	if err != nil {
		t.Fatalf("EnsureTodaysDuties again: %v", err)
	}
	for i := range first {
		if first[i].TemplateID != again[i].TemplateID {
			t.Fatalf("slot %d changed within a day: %s vs %s", i, first[i].TemplateID, again[i].TemplateID)
		}
	}
}

func TestDutyBoardRollsOverAtMidnight(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	c := getCharacter(t, svc)
	day1, err := svc.EnsureTodaysDuties(ctx, c.ID)
	if err != nil {
		t.Fatalf("day1: %v", err)
	}

	clock.Advance(24 * time.Hour)
	day2, err := svc.EnsureTodaysDuties(ctx, c.ID)
	if err != nil {
		t.Fatalf("day2: %v", err)
	}
	if len(day2) != 4 {
		t.Fatalf("day2 board size=%d, want 4", len(day2))
	}
	if day2[0].Day == day1[0].Day {
		t.Fatalf("board day did not roll over: %s", day2[0].Day)
	}
}

func TestClaimDutyAndDailyCeiling(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	c := getCharacter(t, svc)
	slots, err := svc.EnsureTodaysDuties(ctx, c.ID)
	if err != nil {
		t.Fatalf("EnsureTodaysDuties: %v", err)
	}

	res, err := svc.ClaimDuty(ctx, c.ID, slots[0].ID)
	if err != nil {
		t.Fatalf("ClaimDuty: %v", err)
	}
	if res.ClaimsLeft != 0 {
		t.Fatalf("ClaimsLeft=%d, want 0", res.ClaimsLeft)
	}

	// The claim produced a started task carrying the slot's payout.
	task, err := svc.TaskRepo().Get(ctx, res.TaskID)
	if err != nil {
		t.Fatalf("get claimed task: %v", err)
	}
	if task.Status != string(StatusInProgress) || !task.IsDuty {
		t.Fatalf("claimed task status=%q isDuty=%v", task.Status, task.IsDuty)
	}
	if task.BaseExp != slots[0].BaseExp || task.BaseGold != slots[0].BaseGold {
		t.Fatalf("claimed task payout %d/%d, want %d/%d", task.BaseExp, task.BaseGold, slots[0].BaseExp, slots[0].BaseGold)
	}

	// Ceiling hit: a second claim the same day rejects.
	_, err = svc.ClaimDuty(ctx, c.ID, slots[1].ID)
	var rej RejectionError
	if !errors.As(err, &rej) || rej.Reason != ReasonClaimLimit {
		t.Fatalf("expected claim-limit rejection, got %v", err)
	}

	// Midnight resets the ceiling.
	clock.Advance(24 * time.Hour)
	fresh, err := svc.EnsureTodaysDuties(ctx, c.ID)
	if err != nil {
		t.Fatalf("next day board: %v", err)
	}
	if _, err := svc.ClaimDuty(ctx, c.ID, fresh[0].ID); err != nil {
		t.Fatalf("claim after midnight: %v", err)
	}
}

func TestShuffleOncePerDayKeepsClaimed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c := getCharacter(t, svc)
	slots, err := svc.EnsureTodaysDuties(ctx, c.ID)
	if err != nil {
		t.Fatalf("EnsureTodaysDuties: %v", err)
	}
	claimed, err := svc.ClaimDuty(ctx, c.ID, slots[0].ID)
	if err != nil {
		t.Fatalf("ClaimDuty: %v", err)
	}

	after, err := svc.RefreshDutyBoard(ctx, c.ID)
	if err != nil {
		t.Fatalf("RefreshDutyBoard: %v", err)
	}
	if len(after) != 4 {
		t.Fatalf("board size=%d after shuffle, want 4", len(after))
	}

	foundClaimed := false
	for _, d := range after {
		if d.Claimed {
			foundClaimed = true
			if d.TaskID == nil || *d.TaskID != claimed.TaskID {
				t.Fatalf("claimed slot lost its task link")
			}
		}
	}
	if !foundClaimed {
		t.Fatalf("shuffle dropped the claimed slot")
	}

	// The spent shuffle is persisted with the new board.
	c = getCharacter(t, svc)
	if c.DutyShuffles != 1 {
		t.Fatalf("duty shuffles=%d, want 1", c.DutyShuffles)
	}

	_, err = svc.RefreshDutyBoard(ctx, c.ID)
	var rej RejectionError
	if !errors.As(err, &rej) || rej.Reason != ReasonShuffleUsed {
		t.Fatalf("expected shuffle-used rejection, got %v", err)
	}
}

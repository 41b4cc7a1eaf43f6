package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/config"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

var testStart = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *FakeClock) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clock := NewFakeClock(testStart)
	bal := config.Default()
	bal.LootDropChance = 0 // tests opt in to loot explicitly

	all := []Option{WithClock(clock), WithBalance(bal)}
	all = append(all, opts...)
	return NewService(db, all...), clock
}

func mustCreate(t *testing.T, svc *Service, p CreateTaskParams) *storage.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return task
}

func mustStart(t *testing.T, svc *Service, id int64) {
	t.Helper()
	if _, err := svc.StartTask(context.Background(), id); err != nil {
		t.Fatalf("StartTask(%d): %v", id, err)
	}
}

func getCharacter(t *testing.T, svc *Service) *storage.Character {
	t.Helper()
	c, err := svc.CharacterRepo().GetOrCreateMain(context.Background())
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	return c
}

func setCharacter(t *testing.T, svc *Service, mutate func(c *storage.Character)) {
	t.Helper()
	c := getCharacter(t, svc)
	mutate(c)
	if err := svc.CharacterRepo().Update(context.Background(), c); err != nil {
		t.Fatalf("update character: %v", err)
	}
}

func TestCompleteBaseReward(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{
		Title:    "Fold the laundry",
		Category: CategoryPhysical,
		BaseExp:  10,
		BaseGold: 5,
	})
	mustStart(t, svc, task.ID)

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.ExpAwarded != 10 {
		t.Fatalf("ExpAwarded=%d, want 10", res.ExpAwarded)
	}
	if res.GoldAwarded != 5 {
		t.Fatalf("GoldAwarded=%d, want 5", res.GoldAwarded)
	}
	if res.Reward.Tier != TierNone {
		t.Fatalf("tier=%s, want none", res.Reward.Tier)
	}
	if res.Task.Status != string(StatusCompleted) {
		t.Fatalf("status=%q, want completed", res.Task.Status)
	}

	c := getCharacter(t, svc)
	if c.Exp != 10 || c.Gold != 5 {
		t.Fatalf("character exp=%d gold=%d, want 10/5", c.Exp, c.Gold)
	}
	if c.Strength != 1 {
		t.Fatalf("strength=%d, want 1 (physical category bonus)", c.Strength)
	}
	if c.StreakCurrent != 1 {
		t.Fatalf("streak=%d, want 1", c.StreakCurrent)
	}
}

func TestCompleteLevelScaling(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	setCharacter(t, svc, func(c *storage.Character) {
		c.Level = 5
		c.Exp = ExpThreshold(5)
	})

	task := mustCreate(t, svc, CreateTaskParams{Title: "Run errands", BaseExp: 10, BaseGold: 5})
	mustStart(t, svc, task.ID)

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	// Level 5 scale factor 1.4.
	if res.ExpAwarded != 14 {
		t.Fatalf("ExpAwarded=%d, want 14", res.ExpAwarded)
	}
	if res.GoldAwarded != 7 {
		t.Fatalf("GoldAwarded=%d, want 7", res.GoldAwarded)
	}
}

func TestPhotoTierMultiplier(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{
		Title:   "Water the plants",
		Verify:  VerifyPhoto,
		BaseExp: 10, BaseGold: 5,
	})
	mustStart(t, svc, task.ID)

	if _, err := svc.CaptureProof(ctx, task.ID, []byte("jpeg"), clock.Now()); err != nil {
		t.Fatalf("CaptureProof: %v", err)
	}

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.Reward.Tier != TierPhoto {
		t.Fatalf("tier=%s, want photo", res.Reward.Tier)
	}
	if res.ExpAwarded != 15 {
		t.Fatalf("ExpAwarded=%d, want 15", res.ExpAwarded)
	}
	if res.GoldAwarded != 5 {
		t.Fatalf("GoldAwarded=%d, want 5 (tier multiplies EXP only)", res.GoldAwarded)
	}
}

func TestPhotoProofExpiresBeforeCompletion(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{Title: "Tidy desk", Verify: VerifyPhoto})
	mustStart(t, svc, task.ID)

	if _, err := svc.CaptureProof(ctx, task.ID, []byte("jpeg"), clock.Now()); err != nil {
		t.Fatalf("CaptureProof: %v", err)
	}

	// Photo goes stale after the validity window; completion must reject
	// and demand a re-capture.
	clock.Advance(6 * time.Minute)

	_, err := svc.CompleteTask(ctx, task.ID)
	var rej RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
	if rej.Reason != ReasonPhotoStale {
		t.Fatalf("reason=%q, want %q", rej.Reason, ReasonPhotoStale)
	}

	got, _ := svc.TaskRepo().Get(ctx, task.ID)
	if got.Status != string(StatusInProgress) {
		t.Fatalf("status=%q, want in_progress after rejection", got.Status)
	}
}

func TestStaleCaptureRejected(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{Title: "Tidy desk", Verify: VerifyPhoto})
	mustStart(t, svc, task.ID)

	_, err := svc.CaptureProof(ctx, task.ID, []byte("jpeg"), clock.Now().Add(-6*time.Minute))
	var rej RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
}

func TestMinDurationGate(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{
		Title:       "Meditate",
		MinDuration: 10 * time.Minute,
		BaseExp:     10, BaseGold: 5,
	})
	mustStart(t, svc, task.ID)

	_, err := svc.CompleteTask(ctx, task.ID)
	var rej RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
	if rej.Reason != ReasonMinDuration {
		t.Fatalf("reason=%q, want %q", rej.Reason, ReasonMinDuration)
	}

	// Rejection leaves everything untouched.
	c := getCharacter(t, svc)
	if c.Exp != 0 || c.Gold != 0 {
		t.Fatalf("character mutated on rejection: exp=%d gold=%d", c.Exp, c.Gold)
	}

	clock.Advance(10 * time.Minute)
	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("CompleteTask after waiting: %v", err)
	}
}

func TestGeofenceTierInAndOutOfRange(t *testing.T) {
	target := Geofence{Lat: 30.2672, Lon: -97.7431, RadiusM: 100, Name: "Gym"}

	t.Run("in range", func(t *testing.T) {
		svc, clock := newTestService(t, WithLocationSource(StaticLocation{Lat: 30.2672, Lon: -97.7431}))
		ctx := context.Background()

		task := mustCreate(t, svc, CreateTaskParams{
			Title:    "Gym session",
			Verify:   VerifyLocation,
			Geofence: &target,
			BaseExp:  10, BaseGold: 5,
		})
		mustStart(t, svc, task.ID)
		if _, err := svc.CaptureProof(ctx, task.ID, nil, clock.Now()); err != nil {
			t.Fatalf("CaptureProof: %v", err)
		}

		res, err := svc.CompleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		if res.Reward.Tier != TierLocation || !res.Reward.InRange {
			t.Fatalf("tier=%s inRange=%v, want location/in", res.Reward.Tier, res.Reward.InRange)
		}
		if res.ExpAwarded != 18 { // 10 * 1.75
			t.Fatalf("ExpAwarded=%d, want 18", res.ExpAwarded)
		}
	})

	t.Run("out of range still completes at reduced tier", func(t *testing.T) {
		// ~445m north of the target.
		svc, clock := newTestService(t, WithLocationSource(StaticLocation{Lat: 30.2712, Lon: -97.7431}))
		ctx := context.Background()

		task := mustCreate(t, svc, CreateTaskParams{
			Title:    "Gym session",
			Verify:   VerifyLocation,
			Geofence: &target,
			BaseExp:  10, BaseGold: 5,
		})
		mustStart(t, svc, task.ID)
		if _, err := svc.CaptureProof(ctx, task.ID, nil, clock.Now()); err != nil {
			t.Fatalf("CaptureProof: %v", err)
		}

		res, err := svc.CompleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		if res.Reward.InRange {
			t.Fatalf("expected out of range")
		}
		if res.ExpAwarded != 13 { // 10 * 1.25
			t.Fatalf("ExpAwarded=%d, want 13", res.ExpAwarded)
		}
	})
}

func TestAffinityBonus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	setCharacter(t, svc, func(c *storage.Character) { c.Affinity = string(CategoryCreative) })

	task := mustCreate(t, svc, CreateTaskParams{
		Title:    "Paint for a while",
		Category: CategoryCreative,
		BaseExp:  10, BaseGold: 5,
	})
	mustStart(t, svc, task.ID)

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.Reward.AffinityHit {
		t.Fatalf("expected affinity bonus")
	}
	if res.ExpAwarded != 12 { // 10 + 20%
		t.Fatalf("ExpAwarded=%d, want 12", res.ExpAwarded)
	}
}

// sampleMotion is a canned MotionSource for pipeline tests.
type sampleMotion []float64

func (s sampleMotion) Samples() []float64 { return s }

var movingSamples = sampleMotion{9.8, 11.5, 8.2, 12.0, 9.1}

func TestAffinityBonusAnchorsToBaseUnderTier(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	setCharacter(t, svc, func(c *storage.Character) { c.Affinity = string(CategoryCreative) })

	task := mustCreate(t, svc, CreateTaskParams{
		Title:    "Sketch the park",
		Category: CategoryCreative,
		Verify:   VerifyPhoto,
		BaseExp:  10, BaseGold: 5,
	})
	mustStart(t, svc, task.ID)
	if _, err := svc.CaptureProof(ctx, task.ID, []byte("jpeg"), clock.Now()); err != nil {
		t.Fatalf("CaptureProof: %v", err)
	}

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.Reward.Tier != TierPhoto || !res.Reward.AffinityHit {
		t.Fatalf("tier=%s affinity=%v, want photo/true", res.Reward.Tier, res.Reward.AffinityHit)
	}
	// 10 * 1.5 tier = 15, affinity adds 20% of the base 10, not of 15.
	if res.ExpAwarded != 17 {
		t.Fatalf("ExpAwarded=%d, want 17 (15 tier + 2 affinity of base)", res.ExpAwarded)
	}
}

func TestMotionBonusAnchorsToBase(t *testing.T) {
	svc, clock := newTestService(t, WithMotionSource(movingSamples))
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{
		Title:   "Walk to the mailbox",
		Verify:  VerifyPhoto,
		BaseExp: 20, BaseGold: 5,
	})
	mustStart(t, svc, task.ID)
	if _, err := svc.CaptureProof(ctx, task.ID, []byte("jpeg"), clock.Now()); err != nil {
		t.Fatalf("CaptureProof: %v", err)
	}

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.Reward.MotionHit {
		t.Fatalf("expected motion bonus")
	}
	// 20 * 1.5 tier = 30, motion adds 5% of the base 20, not of 30.
	if res.ExpAwarded != 31 {
		t.Fatalf("ExpAwarded=%d, want 31 (30 tier + 1 motion of base)", res.ExpAwarded)
	}
}

func TestStackedBonusesDoNotCompound(t *testing.T) {
	svc, clock := newTestService(t, WithMotionSource(movingSamples))
	ctx := context.Background()

	setCharacter(t, svc, func(c *storage.Character) { c.Affinity = string(CategoryPhysical) })

	task := mustCreate(t, svc, CreateTaskParams{
		Title:    "Morning jog",
		Category: CategoryPhysical,
		Verify:   VerifyPhoto,
		BaseExp:  10, BaseGold: 5,
	})
	mustStart(t, svc, task.ID)
	if _, err := svc.CaptureProof(ctx, task.ID, []byte("jpeg"), clock.Now()); err != nil {
		t.Fatalf("CaptureProof: %v", err)
	}

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.Reward.MotionHit || !res.Reward.AffinityHit {
		t.Fatalf("motion=%v affinity=%v, want both", res.Reward.MotionHit, res.Reward.AffinityHit)
	}
	// 10 * 1.5 tier = 15, + round(10*0.05) = 1, + round(10*0.20) = 2.
	if res.ExpAwarded != 18 {
		t.Fatalf("ExpAwarded=%d, want 18", res.ExpAwarded)
	}
	if res.GoldAwarded != 5 {
		t.Fatalf("GoldAwarded=%d, want 5 (bonuses touch EXP only)", res.GoldAwarded)
	}
}

func TestRoutineBundleBonusOnLastTask(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, CreateTaskParams{Title: "Stretch", RoutineID: "morning", BaseExp: 10, BaseGold: 5})
	b := mustCreate(t, svc, CreateTaskParams{Title: "Hydrate", RoutineID: "morning", BaseExp: 10, BaseGold: 5})

	mustStart(t, svc, a.ID)
	resA, err := svc.CompleteTask(ctx, a.ID)
	if err != nil {
		t.Fatalf("complete a: %v", err)
	}
	if resA.Reward.RoutineHit {
		t.Fatalf("bundle bonus granted before the bundle finished")
	}
	if resA.ExpAwarded != 10 {
		t.Fatalf("first task ExpAwarded=%d, want 10", resA.ExpAwarded)
	}

	mustStart(t, svc, b.ID)
	resB, err := svc.CompleteTask(ctx, b.ID)
	if err != nil {
		t.Fatalf("complete b: %v", err)
	}
	if !resB.Reward.RoutineHit {
		t.Fatalf("expected bundle bonus on the closing task")
	}
	if resB.ExpAwarded != 25 { // 10 + 15 bundle bonus
		t.Fatalf("closing task ExpAwarded=%d, want 25", resB.ExpAwarded)
	}
	if resB.GoldAwarded != 10 { // 5 + 5 bundle bonus
		t.Fatalf("closing task GoldAwarded=%d, want 10", resB.GoldAwarded)
	}
}

func TestCoopBonusRequiresPartnerAndGrantsOnce(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	c := getCharacter(t, svc)
	if _, err := svc.BondRepo().Create(ctx, "bond-1", c.ID, "Alex", clock.Now()); err != nil {
		t.Fatalf("create bond: %v", err)
	}

	solo := mustCreate(t, svc, CreateTaskParams{Title: "Cook dinner together", IsCoop: true, BaseExp: 10, BaseGold: 5})
	mustStart(t, svc, solo.ID)
	resSolo, err := svc.CompleteTask(ctx, solo.ID)
	if err != nil {
		t.Fatalf("complete solo: %v", err)
	}
	if resSolo.Reward.CoopHit || resSolo.BondExp != 0 {
		t.Fatalf("co-op bonus granted without partner completion")
	}

	both := mustCreate(t, svc, CreateTaskParams{Title: "Evening walk together", IsCoop: true, BaseExp: 10, BaseGold: 5})
	mustStart(t, svc, both.ID)
	if err := svc.MarkPartnerDone(ctx, both.ID); err != nil {
		t.Fatalf("MarkPartnerDone: %v", err)
	}

	res, err := svc.CompleteTask(ctx, both.ID)
	if err != nil {
		t.Fatalf("complete co-op: %v", err)
	}
	if !res.Reward.CoopHit {
		t.Fatalf("expected co-op bonus")
	}
	if res.ExpAwarded != 13 { // round(10 * 1.25)
		t.Fatalf("ExpAwarded=%d, want 13", res.ExpAwarded)
	}
	if res.BondExp != 10 {
		t.Fatalf("BondExp=%d, want 10", res.BondExp)
	}
	if !res.Task.CoopBonusGranted {
		t.Fatalf("co-op grant not recorded on the task")
	}

	bond, _ := svc.BondRepo().GetForCharacter(ctx, c.ID)
	if bond.Exp != 10 {
		t.Fatalf("bond exp=%d, want 10", bond.Exp)
	}
}

func TestCoopWithoutBondDegradesToNormal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{Title: "Movie night", IsCoop: true, BaseExp: 10, BaseGold: 5})
	mustStart(t, svc, task.ID)
	if err := svc.MarkPartnerDone(ctx, task.ID); err != nil {
		t.Fatalf("MarkPartnerDone: %v", err)
	}

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.Reward.CoopHit || res.BondExp != 0 {
		t.Fatalf("co-op bonus granted with no bond")
	}
	if res.ExpAwarded != 10 {
		t.Fatalf("ExpAwarded=%d, want 10", res.ExpAwarded)
	}
}

func TestLootRoll(t *testing.T) {
	ctx := context.Background()

	t.Run("guaranteed drop lands in inventory", func(t *testing.T) {
		bal := config.Default()
		bal.LootDropChance = 1.0
		svc, _ := newTestService(t, WithBalance(bal), WithLootSeed(7))

		task := mustCreate(t, svc, CreateTaskParams{Title: "Sweep the porch", BaseExp: 10, BaseGold: 5})
		mustStart(t, svc, task.ID)
		res, err := svc.CompleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		if res.Loot == nil {
			t.Fatalf("expected a loot drop at 100%% chance")
		}

		c := getCharacter(t, svc)
		items, err := svc.InventoryRepo().List(ctx, c.ID)
		if err != nil {
			t.Fatalf("inventory list: %v", err)
		}
		if len(items) != 1 || items[0].Item != string(res.Loot.Item) || items[0].Qty != 1 {
			t.Fatalf("inventory=%+v, want one %s", items, res.Loot.Item)
		}
	})

	t.Run("zero chance never drops", func(t *testing.T) {
		svc, _ := newTestService(t)
		task := mustCreate(t, svc, CreateTaskParams{Title: "Sweep the porch", BaseExp: 10, BaseGold: 5})
		mustStart(t, svc, task.ID)
		res, err := svc.CompleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		if res.Loot != nil {
			t.Fatalf("unexpected loot drop at 0%% chance")
		}
	})
}

func TestLevelUpReportedNotApplied(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	setCharacter(t, svc, func(c *storage.Character) { c.Exp = 95 })

	task := mustCreate(t, svc, CreateTaskParams{Title: "Journal", BaseExp: 10, BaseGold: 5})
	mustStart(t, svc, task.ID)

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.LevelUpAvailable || res.LevelAvailable != 2 {
		t.Fatalf("LevelUpAvailable=%v LevelAvailable=%d, want true/2", res.LevelUpAvailable, res.LevelAvailable)
	}

	c := getCharacter(t, svc)
	if c.Level != 1 {
		t.Fatalf("level auto-applied: %d", c.Level)
	}

	gained, c, err := svc.ApplyLevelUp(ctx)
	if err != nil {
		t.Fatalf("ApplyLevelUp: %v", err)
	}
	if gained != 1 || c.Level != 2 {
		t.Fatalf("gained=%d level=%d, want 1/2", gained, c.Level)
	}
	if c.StatPoints != 2 {
		t.Fatalf("stat points=%d, want 2", c.StatPoints)
	}

	gained, _, err = svc.ApplyLevelUp(ctx)
	if err != nil {
		t.Fatalf("ApplyLevelUp second: %v", err)
	}
	if gained != 0 {
		t.Fatalf("second ApplyLevelUp gained=%d, want 0", gained)
	}
}

func TestStateTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{Title: "Call grandma"})

	// Completing a pending task skips in_progress.
	var se StateError
	_, err := svc.CompleteTask(ctx, task.ID)
	if !errors.As(err, &se) {
		t.Fatalf("expected StateError, got %v", err)
	}

	mustStart(t, svc, task.ID)
	if _, err := svc.StartTask(ctx, task.ID); !errors.As(err, &se) {
		t.Fatalf("expected StateError restarting, got %v", err)
	}

	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, task.ID); !errors.As(err, &se) {
		t.Fatalf("expected StateError on double complete, got %v", err)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	complete := func(title string) *TaskCompletionResult {
		task := mustCreate(t, svc, CreateTaskParams{Title: title, BaseExp: 10, BaseGold: 5})
		mustStart(t, svc, task.ID)
		res, err := svc.CompleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask(%s): %v", title, err)
		}
		return res
	}

	if res := complete("day one"); res.StreakCurrent != 1 {
		t.Fatalf("streak=%d, want 1", res.StreakCurrent)
	}

	clock.Advance(24 * time.Hour)
	if res := complete("day two"); res.StreakCurrent != 2 {
		t.Fatalf("streak=%d, want 2", res.StreakCurrent)
	}

	// Two completions on the same day do not double-count.
	if res := complete("day two again"); res.StreakCurrent != 2 {
		t.Fatalf("streak=%d, want 2", res.StreakCurrent)
	}

	clock.Advance(48 * time.Hour)
	if res := complete("after a gap"); res.StreakCurrent != 1 {
		t.Fatalf("streak=%d, want 1 after gap", res.StreakCurrent)
	}

	c := getCharacter(t, svc)
	if c.StreakLongest != 2 {
		t.Fatalf("longest=%d, want 2", c.StreakLongest)
	}
}

func TestDeleteTask(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{Title: "Obsolete errand"})
	if _, err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if got, _ := svc.TaskRepo().Get(ctx, task.ID); got != nil {
		t.Fatalf("task %d still present after delete", task.ID)
	}

	if _, err := svc.DeleteTask(ctx, task.ID); err == nil {
		t.Fatalf("expected error deleting a missing task")
	}
}

func TestDeleteClaimedDutyUnlinksSlot(t *testing.T) {
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

	if _, err := svc.DeleteTask(ctx, claimed.TaskID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	after, err := svc.EnsureTodaysDuties(ctx, c.ID)
	if err != nil {
		t.Fatalf("reload board: %v", err)
	}
	var slot *storage.DutySlot
	for i := range after {
		if after[i].ID == slots[0].ID {
			slot = &after[i]
		}
	}
	if slot == nil {
		t.Fatalf("claimed slot gone after task delete")
	}
	if !slot.Claimed || slot.TaskID != nil {
		t.Fatalf("slot claimed=%v taskID=%v, want claimed and unlinked", slot.Claimed, slot.TaskID)
	}

	// Deleting the task does not refund the day's claim.
	_, err = svc.ClaimDuty(ctx, c.ID, after[1].ID)
	var rej RejectionError
	if !errors.As(err, &rej) || rej.Reason != ReasonClaimLimit {
		t.Fatalf("expected claim-limit rejection, got %v", err)
	}
}

func TestDeleteTaskDiscardsConfirmationToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, CreateTaskParams{Title: "Shared chore", SharedWithPartner: true, BaseExp: 10, BaseGold: 5})
	mustStart(t, svc, task.ID)
	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.ConfirmationToken == "" {
		t.Fatalf("expected a confirmation token")
	}

	if _, err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := svc.ApplyActivityConfirmation(ctx, res.ConfirmationToken); err == nil {
		t.Fatalf("expected error redeeming a token whose task was deleted")
	}
}

func TestSweepExpiresOverdueTasks(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	due := clock.Now().Add(time.Hour)
	task := mustCreate(t, svc, CreateTaskParams{Title: "Mail the package", DueDate: &due})
	mustStart(t, svc, task.ID)

	if n, err := svc.SweepExpired(ctx); err != nil || n != 0 {
		t.Fatalf("early sweep n=%d err=%v, want 0/nil", n, err)
	}

	clock.Advance(2 * time.Hour)
	n, err := svc.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept=%d, want 1", n)
	}

	got, _ := svc.TaskRepo().Get(ctx, task.ID)
	if got.Status != string(StatusExpired) {
		t.Fatalf("status=%q, want expired", got.Status)
	}
}

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/config"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

// RewardBreakdown is the staged reward computation for one completion.
// Stages apply in a fixed order and each rounds to whole units. The
// percentage bonuses anchor to the level-scaled base, never to another
// stage's output, so multipliers cannot compound on each other.
type RewardBreakdown struct {
	BaseExp  int // level-scaled
	BaseGold int // level-scaled

	Tier        VerificationTier
	InRange     bool
	TierMult    float64
	MotionHit   bool
	AffinityHit bool
	RoutineHit  bool
	CoopHit     bool

	FinalExp  int
	FinalGold int

	Stat     Stat
	StatGain int
}

// computeReward runs the deterministic part of the pipeline. Loot is
// rolled separately because it is chance-based and independent.
func computeReward(t *storage.Task, c *storage.Character, bal config.Balance, tier VerificationTier, inRange, motion, routineDone, coopBonus bool) RewardBreakdown {
	b := RewardBreakdown{
		BaseExp:  ScaledExp(t.BaseExp, c.Level),
		BaseGold: ScaledGold(t.BaseGold, c.Level),
		Tier:     tier,
		InRange:  inRange,
		Stat:     Category(t.Category).BonusStat(),
		StatGain: bal.StatGainPerTask,
	}

	b.TierMult = tierMult(bal, tier, inRange)
	exp := int(math.Round(float64(b.BaseExp) * b.TierMult))
	gold := b.BaseGold

	if motion {
		b.MotionHit = true
		exp += int(math.Round(float64(b.BaseExp) * bal.MotionBonusRate))
	}

	if c.Affinity != "" && c.Affinity == t.Category {
		b.AffinityHit = true
		exp += int(math.Round(float64(b.BaseExp) * bal.AffinityBonusRate))
	}

	if routineDone {
		b.RoutineHit = true
		exp += bal.RoutineBonusExp
		gold += bal.RoutineBonusGold
	}

	if coopBonus {
		b.CoopHit = true
		exp = int(math.Round(float64(exp) * bal.CoopMult))
		gold = int(math.Round(float64(gold) * bal.CoopMult))
	}

	b.FinalExp = exp
	b.FinalGold = gold
	return b
}

func tierMult(bal config.Balance, tier VerificationTier, inRange bool) float64 {
	switch tier {
	case TierPhoto:
		return bal.TierPhotoMult
	case TierLocation:
		if inRange {
			return bal.TierLocationMult
		}
		return bal.TierLocationOutMult
	case TierBoth:
		if inRange {
			return bal.TierBothMult
		}
		return bal.TierBothOutMult
	default:
		return 1.0
	}
}

// TaskCompletionResult is everything a completion produced, returned
// after the transaction committed.
type TaskCompletionResult struct {
	Task   *storage.Task
	Reward RewardBreakdown

	ExpAwarded  int
	GoldAwarded int
	Loot        *LootDrop
	BondExp     int

	// Progress toward the next level threshold, before and after the
	// award, for the presentation layer's progress bar.
	ExpProgressBefore float64
	ExpProgressAfter  float64

	StreakCurrent int

	// LevelUpAvailable means the new EXP total crosses one or more level
	// thresholds. Levels are not applied here; ApplyLevelUp does that.
	LevelUpAvailable bool
	LevelAvailable   int

	// ConfirmationToken is set for shared tasks: the partner's later
	// confirmation redeems it for a small additive bonus.
	ConfirmationToken string
}

// CompleteTask runs the verification gates and, if they pass, the full
// reward pipeline, committing every mutation in a single transaction.
// If anything fails, no state changes at all.
func (s *Service) CompleteTask(ctx context.Context, taskID int64) (*TaskCompletionResult, error) {
	c, err := s.getCharacter(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task %d not found", taskID)
	}
	if Status(t.Status) != StatusInProgress {
		return nil, StateError{TaskID: taskID, From: Status(t.Status), To: StatusCompleted}
	}

	if ok, reason := s.CanComplete(t); !ok {
		return nil, RejectionError{Op: "complete", Reason: reason}
	}

	tier := achievedTier(t)
	inRange := geofenceInRange(t)
	motion := t.PhotoMotion

	routineDone, err := s.routineWillFinish(ctx, c.ID, t)
	if err != nil {
		return nil, err
	}

	// The co-op bonus needs both sides done and an actual bond to pay
	// the relationship gain into; a co-op task with no bond degrades to a
	// normal completion.
	var bond *storage.Bond
	if t.IsCoop {
		bond, err = s.bonds.GetForCharacter(ctx, c.ID)
		if err != nil {
			return nil, err
		}
	}
	coopBonus := t.IsCoop && t.PartnerDone && !t.CoopBonusGranted && bond != nil

	reward := computeReward(t, c, s.bal, tier, inRange, motion, routineDone, coopBonus)
	loot := s.rollLoot(Category(t.Category))

	now := s.clock.Now()
	today := DayStamp(now)

	res := &TaskCompletionResult{
		Reward:            reward,
		ExpAwarded:        reward.FinalExp,
		GoldAwarded:       reward.FinalGold,
		Loot:              loot,
		ExpProgressBefore: ExpProgress(c.Exp, c.Level),
	}

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		characters := storage.NewCharacterRepo(tx)
		ledger := storage.NewCompletionRepo(tx)

		if err := tasks.MarkCompleted(ctx, t.ID, now); err != nil {
			return err
		}

		cc := *c
		cc.Exp += reward.FinalExp
		cc.Gold += reward.FinalGold
		addStat(&cc, reward.Stat, reward.StatGain)
		bumpStreak(&cc, now, today)

		if err := characters.Update(ctx, &cc); err != nil {
			return err
		}

		if _, err := ledger.Insert(ctx, storage.Completion{
			TaskID:      t.ID,
			CharacterID: c.ID,
			CompletedAt: now,
			Day:         today,
			ExpAwarded:  reward.FinalExp,
			GoldAwarded: reward.FinalGold,
			Tier:        string(tier),
		}); err != nil {
			return err
		}

		if coopBonus {
			bonds := storage.NewBondRepo(tx)
			if err := bonds.AddExp(ctx, bond.ID, s.bal.CoopBondExp); err != nil {
				return err
			}
			res.BondExp = s.bal.CoopBondExp
			if err := tasks.MarkCoopBonusGranted(ctx, t.ID); err != nil {
				return err
			}
		}

		if loot != nil {
			inv := storage.NewInventoryRepo(tx)
			if err := inv.Add(ctx, c.ID, string(loot.Item), loot.Amount); err != nil {
				return err
			}
		}

		if t.SharedWithPartner {
			confirms := storage.NewConfirmationRepo(tx)
			token := uuid.NewString()
			if err := confirms.Insert(ctx, storage.Confirmation{
				Token:       token,
				TaskID:      t.ID,
				CharacterID: c.ID,
				BonusExp:    s.bal.ActivityConfirmExp,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			res.ConfirmationToken = token
		}

		*c = cc
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.StreakCurrent = c.StreakCurrent
	res.ExpProgressAfter = ExpProgress(c.Exp, c.Level)
	avail := LevelForExp(c.Exp)
	if avail > c.Level {
		res.LevelUpAvailable = true
		res.LevelAvailable = avail
	}

	res.Task, err = s.tasks.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("task completed",
		zap.Int64("task", t.ID),
		zap.String("tier", string(tier)),
		zap.Int("exp", reward.FinalExp),
		zap.Int("gold", reward.FinalGold),
		zap.Bool("level_up_available", res.LevelUpAvailable))

	if t.SharedWithPartner || t.IsCoop {
		s.notifier.PartnerEvent("completed", t.Title)
	}
	return res, nil
}

// routineWillFinish reports whether completing t closes out its routine
// bundle, i.e. every other task in the bundle is already completed.
func (s *Service) routineWillFinish(ctx context.Context, characterID int64, t *storage.Task) (bool, error) {
	if t.RoutineID == nil {
		return false, nil
	}
	bundle, err := s.tasks.ListRoutine(ctx, characterID, *t.RoutineID)
	if err != nil {
		return false, err
	}
	for _, other := range bundle {
		if other.ID == t.ID {
			continue
		}
		if Status(other.Status) != StatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

func addStat(c *storage.Character, stat Stat, n int) {
	switch stat {
	case StatStrength:
		c.Strength += n
	case StatEndurance:
		c.Endurance += n
	case StatWisdom:
		c.Wisdom += n
	case StatCharisma:
		c.Charisma += n
	case StatCreativity:
		c.Creativity += n
	case StatDiscipline:
		c.Discipline += n
	}
}

// bumpStreak advances the daily completion streak. A completion on the
// day after the last active day extends it; any gap resets to 1.
func bumpStreak(c *storage.Character, now time.Time, today string) {
	if c.LastActiveDay == today {
		return
	}
	yesterday := DayStamp(now.AddDate(0, 0, -1))
	if c.LastActiveDay == yesterday {
		c.StreakCurrent++
	} else {
		c.StreakCurrent = 1
	}
	if c.StreakCurrent > c.StreakLongest {
		c.StreakLongest = c.StreakCurrent
	}
	c.LastActiveDay = today
}

// ApplyLevelUp consumes pending level-ups: the stored level catches up
// with the EXP curve and stat points are granted per level gained.
// Returns the number of levels applied (0 when none were pending).
func (s *Service) ApplyLevelUp(ctx context.Context) (int, *storage.Character, error) {
	c, err := s.getCharacter(ctx)
	if err != nil {
		return 0, nil, err
	}

	target := LevelForExp(c.Exp)
	if target <= c.Level {
		return 0, c, nil
	}

	gained := target - c.Level
	c.Level = target
	c.StatPoints += gained * s.bal.StatPointsPerLevel
	if err := s.characters.Update(ctx, c); err != nil {
		return 0, nil, err
	}

	s.log.Info("level up applied",
		zap.Int("levels", gained),
		zap.Int("level", c.Level),
		zap.Int("stat_points", c.StatPoints))
	s.notifier.Toast(fmt.Sprintf("Level up! You are now level %d", c.Level))
	return gained, c, nil
}

// AllocateStat spends one banked stat point on the named stat.
func (s *Service) AllocateStat(ctx context.Context, stat Stat) (*storage.Character, error) {
	c, err := s.getCharacter(ctx)
	if err != nil {
		return nil, err
	}
	if c.StatPoints <= 0 {
		return nil, fmt.Errorf("no stat points available")
	}
	c.StatPoints--
	addStat(c, stat, 1)
	if err := s.characters.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

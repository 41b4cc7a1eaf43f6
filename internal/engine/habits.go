package engine

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

// FailHabit applies the habit miss penalty: the level-scaled reward the
// habit would have paid is subtracted instead, floored at zero so a
// missed habit can never push totals negative. The status change and the
// deduction commit together.
func (s *Service) FailHabit(ctx context.Context, c *storage.Character, t *storage.Task) error {
	if !t.IsHabit {
		return fmt.Errorf("task %d is not a habit", t.ID)
	}

	expPenalty := ScaledExp(t.BaseExp, c.Level)
	goldPenalty := ScaledGold(t.BaseGold, c.Level)

	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		characters := storage.NewCharacterRepo(tx)

		if err := tasks.MarkHabitFailed(ctx, t.ID); err != nil {
			return err
		}

		cc := *c
		cc.Exp -= expPenalty
		if cc.Exp < 0 {
			cc.Exp = 0
		}
		cc.Gold -= goldPenalty
		if cc.Gold < 0 {
			cc.Gold = 0
		}
		if err := characters.Update(ctx, &cc); err != nil {
			return err
		}

		*c = cc
		return nil
	})
	if err != nil {
		return err
	}

	t.Status = string(StatusFailed)
	t.FailedToday = true

	s.log.Info("habit missed",
		zap.Int64("task", t.ID),
		zap.String("title", t.Title),
		zap.Int("exp_penalty", expPenalty),
		zap.Int("gold_penalty", goldPenalty))
	s.notifier.Toast(fmt.Sprintf("Missed habit: %s (-%d EXP)", t.Title, expPenalty))
	return nil
}

package engine

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

// ApplyActivityConfirmation redeems a confirmation token issued when a
// shared task completed. The bonus is strictly additive: it can only add
// EXP on top of an already-committed completion, never change what the
// completion paid out. A token is single-use.
func (s *Service) ApplyActivityConfirmation(ctx context.Context, token string) (int, error) {
	conf, err := s.confirms.Get(ctx, token)
	if err != nil {
		return 0, err
	}
	if conf == nil {
		return 0, fmt.Errorf("confirmation %s not found", token)
	}
	if conf.Applied {
		return 0, fmt.Errorf("confirmation %s already applied", token)
	}

	// The underlying task must still be completed. If it isn't, the
	// completion the token was issued for never committed (or was rolled
	// back); the token is dead and gets discarded.
	t, err := s.tasks.Get(ctx, conf.TaskID)
	if err != nil {
		return 0, err
	}
	if t == nil || Status(t.Status) != StatusCompleted {
		if derr := s.confirms.Delete(ctx, token); derr != nil {
			return 0, derr
		}
		return 0, fmt.Errorf("confirmation %s no longer applies", token)
	}

	c, err := s.characters.Get(ctx, conf.CharacterID)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return 0, fmt.Errorf("character %d not found", conf.CharacterID)
	}

	bonus := conf.BonusExp
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		characters := storage.NewCharacterRepo(tx)
		confirms := storage.NewConfirmationRepo(tx)

		cc := *c
		cc.Exp += bonus
		if err := characters.Update(ctx, &cc); err != nil {
			return err
		}
		if err := confirms.MarkApplied(ctx, token); err != nil {
			return err
		}
		*c = cc
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("activity confirmed",
		zap.Int64("task", conf.TaskID),
		zap.Int("bonus_exp", bonus))
	return bonus, nil
}

// MarkPartnerDone records the partner's completion signal on a co-op
// task. The co-op bonus itself is granted by whichever completion runs
// with both sides done, at most once.
func (s *Service) MarkPartnerDone(ctx context.Context, taskID int64) error {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("task %d not found", taskID)
	}
	if !t.IsCoop {
		return fmt.Errorf("task %d is not a co-op task", taskID)
	}
	return s.tasks.SetPartnerDone(ctx, taskID, true)
}

// CreateBond pairs the character with a partner. One bond per character.
func (s *Service) CreateBond(ctx context.Context, id string, partnerName string) (*storage.Bond, error) {
	c, err := s.getCharacter(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.bonds.GetForCharacter(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("already bonded with %s", existing.PartnerName)
	}
	return s.bonds.Create(ctx, id, c.ID, partnerName, s.clock.Now())
}

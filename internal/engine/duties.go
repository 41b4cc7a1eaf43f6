package engine

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

// DutyTemplate is a duty-board offering. The catalog is fixed; selection
// per day is the deterministic part.
type DutyTemplate struct {
	ID       string
	Title    string
	Category Category
	BaseExp  int
	BaseGold int
}

var dutyCatalog = []DutyTemplate{
	{ID: "walk_20", Title: "Take a 20-minute walk together", Category: CategoryPhysical, BaseExp: 15, BaseGold: 8},
	{ID: "stretch", Title: "Morning stretch routine", Category: CategoryPhysical, BaseExp: 10, BaseGold: 5},
	{ID: "hydrate", Title: "Drink 8 glasses of water", Category: CategoryWellness, BaseExp: 10, BaseGold: 5},
	{ID: "meditate", Title: "Meditate for 10 minutes", Category: CategoryWellness, BaseExp: 12, BaseGold: 6},
	{ID: "read_20", Title: "Read 20 pages", Category: CategoryMental, BaseExp: 12, BaseGold: 6},
	{ID: "journal", Title: "Write a journal entry", Category: CategoryMental, BaseExp: 10, BaseGold: 5},
	{ID: "call_family", Title: "Call a family member", Category: CategorySocial, BaseExp: 12, BaseGold: 6},
	{ID: "compliment", Title: "Give your partner a real compliment", Category: CategorySocial, BaseExp: 8, BaseGold: 4},
	{ID: "sketch", Title: "Sketch or doodle something", Category: CategoryCreative, BaseExp: 10, BaseGold: 5},
	{ID: "cook_new", Title: "Cook something you've never made", Category: CategoryCreative, BaseExp: 15, BaseGold: 8},
	{ID: "dishes", Title: "Clear the sink completely", Category: CategoryChore, BaseExp: 8, BaseGold: 6},
	{ID: "declutter", Title: "Declutter one surface", Category: CategoryChore, BaseExp: 10, BaseGold: 6},
}

// dutySeed derives the day's board seed. Same character, same day, same
// shuffle count => same board, across app relaunches.
func dutySeed(characterID int64, day string, shuffles int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%d", characterID, day, shuffles)
	return int64(h.Sum64())
}

// generateDuties picks n catalog entries for the seed, in a stable order.
func generateDuties(seed int64, n int) []DutyTemplate {
	if n > len(dutyCatalog) {
		n = len(dutyCatalog)
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(dutyCatalog))

	out := make([]DutyTemplate, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, dutyCatalog[idx])
	}
	return out
}

// EnsureTodaysDuties returns today's duty board for the character,
// generating and persisting it on first access after midnight.
// Idempotent within a day.
func (s *Service) EnsureTodaysDuties(ctx context.Context, characterID int64) ([]storage.DutySlot, error) {
	c, err := s.characters.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("character %d not found", characterID)
	}
	s.touchDailyState(ctx, c)

	today := DayStamp(s.clock.Now())
	existing, err := s.duties.ListDay(ctx, characterID, today)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	// Stale boards from previous days are dead weight; clear them.
	if err := s.duties.DeleteBefore(ctx, characterID, today); err != nil {
		return nil, err
	}

	seed := dutySeed(characterID, today, c.DutyShuffles)
	for i, tpl := range generateDuties(seed, s.bal.DutyBoardSize) {
		slot := storage.DutySlot{
			CharacterID: characterID,
			Day:         today,
			Slot:        i,
			TemplateID:  tpl.ID,
			Title:       tpl.Title,
			Category:    string(tpl.Category),
			BaseExp:     tpl.BaseExp,
			BaseGold:    tpl.BaseGold,
		}
		if err := s.duties.InsertSlot(ctx, slot); err != nil {
			return nil, err
		}
	}
	return s.duties.ListDay(ctx, characterID, today)
}

// RefreshDutyBoard consumes the day's one allowed shuffle and replaces
// the unclaimed slots with a reseeded selection.
func (s *Service) RefreshDutyBoard(ctx context.Context, characterID int64) ([]storage.DutySlot, error) {
	c, err := s.characters.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("character %d not found", characterID)
	}
	s.touchDailyState(ctx, c)

	if c.DutyShuffles >= s.bal.DutyShufflesPerDay {
		return nil, RejectionError{Op: "shuffle", Reason: ReasonShuffleUsed}
	}

	today := DayStamp(s.clock.Now())
	slots, err := s.EnsureTodaysDuties(ctx, characterID)
	if err != nil {
		return nil, err
	}

	claimedTemplates := map[string]bool{}
	claimedCount := 0
	nextSlot := 0
	for _, d := range slots {
		if !d.Claimed {
			continue
		}
		claimedCount++
		claimedTemplates[d.TemplateID] = true
		if d.Slot >= nextSlot {
			nextSlot = d.Slot + 1
		}
	}

	shufflesBefore := c.DutyShuffles
	c.DutyShuffles++
	seed := dutySeed(characterID, today, c.DutyShuffles)

	// The counter spend, the clear and the replacement slots commit
	// together; a failed shuffle leaves the board and the counter as
	// they were.
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		duties := storage.NewDutyRepo(tx)
		characters := storage.NewCharacterRepo(tx)

		if err := duties.DeleteUnclaimed(ctx, characterID, today); err != nil {
			return err
		}
		if err := characters.Update(ctx, c); err != nil {
			return err
		}

		want := s.bal.DutyBoardSize - claimedCount
		slot := nextSlot
		for _, tpl := range generateDuties(seed, s.bal.DutyBoardSize) {
			if want <= 0 {
				break
			}
			if claimedTemplates[tpl.ID] {
				continue
			}
			if err := duties.InsertSlot(ctx, storage.DutySlot{
				CharacterID: characterID,
				Day:         today,
				Slot:        slot,
				TemplateID:  tpl.ID,
				Title:       tpl.Title,
				Category:    string(tpl.Category),
				BaseExp:     tpl.BaseExp,
				BaseGold:    tpl.BaseGold,
			}); err != nil {
				return err
			}
			slot++
			want--
		}
		return nil
	})
	if err != nil {
		c.DutyShuffles = shufflesBefore
		return nil, err
	}

	return s.duties.ListDay(ctx, characterID, today)
}

// ClaimDutyResult reports a successful claim.
type ClaimDutyResult struct {
	TaskID     int64
	Title      string
	ClaimsLeft int
}

// ClaimDuty takes an unclaimed slot off the board and turns it into an
// in-progress task on the character's active list. The daily claim
// ceiling is enforced from the persisted, day-stamped counter.
func (s *Service) ClaimDuty(ctx context.Context, characterID int64, slotID int64) (*ClaimDutyResult, error) {
	c, err := s.characters.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("character %d not found", characterID)
	}
	s.touchDailyState(ctx, c)

	if c.DutyClaims >= s.bal.DutyClaimsPerDay {
		return nil, RejectionError{Op: "claim", Reason: ReasonClaimLimit}
	}

	today := DayStamp(s.clock.Now())
	slots, err := s.duties.ListDay(ctx, characterID, today)
	if err != nil {
		return nil, err
	}
	var target *storage.DutySlot
	for i := range slots {
		if slots[i].ID == slotID {
			target = &slots[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("duty slot %d not found for today", slotID)
	}
	if target.Claimed {
		return nil, fmt.Errorf("duty slot %d already claimed", slotID)
	}

	now := s.clock.Now()
	claimsBefore := c.DutyClaims
	var taskID int64
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		duties := storage.NewDutyRepo(tx)
		characters := storage.NewCharacterRepo(tx)

		id, err := tasks.Insert(ctx, storage.TaskInsert{
			CharacterID: characterID,
			Title:       target.Title,
			Category:    target.Category,
			Mode:        string(ModeStandard),
			Verify:      string(VerifyNone),
			Status:      string(StatusPending),
			BaseExp:     target.BaseExp,
			BaseGold:    target.BaseGold,
			IsDuty:      true,
		})
		if err != nil {
			return err
		}
		if err := tasks.MarkStarted(ctx, id, now); err != nil {
			return err
		}
		if err := duties.MarkClaimed(ctx, target.ID, id); err != nil {
			return err
		}

		c.DutyClaims++
		if err := characters.Update(ctx, c); err != nil {
			return err
		}
		taskID = id
		return nil
	})
	if err != nil {
		// The counter bump lives on the in-memory copy; restore it so a
		// rolled-back claim does not leak into later checks.
		c.DutyClaims = claimsBefore
		return nil, err
	}

	return &ClaimDutyResult{
		TaskID:     taskID,
		Title:      target.Title,
		ClaimsLeft: s.bal.DutyClaimsPerDay - c.DutyClaims,
	}, nil
}

package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newDutiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duties",
		Short: "Show today's duty board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			c, err := svc.CharacterRepo().GetOrCreateMain(ctx)
			if err != nil {
				return err
			}
			slots, err := svc.EnsureTodaysDuties(ctx, c.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDice, "Today's Duties"))
			for _, d := range slots {
				mark := "  "
				if d.Claimed {
					mark = ui.Good.Render("✔ ")
				}
				fmt.Fprintf(out, "%s%3d %s [%s] %s\n", mark, d.ID, d.Title, d.Category,
					ui.Muted.Render(fmt.Sprintf("(%d EXP, %d gold)", d.BaseExp, d.BaseGold)))
			}
			return nil
		},
	}

	cmd.AddCommand(newDutyClaimCmd(), newDutyShuffleCmd())
	return cmd
}

func newDutyClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <slot-id>",
		Short: "Claim a duty off the board",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("slot id is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("slot id must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			c, err := svc.CharacterRepo().GetOrCreateMain(ctx)
			if err != nil {
				return err
			}
			slotID, _ := strconv.ParseInt(args[0], 10, 64)
			res, err := svc.ClaimDuty(ctx, c.ID, slotID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %q %s\n",
				ui.Good.Render(ui.IconDone+" Claimed"), res.Title,
				ui.Muted.Render(fmt.Sprintf("(task %d, %d claims left today)", res.TaskID, res.ClaimsLeft)))
			return nil
		},
	}
}

func newDutyShuffleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle",
		Short: "Reroll the unclaimed duties (once per day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			c, err := svc.CharacterRepo().GetOrCreateMain(ctx)
			if err != nil {
				return err
			}
			slots, err := svc.RefreshDutyBoard(ctx, c.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDice, "Duty board shuffled"))
			for _, d := range slots {
				mark := "  "
				if d.Claimed {
					mark = ui.Good.Render("✔ ")
				}
				fmt.Fprintf(out, "%s%3d %s [%s]\n", mark, d.ID, d.Title, d.Category)
			}
			return nil
		},
	}
}

package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Complete a task and collect rewards",
		Args:  taskIDArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			res, err := svc.CompleteTask(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.IconDone+" Completed"), res.Task.Title)
			fmt.Fprintln(out, ui.LabelValue("EXP", fmt.Sprintf("+%d %s", res.ExpAwarded,
				ui.Muted.Render(fmt.Sprintf("(tier %s, x%.2f)", res.Reward.Tier, res.Reward.TierMult)))))
			fmt.Fprintln(out, ui.LabelValue("Gold", fmt.Sprintf("+%d", res.GoldAwarded)))
			if res.Reward.MotionHit {
				fmt.Fprintln(out, ui.Muted.Render("- motion bonus applied"))
			}
			if res.Reward.AffinityHit {
				fmt.Fprintln(out, ui.Muted.Render("- affinity bonus applied"))
			}
			if res.Reward.RoutineHit {
				fmt.Fprintln(out, ui.Good.Render("- routine bundle finished, bonus applied"))
			}
			if res.Reward.CoopHit {
				fmt.Fprintf(out, "%s +%d bond EXP\n", ui.Good.Render(ui.IconHeart+" Co-op bonus!"), res.BondExp)
			}
			if res.Loot != nil {
				fmt.Fprintf(out, "%s %s x%d\n", ui.Gold.Render(ui.IconGift+" Loot:"), res.Loot.Item, res.Loot.Amount)
			}
			if res.StreakCurrent > 1 {
				fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d days", res.StreakCurrent)))
			}
			if res.ConfirmationToken != "" {
				fmt.Fprintln(out, ui.Muted.Render("Confirmation token for partner: "+res.ConfirmationToken))
			}
			if res.LevelUpAvailable {
				fmt.Fprintf(out, "%s level %d available, run %s\n",
					ui.BadgeLevelUp, res.LevelAvailable, ui.Key.Render("cq levelup"))
			}
			return nil
		},
	}

	return cmd
}

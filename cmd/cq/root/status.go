package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/engine"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show character stats, bond and inventory",
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

			out := cmd.OutOrStdout()
			level := c.Level
			next := engine.ExpThreshold(level + 1)
			toNext := next - c.Exp
			if toNext < 0 {
				toNext = 0
			}

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Character Status"))
			fmt.Fprintln(out, ui.LabelValue("Name", c.Name))
			fmt.Fprintln(out, ui.LabelValue("Level", level))
			fmt.Fprintln(out, ui.LabelValue("EXP", fmt.Sprintf("%d (next at %d, %d to go)", c.Exp, next, toNext)))
			fmt.Fprintln(out, ui.LabelValue("Gold", c.Gold))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d (longest %d)", c.StreakCurrent, c.StreakLongest)))
			if avail := engine.LevelForExp(c.Exp); avail > level {
				fmt.Fprintf(out, "%s level %d available, run %s\n", ui.BadgeLevelUp, avail, ui.Key.Render("cq levelup"))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Stats"))
			fmt.Fprintf(out, "- 💪 STR: %d\n", c.Strength)
			fmt.Fprintf(out, "- 🏃 END: %d\n", c.Endurance)
			fmt.Fprintf(out, "- 🧠 WIS: %d\n", c.Wisdom)
			fmt.Fprintf(out, "- 🗣️ CHA: %d\n", c.Charisma)
			fmt.Fprintf(out, "- 🎨 CRE: %d\n", c.Creativity)
			fmt.Fprintf(out, "- 🧘 DIS: %d\n", c.Discipline)
			if c.StatPoints > 0 {
				fmt.Fprintln(out, ui.Gold.Render(fmt.Sprintf("- ✨ %d unspent stat points", c.StatPoints)))
			}
			fmt.Fprintln(out, "")

			bond, err := svc.BondRepo().GetForCharacter(ctx, c.ID)
			if err != nil {
				return err
			}
			if bond != nil {
				fmt.Fprintln(out, ui.H2.Render(ui.IconHeart+" Bond"))
				fmt.Fprintln(out, ui.LabelValue("Partner", bond.PartnerName))
				fmt.Fprintln(out, ui.LabelValue("Bond EXP", bond.Exp))
				fmt.Fprintln(out, "")
			}

			items, err := svc.InventoryRepo().List(ctx, c.ID)
			if err != nil {
				return err
			}
			if len(items) > 0 {
				fmt.Fprintln(out, ui.H2.Render(ui.IconGift+" Inventory"))
				for _, it := range items {
					fmt.Fprintf(out, "- %s x%d\n", it.Item, it.Qty)
				}
			}
			return nil
		},
	}

	return cmd
}

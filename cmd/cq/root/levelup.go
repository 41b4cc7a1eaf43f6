package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/engine"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newLevelUpCmd() *cobra.Command {
	var spend string

	cmd := &cobra.Command{
		Use:   "levelup",
		Short: "Apply pending level-ups (or spend stat points)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()

			if spend != "" {
				stat := engine.Stat(spend)
				switch stat {
				case engine.StatStrength, engine.StatEndurance, engine.StatWisdom,
					engine.StatCharisma, engine.StatCreativity, engine.StatDiscipline:
				default:
					return errors.New("unknown stat (want strength, endurance, wisdom, charisma, creativity or discipline)")
				}
				c, err := svc.AllocateStat(ctx, stat)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s +1 %s %s\n", ui.Good.Render(ui.IconSparkle+" Spent:"), stat,
					ui.Muted.Render(fmt.Sprintf("(%d points left)", c.StatPoints)))
				return nil
			}

			gained, c, err := svc.ApplyLevelUp(ctx)
			if err != nil {
				return err
			}
			if gained == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No level-up pending."))
				return nil
			}
			fmt.Fprintf(out, "%s now level %d %s\n", ui.BadgeLevelUp, c.Level,
				ui.Muted.Render(fmt.Sprintf("(+%d level(s), %d stat points banked)", gained, c.StatPoints)))
			return nil
		},
	}

	cmd.Flags().StringVar(&spend, "spend", "", "Spend one stat point on the named stat")

	return cmd
}

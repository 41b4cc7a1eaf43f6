package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/engine"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newLogCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the recent completion ledger",
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

			now := svc.Now()
			today, err := svc.CompletionRepo().CountDay(ctx, c.ID, engine.DayStamp(now))
			if err != nil {
				return err
			}
			since := now.AddDate(0, 0, -days)
			entries, err := svc.CompletionRepo().ListSince(ctx, c.ID, since)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Completion Log"))
			fmt.Fprintln(out, ui.LabelValue("Completed today", today))
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("(nothing in the last %d days)", days)))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s task %d: +%d EXP, +%d gold %s\n",
					ui.Muted.Render(e.CompletedAt.In(time.Local).Format("2006-01-02 15:04")),
					e.TaskID, e.ExpAwarded, e.GoldAwarded,
					ui.Muted.Render("(tier "+e.Tier+")"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days back to show")

	return cmd
}

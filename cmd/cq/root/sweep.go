package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Expire overdue tasks and settle missed habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.SweepExpired(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Nothing to sweep."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d task(s) settled.\n", ui.Warn.Render(ui.IconWarn+" Swept:"), n)
			return nil
		},
	}

	return cmd
}

package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newConfirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm <token>",
		Short: "Redeem a partner confirmation token",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("token is required")
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

			bonus, err := svc.ApplyActivityConfirmation(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s +%d EXP\n",
				ui.Good.Render(ui.IconHeart+" Confirmed:"), bonus)
			return nil
		},
	}

	cmd.AddCommand(newPartnerDoneCmd(), newBondCmd())
	return cmd
}

func newPartnerDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "partner-done <task-id>",
		Short: "Record the partner's completion of a co-op quest",
		Args:  taskIDArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			if err := svc.MarkPartnerDone(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconHeart+" Partner completion recorded."))
			return nil
		},
	}
}

func newBondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bond <partner-name>",
		Short: "Pair with a partner",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("partner name is required")
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

			b, err := svc.CreateBond(ctx, uuid.NewString(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s bonded with %s\n",
				ui.Good.Render(ui.IconHeart+" Paired:"), b.PartnerName)
			return nil
		},
	}
}

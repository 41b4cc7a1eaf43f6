package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
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

			var tasks []storage.Task
			switch {
			case status != "":
				tasks, err = svc.TaskRepo().ListByStatus(ctx, c.ID, status)
			case all:
				tasks, err = svc.TaskRepo().ListByCharacter(ctx, c.ID)
			default:
				tasks, err = svc.TaskRepo().ListOpen(ctx, c.ID)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Tasks"))
			if len(tasks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			for _, t := range tasks {
				icon := ui.KindIcon(t.IsDuty, t.IsHabit, t.IsCoop)
				line := fmt.Sprintf("%3d %s %s [%s] %s", t.ID, icon, t.Title, t.Category, ui.StatusText(t.Status))
				if v := ui.VerifyIcon(t.Verify); v != "" {
					line += " " + v
				}
				if t.DueDate != nil {
					line += " " + ui.Muted.Render("due "+t.DueDate.Format("2006-01-02 15:04"))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include terminal tasks")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status")

	return cmd
}

package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/engine"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newAddCmd() *cobra.Command {
	var category string
	var verify string
	var due string
	var minDuration time.Duration
	var baseExp int
	var baseGold int
	var routine string
	var isHabit bool
	var habitHour int
	var miniGame string
	var isCoop bool
	var shared bool
	var geoLat, geoLon, geoRadius float64
	var geoName string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task (or habit/co-op quest)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			v, err := engine.ParseVerify(verify)
			if err != nil {
				return err
			}

			p := engine.CreateTaskParams{
				Title:             args[0],
				Category:          engine.ParseCategory(category),
				Verify:            v,
				MinDuration:       minDuration,
				BaseExp:           baseExp,
				BaseGold:          baseGold,
				RoutineID:         routine,
				IsHabit:           isHabit,
				SharedWithPartner: shared,
				IsCoop:            isCoop,
			}
			if miniGame != "" {
				p.Mode = engine.MiniGameMode(miniGame)
			}
			if due != "" {
				d, err := time.ParseInLocation("2006-01-02 15:04", due, time.Local)
				if err != nil {
					return fmt.Errorf("parse due date %q: %w", due, err)
				}
				p.DueDate = &d
			}
			if isHabit && cmd.Flags().Changed("habit-hour") {
				h := habitHour
				p.HabitDueHour = &h
			}
			if cmd.Flags().Changed("geo-radius") {
				p.Geofence = &engine.Geofence{Lat: geoLat, Lon: geoLon, RadiusM: geoRadius, Name: geoName}
			}

			t, err := svc.CreateTask(ctx, p)
			if err != nil {
				return err
			}

			icon := ui.KindIcon(t.IsDuty, t.IsHabit, t.IsCoop)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added"),
				icon, t.Title,
				ui.Muted.Render(fmt.Sprintf("(id %d, %s, verify %s)", t.ID, t.Category, t.Verify)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "chore", "Category (physical|wellness|mental|social|creative|chore)")
	cmd.Flags().StringVar(&verify, "verify", "none", "Verification requirement (none|photo|location|both)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (\"2006-01-02 15:04\", local time)")
	cmd.Flags().DurationVar(&minDuration, "min-duration", 0, "Minimum time between start and completion")
	cmd.Flags().IntVar(&baseExp, "exp", 0, "Base EXP (default 10)")
	cmd.Flags().IntVar(&baseGold, "gold", 0, "Base gold (default 5)")
	cmd.Flags().StringVar(&routine, "routine", "", "Routine bundle ID")
	cmd.Flags().BoolVar(&isHabit, "habit", false, "Create a daily habit")
	cmd.Flags().IntVar(&habitHour, "habit-hour", 21, "Hour of day the habit is due (0-23)")
	cmd.Flags().StringVar(&miniGame, "minigame", "", "Complete through an in-app game of the given kind (e.g. breathing)")
	cmd.Flags().BoolVar(&isCoop, "coop", false, "Create a co-op quest (both partners complete)")
	cmd.Flags().BoolVar(&shared, "shared", false, "Share with partner (confirmation bonus)")
	cmd.Flags().Float64Var(&geoLat, "geo-lat", 0, "Geofence latitude")
	cmd.Flags().Float64Var(&geoLon, "geo-lon", 0, "Geofence longitude")
	cmd.Flags().Float64Var(&geoRadius, "geo-radius", 0, "Geofence radius in meters")
	cmd.Flags().StringVar(&geoName, "geo-name", "", "Geofence display name")

	return cmd
}

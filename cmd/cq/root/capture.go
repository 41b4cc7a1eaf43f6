package root

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/engine"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

func newCaptureCmd() *cobra.Command {
	var photoPath string
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "capture <id>",
		Short: "Capture verification proof for a task",
		Args:  taskIDArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var opts []engine.Option
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				opts = append(opts, engine.WithLocationSource(engine.StaticLocation{Lat: lat, Lon: lon}))
			}
			svc, cleanup, err := openService(ctx, opts...)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)

			var photo []byte
			if photoPath != "" {
				photo, err = os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("read photo %s: %w", photoPath, err)
				}
			}

			t, err := svc.CaptureProof(ctx, id, photo, svc.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				ui.Good.Render(ui.IconCamera+" Proof captured for"), t.Title)
			if t.GeofenceLat != nil {
				res, err := svc.CheckGeofence(ctx, id)
				if err != nil {
					return err
				}
				if res.InRange {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
						ui.Good.Render(ui.IconPin+" In range:"), res.DistanceText)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
						ui.Warn.Render(ui.IconPin+" Out of range:"), res.DistanceText,
						ui.Muted.Render("(reduced reward tier)"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&photoPath, "photo", "p", "", "Path to the photo file")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Current latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Current longitude")

	return cmd
}

package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "cq",
	Short:         "CouplesQuest, gamified shared productivity",
	Long:          "CouplesQuest is a local-first CLI/TUI companion for verified tasks, duties and shared quests with RPG progression.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newStartCmd(),
		newCaptureCmd(),
		newDoCmd(),
		newDeleteCmd(),
		newListCmd(),
		newLogCmd(),
		newStatusCmd(),
		newDutiesCmd(),
		newSweepCmd(),
		newLevelUpCmd(),
		newConfirmCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

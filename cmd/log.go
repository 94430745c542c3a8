package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/burnlog/internal/tui"
)

// LogCmd opens the interactive workout form.
var LogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log workouts interactively",
	Long: `Open the interactive workout form.

Type a workout, fill in the duration (or reps for push-ups) and press enter
to get a calorie estimate from the gateway. Running workouts also take a
pace and an optional body weight. Every estimate is added to your local
history; press esc to browse, delete or clear it.`,
	RunE: runLog,
}

func init() {
	addClientFlags(LogCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctrl, closeStore, err := newController(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	p := tea.NewProgram(tui.NewFormModel(cmd.Context(), ctrl), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("form failed: %w", err)
	}

	state := ctrl.State()
	if len(state.History) > 0 {
		fmt.Println(tui.RenderTotal(state.History))
	}
	return nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhabedank/burnlog/internal/form"
	"github.com/dhabedank/burnlog/internal/tui"
)

var assumeYes bool

// HistoryCmd shows and edits the local workout history.
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or edit logged workouts",
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged workouts, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one workout",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every workout",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	for _, c := range []*cobra.Command{HistoryCmd, historyListCmd, historyDeleteCmd, historyClearCmd} {
		addClientFlags(c)
	}
	historyDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	historyClearCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	HistoryCmd.AddCommand(historyListCmd, historyDeleteCmd, historyClearCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctrl, closeStore, err := newController(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	history := ctrl.State().History
	if len(history) == 0 {
		fmt.Println(tui.HelpStyle.Render("No workouts logged yet."))
		return nil
	}
	for _, e := range history {
		fmt.Println(tui.RenderEntry(e, false))
		fmt.Println("    " + tui.HelpStyle.Render(e.ID))
	}
	fmt.Println()
	fmt.Println(tui.RenderTotal(history))
	return nil
}

func confirmFunc(cmd *cobra.Command) form.ConfirmFunc {
	if assumeYes {
		return nil
	}
	return promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctrl, closeStore, err := newController(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	id := args[0]
	found := false
	for _, e := range ctrl.State().History {
		if e.ID == id {
			found = true
			fmt.Println(tui.RenderEntry(e, true))
		}
	}
	if !found {
		return fmt.Errorf("no workout with id %s", id)
	}

	err = ctrl.DeleteEntry(cmd.Context(), id, confirmFunc(cmd))
	if errors.Is(err, form.ErrCancelled) {
		fmt.Println("Cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(tui.SuccessStyle.Render("✓") + " Deleted")
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctrl, closeStore, err := newController(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	n := len(ctrl.State().History)
	if n == 0 {
		fmt.Println(tui.HelpStyle.Render("No workouts logged yet."))
		return nil
	}

	err = ctrl.ClearHistory(cmd.Context(), confirmFunc(cmd))
	if errors.Is(err, form.ErrCancelled) {
		fmt.Println("Cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s Cleared %d workouts\n", tui.SuccessStyle.Render("✓"), n)
	return nil
}

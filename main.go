package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhabedank/burnlog/cmd"
	"github.com/dhabedank/burnlog/internal/config"
	"github.com/dhabedank/burnlog/internal/version"
)

// buildVersion is set at build time with -ldflags "-X main.buildVersion=...".
var buildVersion = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "burnlog",
		Short:         "Log workouts and estimate calories burned with Claude",
		Version:       buildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			if c.Name() == "setup" {
				return
			}
			if first := version.NewFirstRun(config.HomePath()); first.IsFirstRun() {
				first.PrintNotice(c.ErrOrStderr())
			}
		},
	}

	rootCmd.AddCommand(cmd.ServeCmd, cmd.LogCmd, cmd.EstimateCmd, cmd.HistoryCmd, cmd.SetupCmd)

	updates := make(chan *version.CheckResult, 1)
	go func() {
		updates <- version.NewChecker().Check(context.Background(), buildVersion)
	}()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	select {
	case result := <-updates:
		version.PrintUpdateNotice(os.Stderr, result)
	default:
	}
}

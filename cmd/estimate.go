package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dhabedank/burnlog/internal/core"
	"github.com/dhabedank/burnlog/internal/form"
	"github.com/dhabedank/burnlog/internal/tui"
)

var (
	workoutType string
	duration    float64
	reps        int
	runningPace string
	bodyWeight  float64
	weightUnit  string
)

// EstimateCmd logs one workout without the interactive form.
var EstimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate and log one workout",
	Example: `  burnlog estimate --workout Cycling --duration 45
  burnlog estimate --workout Push-Ups --reps 20
  burnlog estimate --workout Running --duration 30 --pace 5:30 --weight 180 --unit lbs`,
	RunE: runEstimate,
}

func init() {
	addClientFlags(EstimateCmd)
	EstimateCmd.Flags().StringVarP(&workoutType, "workout", "w", "", "Workout type (required)")
	EstimateCmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Duration in minutes")
	EstimateCmd.Flags().IntVarP(&reps, "reps", "r", 0, "Repetitions (push-ups)")
	EstimateCmd.Flags().StringVar(&runningPace, "pace", "", "Running pace in min/km")
	EstimateCmd.Flags().Float64Var(&bodyWeight, "weight", 0, "Body weight (running)")
	EstimateCmd.Flags().StringVar(&weightUnit, "unit", "", "Weight unit: kg or lbs (default: saved preference)")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctrl, closeStore, err := newController(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	in := form.Inputs{WorkoutType: workoutType}
	if cmd.Flags().Changed("duration") {
		in.Duration = strconv.FormatFloat(duration, 'f', -1, 64)
	}
	if cmd.Flags().Changed("reps") {
		in.Reps = strconv.Itoa(reps)
	}
	in.RunningPace = runningPace
	if cmd.Flags().Changed("weight") {
		in.Weight = strconv.FormatFloat(bodyWeight, 'f', -1, 64)
	}
	if cmd.Flags().Changed("unit") {
		unit, ok := core.ParseWeightUnit(weightUnit)
		if !ok {
			return fmt.Errorf("invalid --unit %q (expected kg or lbs)", weightUnit)
		}
		if err := ctrl.SetWeightUnit(cmd.Context(), unit); err != nil {
			return err
		}
	}
	if err := ctrl.Edit(in); err != nil {
		return err
	}

	resp, err := ctrl.Submit(cmd.Context())
	if err != nil && resp == nil {
		return err
	}

	fmt.Println(tui.ResultBoxStyle.Render(tui.RenderResult(resp)))
	if err != nil {
		fmt.Println(tui.WarningStyle.Render(err.Error()))
		return nil
	}
	if !ephemeral {
		fmt.Println(tui.SuccessStyle.Render("✓") + " Logged to " + cfg.DBPath)
	}
	return nil
}

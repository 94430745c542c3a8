package core

import (
	"fmt"
	"strconv"
	"strings"
)

// SystemPrompt is the system instruction for calorie estimation.
const SystemPrompt = `You are a fitness expert who estimates calories burned during exercise. You receive a workout description and output ONLY valid JSON. No markdown, no commentary - just the JSON object.

## OUTPUT FORMAT

{
  "calories": <number>,
  "explanation": "<one or two sentences on how the estimate was reached>"
}

## RULES

- "calories" is the total calories burned for the whole session, as a number (not a string, not a range).
- Base the estimate on MET values for the activity, the body weight given, and the duration or repetition count.
- Keep the explanation short and mention the main factors (intensity, duration, body weight).
- Start your response with { and end with }.`

// UserPromptTemplate is the template for user messages.
const UserPromptTemplate = `Estimate the calories burned for this workout.

Workout type: %s
%s
%s
Return a JSON object with "calories" and "explanation".`

// BuildUserPrompt renders the user prompt for a validated request.
func BuildUserPrompt(req *EstimateRequest) string {
	var amount string
	if req.HasReps() {
		amount = fmt.Sprintf("Repetitions: %s", formatNumber(req.Reps.Value))
	} else {
		amount = fmt.Sprintf("Duration: %s minutes", formatNumber(req.Duration.Value))
	}

	var details strings.Builder
	if IsRunningWorkout(req.WorkoutType) {
		if pace := strings.TrimSpace(req.RunningPace); pace != "" {
			details.WriteString(fmt.Sprintf("Running pace: %s min/km\n", pace))
		}
		details.WriteString("Pace matters: lower min/km = faster = more calories burned per minute. ")
		details.WriteString("Scale the estimate to the pace when one is given.\n")
	}

	if kg, ok := bodyWeightKg(req); ok {
		details.WriteString(fmt.Sprintf("Body weight: %s kg\n", strconv.FormatFloat(kg, 'f', 1, 64)))
	} else {
		details.WriteString(fmt.Sprintf("No body weight given - assume an average adult weighing %d kg.\n", AverageAdultKg))
	}

	return fmt.Sprintf(UserPromptTemplate, req.WorkoutType, amount, details.String())
}

// bodyWeightKg returns the weight to embed for running workouts with a
// positive weight.
func bodyWeightKg(req *EstimateRequest) (float64, bool) {
	if !IsRunningWorkout(req.WorkoutType) {
		return 0, false
	}
	if req.Weight == nil || !req.Weight.Valid || req.Weight.Value <= 0 {
		return 0, false
	}
	unit := req.WeightUnit
	if unit == "" {
		unit = UnitKilograms
	}
	return WeightInKg(req.Weight.Value, unit), true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

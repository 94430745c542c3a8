package core

import (
	"math"
	"strings"
	"unicode"
)

// PoundsToKilograms is the fixed lbs → kg factor used in prompts.
const PoundsToKilograms = 0.453592

// AverageAdultKg is assumed when no body weight is supplied.
const AverageAdultKg = 70

// Upper bounds that keep counts well inside int on every platform.
const (
	MaxCalories = math.MaxInt32
	MaxReps     = 1_000_000
)

// IsPushupWorkout reports whether the workout type is a push-up variant
// ("Push-Ups", "push ups", "pushup", ...). Such workouts are logged in reps.
func IsPushupWorkout(workoutType string) bool {
	normalized := strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, workoutType)
	if normalized == "" {
		return false
	}
	return normalized == "pushup" || normalized == "pushups" || strings.HasPrefix(normalized, "pushup")
}

// IsRunningWorkout reports whether the workout type is exactly "run" or
// "running", ignoring case and surrounding whitespace.
func IsRunningWorkout(workoutType string) bool {
	t := strings.TrimSpace(workoutType)
	return strings.EqualFold(t, "run") || strings.EqualFold(t, "running")
}

// WeightInKg normalizes a body weight to kilograms, rounded to one decimal.
func WeightInKg(weight float64, unit WeightUnit) float64 {
	if unit == UnitPounds {
		weight *= PoundsToKilograms
	}
	return math.Round(weight*10) / 10
}

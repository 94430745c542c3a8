package core

import (
	"math"
	"strconv"
	"strings"
)

// Validate checks the request for required fields and numeric sanity.
// Duration-only and reps-only payloads are both accepted.
func (r *EstimateRequest) Validate() error {
	if strings.TrimSpace(r.WorkoutType) == "" {
		return &ValidationError{Field: "workoutType", Message: "required"}
	}
	if !r.HasDuration() && !r.HasReps() {
		return &ValidationError{Field: "duration", Message: "duration or reps is required"}
	}
	if r.HasDuration() {
		if !r.Duration.Valid || r.Duration.Value <= 0 {
			return &ValidationError{Field: "duration", Message: "must be a positive number"}
		}
	}
	if r.HasReps() {
		if !r.Reps.Valid || r.Reps.Value <= 0 || r.Reps.Value != math.Trunc(r.Reps.Value) {
			return &ValidationError{Field: "reps", Message: "must be a positive whole number"}
		}
		if r.Reps.Value > MaxReps {
			return &ValidationError{Field: "reps", Message: "must be at most " + strconv.Itoa(MaxReps)}
		}
	}
	if r.Weight != nil && r.Weight.Set {
		if !r.Weight.Valid || r.Weight.Value < 0 {
			return &ValidationError{Field: "weight", Message: "must be a non-negative number"}
		}
	}
	if r.WeightUnit != "" && r.WeightUnit != UnitKilograms && r.WeightUnit != UnitPounds {
		return &ValidationError{Field: "weightUnit", Message: "must be kg or lbs"}
	}
	return nil
}

// validationMessage renders a ValidationError the way the gateway reports it.
func validationMessage(e *ValidationError) string {
	switch {
	case e.Field == "workoutType":
		return "Missing required field: workoutType"
	case e.Field == "duration" && strings.Contains(e.Message, "required"):
		return "Missing required field: duration or reps"
	}
	return "Invalid " + e.Field + ": " + e.Message
}
